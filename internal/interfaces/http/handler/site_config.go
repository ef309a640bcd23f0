package handler

import (
	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/gin-gonic/gin"
)

// SiteConfigHandler handles site configuration endpoints
type SiteConfigHandler struct {
	BaseHandler
	siteConfigService *accountsapp.SiteConfigService
}

// NewSiteConfigHandler creates a new site config handler
func NewSiteConfigHandler(siteConfigService *accountsapp.SiteConfigService) *SiteConfigHandler {
	return &SiteConfigHandler{
		siteConfigService: siteConfigService,
	}
}

// UpdateSiteConfigRequest contains staff edits to the site configuration
type UpdateSiteConfigRequest struct {
	SiteName              *string `json:"site_name" binding:"omitempty,min=1,max=255"`
	PrimaryColor          *string `json:"primary_color" binding:"omitempty,hexcolor"`
	AllowUserRegistration *bool   `json:"allow_user_registration"`
	EnableOrcidLogin      *bool   `json:"enable_orcid_login"`
	ShowPoweredBy         *bool   `json:"show_powered_by"`
	BookingDeletionWindow *int    `json:"booking_deletion_window_minutes" binding:"omitempty,min=0"`
}

// Get returns the site configuration. Reads are public.
func (h *SiteConfigHandler) Get(c *gin.Context) {
	cfg, err := h.siteConfigService.GetSiteConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cfg)
}

// Update edits the site configuration (staff only)
func (h *SiteConfigHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateSiteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.siteConfigService.UpdateSiteConfig(c.Request.Context(), accountsapp.UpdateSiteConfigInput{
		ActorID:               actorID,
		SiteName:              req.SiteName,
		PrimaryColor:          req.PrimaryColor,
		AllowUserRegistration: req.AllowUserRegistration,
		EnableOrcidLogin:      req.EnableOrcidLogin,
		ShowPoweredBy:         req.ShowPoweredBy,
		BookingDeletionWindow: req.BookingDeletionWindow,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cfg)
}
