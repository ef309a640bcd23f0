package handler

import (
	"net/http"
	"strings"
	"time"

	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/cupcake/backend/internal/interfaces/http/dto"
	"github.com/cupcake/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RefreshTokenCookieName is the cookie carrying the refresh token for
// browser clients that cannot store it safely themselves.
const RefreshTokenCookieName = "cupcake_refresh_token"

// RefreshCookieConfig controls the optional refresh token cookie. When
// enabled, login and refresh set the cookie and refresh accepts it in
// place of a request body.
type RefreshCookieConfig struct {
	Enabled  bool
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *accountsapp.AuthService
	cookie      RefreshCookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *accountsapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// EnableRefreshCookie turns on the refresh token cookie
func (h *AuthHandler) EnableRefreshCookie(cfg RefreshCookieConfig) {
	cfg.Enabled = true
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	h.cookie = cfg
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if !h.cookie.Enabled {
		return
	}
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(RefreshTokenCookieName, token, int(h.cookie.MaxAge.Seconds()),
		h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	if !h.cookie.Enabled {
		return
	}
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(RefreshTokenCookieName, "", -1,
		h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

// ObtainTokenPair authenticates with username and password and issues a
// token pair.
func (h *AuthHandler) ObtainTokenPair(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	// Client IP feeds the login lockout counter
	clientIP := c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), accountsapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       clientIP,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := LoginResponse{
		TokenPairResponse: TokenPairResponse{
			Access:         result.AccessToken,
			Refresh:        result.RefreshToken,
			AccessExpires:  result.AccessTokenExpiresAt,
			RefreshExpires: result.RefreshTokenExpiresAt,
			TokenType:      result.TokenType,
		},
		User: toAuthUserResponse(result.User),
	}

	h.setRefreshCookie(c, result.RefreshToken)
	h.Success(c, response)
}

// RefreshTokenPair rotates a refresh token into a new token pair. The
// token comes from the request body, or from the refresh cookie when
// the body omits it.
func (h *AuthHandler) RefreshTokenPair(c *gin.Context) {
	var req RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	refreshToken := req.Refresh
	if refreshToken == "" && h.cookie.Enabled {
		refreshToken, _ = c.Cookie(RefreshTokenCookieName)
	}
	if refreshToken == "" {
		h.BadRequest(c, "Refresh token is required")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), accountsapp.RefreshTokenInput{
		RefreshToken: refreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	h.Success(c, TokenPairResponse{
		Access:         result.AccessToken,
		Refresh:        result.RefreshToken,
		AccessExpires:  result.AccessTokenExpiresAt,
		RefreshExpires: result.RefreshTokenExpiresAt,
		TokenType:      result.TokenType,
	})
}

// VerifyToken validates an access token and returns its custom claims
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyToken(c.Request.Context(), accountsapp.VerifyTokenInput{
		AccessToken: req.Token,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VerifyTokenResponse{
		UserID:      result.UserID,
		Username:    result.Username,
		IsStaff:     result.IsStaff,
		IsSuperuser: result.IsSuperuser,
		ExpiresAt:   result.ExpiresAt,
	})
}

// Logout blacklists the caller's current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader(middleware.AuthHeaderKey)
	token := strings.TrimPrefix(authHeader, middleware.BearerPrefix)
	if token == "" || token == authHeader {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err := h.authService.Logout(c.Request.Context(), accountsapp.LogoutInput{
		AccessToken: token,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.Success(c, LogoutResponse{
		Message: "Logged out successfully",
	})
}

// ForceLogout invalidates every session of a target user (staff only)
func (h *AuthHandler) ForceLogout(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	// Reason is optional, so an empty body is fine
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	err = h.authService.ForceLogout(c.Request.Context(), accountsapp.ForceLogoutInput{
		StaffUserID:  actorID,
		TargetUserID: targetID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoutResponse{
		Message: "All sessions invalidated",
	})
}

// GetCurrentUser returns the authenticated user's profile and lab groups
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.authService.GetCurrentUser(c.Request.Context(), accountsapp.GetCurrentUserInput{
		UserID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CurrentUserResponse{
		User:        toAuthUserResponse(result.User),
		LabGroupIDs: result.LabGroupIDs,
	})
}

// ChangePassword changes the current user's password and invalidates
// previously issued tokens.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), accountsapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Password changed successfully",
	}))
}

func toAuthUserResponse(user accountsapp.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}
