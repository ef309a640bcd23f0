package accounts

import (
	"regexp"
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
)

// Defaults for the site configuration singleton
const (
	DefaultSiteName              = "CUPCAKE"
	DefaultPrimaryColor          = "#1976d2"
	DefaultBookingDeletionWindow = 30
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SiteConfig is a singleton holding installation-wide settings.
// Reads are public; writes require staff.
type SiteConfig struct {
	shared.BaseAggregateRoot
	SiteName                     string
	PrimaryColor                 string
	AllowUserRegistration        bool
	EnableOrcidLogin             bool
	ShowPoweredBy                bool
	BookingDeletionWindowMinutes int
	UpdatedBy                    string
}

// NewSiteConfig creates the singleton with default values
func NewSiteConfig() *SiteConfig {
	return &SiteConfig{
		BaseAggregateRoot:            shared.NewBaseAggregateRoot(),
		SiteName:                     DefaultSiteName,
		PrimaryColor:                 DefaultPrimaryColor,
		ShowPoweredBy:                true,
		BookingDeletionWindowMinutes: DefaultBookingDeletionWindow,
	}
}

// SetSiteName sets the display name of the installation
func (c *SiteConfig) SetSiteName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot exceed 255 characters")
	}

	c.SiteName = name
	c.touch()

	return nil
}

// SetPrimaryColor sets the UI theme color (hex)
func (c *SiteConfig) SetPrimaryColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Primary color must be a hex color value")
	}

	c.PrimaryColor = color
	c.touch()

	return nil
}

// SetRegistration toggles open user registration
func (c *SiteConfig) SetRegistration(allow bool) {
	c.AllowUserRegistration = allow
	c.touch()
}

// SetOrcidLogin toggles ORCID-based login
func (c *SiteConfig) SetOrcidLogin(enable bool) {
	c.EnableOrcidLogin = enable
	c.touch()
}

// SetShowPoweredBy toggles the footer attribution
func (c *SiteConfig) SetShowPoweredBy(show bool) {
	c.ShowPoweredBy = show
	c.touch()
}

// SetBookingDeletionWindow sets how long after creation a booking may be
// deleted by its owner, in minutes
func (c *SiteConfig) SetBookingDeletionWindow(minutes int) error {
	if minutes < 0 {
		return shared.NewDomainError("INVALID_WINDOW", "Booking deletion window cannot be negative")
	}

	c.BookingDeletionWindowMinutes = minutes
	c.touch()

	return nil
}

func (c *SiteConfig) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
