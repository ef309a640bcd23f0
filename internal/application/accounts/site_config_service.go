package accounts

import (
	"context"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// SiteConfigService handles the site configuration singleton. Reads go
// through the cache; writes require staff and invalidate it.
type SiteConfigService struct {
	configRepo accounts.SiteConfigRepository
	userRepo   accounts.UserRepository
	cache      accounts.SiteConfigCache
	logger     *zap.Logger
}

// NewSiteConfigService creates a new site config service
func NewSiteConfigService(
	configRepo accounts.SiteConfigRepository,
	userRepo accounts.UserRepository,
	configCache accounts.SiteConfigCache,
	logger *zap.Logger,
) *SiteConfigService {
	return &SiteConfigService{
		configRepo: configRepo,
		userRepo:   userRepo,
		cache:      configCache,
		logger:     logger,
	}
}

// GetSiteConfig returns the site configuration. Readable without
// authentication; the login page needs it.
func (s *SiteConfigService) GetSiteConfig(ctx context.Context) (*SiteConfigDTO, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Site config cache read failed", zap.Error(err))
		} else if cached != nil {
			dto := toSiteConfigDTO(cached)
			return &dto, nil
		}
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load site config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load site configuration")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cfg, cache.DefaultSiteConfigTTL); err != nil {
			s.logger.Warn("Site config cache write failed", zap.Error(err))
		}
	}

	dto := toSiteConfigDTO(cfg)
	return &dto, nil
}

// UpdateSiteConfig applies staff edits and invalidates the cache
func (s *SiteConfigService) UpdateSiteConfig(ctx context.Context, input UpdateSiteConfigInput) (*SiteConfigDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load site config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load site configuration")
	}

	if input.SiteName != nil {
		if err := cfg.SetSiteName(*input.SiteName); err != nil {
			return nil, err
		}
	}
	if input.PrimaryColor != nil {
		if err := cfg.SetPrimaryColor(*input.PrimaryColor); err != nil {
			return nil, err
		}
	}
	if input.AllowUserRegistration != nil {
		cfg.SetRegistration(*input.AllowUserRegistration)
	}
	if input.EnableOrcidLogin != nil {
		cfg.SetOrcidLogin(*input.EnableOrcidLogin)
	}
	if input.ShowPoweredBy != nil {
		cfg.SetShowPoweredBy(*input.ShowPoweredBy)
	}
	if input.BookingDeletionWindow != nil {
		if err := cfg.SetBookingDeletionWindow(*input.BookingDeletionWindow); err != nil {
			return nil, err
		}
	}
	cfg.UpdatedBy = actor.Username

	if err := s.configRepo.Save(ctx, cfg); err != nil {
		s.logger.Error("Failed to save site config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save site configuration")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Site config cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("Site config updated", zap.String("updated_by", actor.Username))

	dto := toSiteConfigDTO(cfg)
	return &dto, nil
}
