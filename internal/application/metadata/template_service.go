package metadata

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService manages reusable table layouts. At most one template
// is the default at a time.
type TemplateService struct {
	templateRepo metadata.TemplateRepository
	schemaRepo   metadata.SchemaRepository
	userRepo     accounts.UserRepository
	logger       *zap.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo metadata.TemplateRepository,
	schemaRepo metadata.SchemaRepository,
	userRepo accounts.UserRepository,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		schemaRepo:   schemaRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// CreateTemplate creates a template owned by the actor
func (s *TemplateService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*TemplateDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	tpl, err := metadata.NewMetadataTableTemplate(input.Name, input.ActorID)
	if err != nil {
		return nil, err
	}

	tpl.SetDescription(input.Description)
	tpl.LabGroupID = input.LabGroupID

	if len(input.SchemaIDs) > 0 {
		if err := s.verifySchemas(ctx, input.SchemaIDs); err != nil {
			return nil, err
		}
		tpl.SetSchemas(input.SchemaIDs)
	}

	if input.IsDefault {
		if !actor.IsStaff {
			return nil, shared.ErrForbidden
		}
		tpl.MarkDefault()
	}

	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		s.logger.Error("Failed to create template", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create template")
	}

	if tpl.IsDefault {
		if err := s.templateRepo.UnmarkOtherDefaults(ctx, tpl.ID); err != nil {
			s.logger.Error("Failed to unmark other defaults", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create template")
		}
	}

	s.logger.Info("Template created",
		zap.String("template_id", tpl.ID.String()),
		zap.String("name", tpl.Name),
		zap.Bool("is_default", tpl.IsDefault))

	dto := toTemplateDTO(tpl)
	return &dto, nil
}

// GetTemplate returns a template the actor may read
func (s *TemplateService) GetTemplate(ctx context.Context, actorID, templateID uuid.UUID) (*TemplateDTO, error) {
	tpl, actor, err := s.loadTemplateAndActor(ctx, templateID, actorID)
	if err != nil {
		return nil, err
	}

	access := accounts.ResourceAccess{OwnerID: tpl.OwnerID, Visibility: tpl.Visibility, IsLocked: tpl.IsLocked}
	if !access.CanView(actor, nil, false) {
		return nil, shared.ErrForbidden
	}

	dto := toTemplateDTO(tpl)
	return &dto, nil
}

// ListMyTemplates returns the actor's own templates
func (s *TemplateService) ListMyTemplates(ctx context.Context, actorID uuid.UUID) ([]TemplateDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, actorID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	templates, err := s.templateRepo.FindByOwner(ctx, actorID)
	if err != nil {
		s.logger.Error("Failed to list templates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list templates")
	}

	dtos := make([]TemplateDTO, len(templates))
	for i, tpl := range templates {
		dtos[i] = toTemplateDTO(tpl)
	}
	return dtos, nil
}

// GetDefaultTemplate returns the current default, if any
func (s *TemplateService) GetDefaultTemplate(ctx context.Context) (*TemplateDTO, error) {
	tpl, err := s.templateRepo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_DEFAULT_TEMPLATE", "No default template is configured")
		}
		s.logger.Error("Failed to load default template", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load default template")
	}

	dto := toTemplateDTO(tpl)
	return &dto, nil
}

// UpdateTemplate edits template attributes. Marking a template default
// is staff-only and unmarks every other default.
func (s *TemplateService) UpdateTemplate(ctx context.Context, input UpdateTemplateInput) (*TemplateDTO, error) {
	tpl, actor, err := s.loadTemplateAndActor(ctx, input.TemplateID, input.ActorID)
	if err != nil {
		return nil, err
	}

	access := accounts.ResourceAccess{OwnerID: tpl.OwnerID, Visibility: tpl.Visibility, IsLocked: tpl.IsLocked}
	if !access.CanEdit(actor, nil) {
		return nil, shared.ErrForbidden
	}

	if input.Name != nil {
		if err := tpl.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		tpl.SetDescription(*input.Description)
	}
	if input.SchemaIDs != nil {
		if err := s.verifySchemas(ctx, input.SchemaIDs); err != nil {
			return nil, err
		}
		tpl.SetSchemas(input.SchemaIDs)
	}

	becameDefault := false
	if input.IsDefault != nil && *input.IsDefault != tpl.IsDefault {
		if !actor.IsStaff {
			return nil, shared.ErrForbidden
		}
		if *input.IsDefault {
			tpl.MarkDefault()
			becameDefault = true
		} else {
			tpl.UnmarkDefault()
		}
	}

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		s.logger.Error("Failed to update template", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update template")
	}

	if becameDefault {
		if err := s.templateRepo.UnmarkOtherDefaults(ctx, tpl.ID); err != nil {
			s.logger.Error("Failed to unmark other defaults", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update template")
		}
	}

	dto := toTemplateDTO(tpl)
	return &dto, nil
}

// DeleteTemplate deletes a template
func (s *TemplateService) DeleteTemplate(ctx context.Context, actorID, templateID uuid.UUID) error {
	tpl, actor, err := s.loadTemplateAndActor(ctx, templateID, actorID)
	if err != nil {
		return err
	}

	access := accounts.ResourceAccess{OwnerID: tpl.OwnerID, Visibility: tpl.Visibility, IsLocked: tpl.IsLocked}
	if !access.CanDelete(actor, nil) {
		return shared.ErrForbidden
	}

	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		s.logger.Error("Failed to delete template", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete template")
	}

	s.logger.Info("Template deleted",
		zap.String("template_id", templateID.String()),
		zap.String("deleted_by", actorID.String()))

	return nil
}

func (s *TemplateService) loadTemplateAndActor(ctx context.Context, templateID, actorID uuid.UUID) (*metadata.MetadataTableTemplate, *accounts.User, error) {
	tpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("TEMPLATE_NOT_FOUND", "Template not found")
		}
		s.logger.Error("Failed to load template", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load template")
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	return tpl, actor, nil
}

// verifySchemas checks that every referenced schema exists
func (s *TemplateService) verifySchemas(ctx context.Context, schemaIDs []uuid.UUID) error {
	schemas, err := s.schemaRepo.FindByIDs(ctx, schemaIDs)
	if err != nil {
		s.logger.Error("Failed to load schemas", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load schemas")
	}
	if len(schemas) != len(schemaIDs) {
		return shared.NewDomainError("SCHEMA_NOT_FOUND", "One or more schemas do not exist")
	}
	return nil
}
