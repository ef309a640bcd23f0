package instruments

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InstrumentService manages the instrument catalog. Administration is
// staff-only, reads are open to any authenticated user.
type InstrumentService struct {
	instrumentRepo instruments.InstrumentRepository
	userRepo       accounts.UserRepository
	logger         *zap.Logger
}

// NewInstrumentService creates a new instrument service
func NewInstrumentService(
	instrumentRepo instruments.InstrumentRepository,
	userRepo accounts.UserRepository,
	logger *zap.Logger,
) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// CreateInstrument registers a new instrument
func (s *InstrumentService) CreateInstrument(ctx context.Context, input CreateInstrumentInput) (*InstrumentDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	inst, err := instruments.NewInstrument(input.Name)
	if err != nil {
		return nil, err
	}
	inst.SetDescription(input.Description)

	if err := s.instrumentRepo.Create(ctx, inst); err != nil {
		s.logger.Error("Failed to create instrument", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create instrument")
	}

	s.logger.Info("Instrument created",
		zap.String("instrument_id", inst.ID.String()),
		zap.String("name", inst.Name))

	dto := toInstrumentDTO(inst)
	return &dto, nil
}

// GetInstrument returns an instrument by id
func (s *InstrumentService) GetInstrument(ctx context.Context, instrumentID uuid.UUID) (*InstrumentDTO, error) {
	inst, err := s.instrumentRepo.FindByID(ctx, instrumentID)
	if err != nil {
		return nil, shared.NewDomainError("INSTRUMENT_NOT_FOUND", "Instrument not found")
	}

	dto := toInstrumentDTO(inst)
	return &dto, nil
}

// ListInstruments returns instruments, optionally only enabled ones
func (s *InstrumentService) ListInstruments(ctx context.Context, enabledOnly bool) ([]InstrumentDTO, error) {
	insts, err := s.instrumentRepo.FindAll(ctx, enabledOnly)
	if err != nil {
		s.logger.Error("Failed to list instruments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list instruments")
	}

	dtos := make([]InstrumentDTO, len(insts))
	for i, inst := range insts {
		dtos[i] = toInstrumentDTO(inst)
	}
	return dtos, nil
}

// UpdateInstrument edits instrument attributes
func (s *InstrumentService) UpdateInstrument(ctx context.Context, input UpdateInstrumentInput) (*InstrumentDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	inst, err := s.instrumentRepo.FindByID(ctx, input.InstrumentID)
	if err != nil {
		return nil, shared.NewDomainError("INSTRUMENT_NOT_FOUND", "Instrument not found")
	}

	if input.Name != nil {
		name := *input.Name
		if name == "" {
			return nil, shared.NewDomainError("INVALID_INSTRUMENT_NAME", "Instrument name cannot be empty")
		}
		inst.Name = name
	}
	if input.Description != nil {
		inst.SetDescription(*input.Description)
	}

	if err := s.instrumentRepo.Update(ctx, inst); err != nil {
		s.logger.Error("Failed to update instrument", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update instrument")
	}

	dto := toInstrumentDTO(inst)
	return &dto, nil
}

// SetInstrumentEnabled takes an instrument in or out of service
func (s *InstrumentService) SetInstrumentEnabled(ctx context.Context, actorID, instrumentID uuid.UUID, enabled bool) (*InstrumentDTO, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	inst, err := s.instrumentRepo.FindByID(ctx, instrumentID)
	if err != nil {
		return nil, shared.NewDomainError("INSTRUMENT_NOT_FOUND", "Instrument not found")
	}

	if enabled {
		inst.Enable()
	} else {
		inst.Disable()
	}

	if err := s.instrumentRepo.Update(ctx, inst); err != nil {
		s.logger.Error("Failed to update instrument", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update instrument")
	}

	s.logger.Info("Instrument availability changed",
		zap.String("instrument_id", instrumentID.String()),
		zap.Bool("enabled", enabled))

	dto := toInstrumentDTO(inst)
	return &dto, nil
}

// DeleteInstrument removes an instrument from the catalog
func (s *InstrumentService) DeleteInstrument(ctx context.Context, actorID, instrumentID uuid.UUID) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}

	if _, err := s.instrumentRepo.FindByID(ctx, instrumentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INSTRUMENT_NOT_FOUND", "Instrument not found")
		}
		s.logger.Error("Failed to load instrument", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete instrument")
	}

	if err := s.instrumentRepo.Delete(ctx, instrumentID); err != nil {
		s.logger.Error("Failed to delete instrument", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete instrument")
	}

	s.logger.Info("Instrument deleted", zap.String("instrument_id", instrumentID.String()))

	return nil
}

func (s *InstrumentService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}
	return nil
}
