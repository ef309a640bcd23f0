package instruments

import (
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
)

// Instrument is a bookable laboratory instrument
type Instrument struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Enabled     bool
}

// NewInstrument creates an enabled instrument
func NewInstrument(name string) (*Instrument, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT_NAME", "Instrument name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT_NAME", "Instrument name cannot exceed 255 characters")
	}

	return &Instrument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Enabled:           true,
	}, nil
}

// SetDescription sets the instrument description
func (i *Instrument) SetDescription(description string) {
	i.Description = description
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Disable takes the instrument out of service
func (i *Instrument) Disable() {
	i.Enabled = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Enable returns the instrument to service
func (i *Instrument) Enable() {
	i.Enabled = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
