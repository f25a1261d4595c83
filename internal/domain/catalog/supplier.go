package catalog

import (
	"strings"

	"github.com/stockyard/backend/internal/domain/shared"
)

// Supplier identifies where received stock came from. Referenced by
// receive transactions for traceability.
type Supplier struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"size:255;not null" json:"name"`
	Contact string `gorm:"size:255" json:"contact"`
	Phone   string `gorm:"size:64" json:"phone"`
	Active  bool   `gorm:"default:true" json:"active"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

func NewSupplier(name, contact, phone string) (*Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("supplier name is required")
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Contact:           strings.TrimSpace(contact),
		Phone:             strings.TrimSpace(phone),
		Active:            true,
	}, nil
}

func (s *Supplier) Deactivate() {
	s.Active = false
	s.IncrementVersion()
}
