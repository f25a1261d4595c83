package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

// Vehicle is a delivery truck assignable to trips.
type Vehicle struct {
	shared.BaseAggregateRoot
	Plate    string          `gorm:"uniqueIndex;size:32;not null" json:"plate"`
	Model    string          `gorm:"size:128" json:"model"`
	Capacity decimal.Decimal `gorm:"type:decimal(20,4)" json:"capacity"`
	Active   bool            `gorm:"default:true" json:"active"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func NewVehicle(plate, model string, capacity decimal.Decimal) (*Vehicle, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, shared.NewValidationError("vehicle plate is required")
	}
	if capacity.IsNegative() {
		return nil, shared.NewValidationError("vehicle capacity cannot be negative")
	}
	return &Vehicle{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Plate:             plate,
		Model:             strings.TrimSpace(model),
		Capacity:          capacity,
		Active:            true,
	}, nil
}

func (v *Vehicle) Deactivate() {
	v.Active = false
	v.IncrementVersion()
}

// Driver operates trips. Drivers are also the owners of the stock
// transactions recorded from their device.
type Driver struct {
	shared.BaseAggregateRoot
	Name   string `gorm:"size:255;not null" json:"name"`
	Phone  string `gorm:"size:64" json:"phone"`
	Active bool   `gorm:"default:true" json:"active"`
}

func (Driver) TableName() string {
	return "drivers"
}

func NewDriver(name, phone string) (*Driver, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("driver name is required")
	}
	return &Driver{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Phone:             strings.TrimSpace(phone),
		Active:            true,
	}, nil
}

func (d *Driver) Deactivate() {
	d.Active = false
	d.IncrementVersion()
}
