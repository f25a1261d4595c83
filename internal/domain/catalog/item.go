package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

// Item is a stock-keeping unit. Quantities elsewhere in the system are
// always expressed in the item's base unit (e.g. kilograms); BagWeight
// converts between base units and whole bags for display.
type Item struct {
	shared.BaseAggregateRoot
	SKU       string          `gorm:"uniqueIndex;size:64;not null" json:"sku"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	BaseUnit  string          `gorm:"size:32;not null" json:"base_unit"`
	BagWeight decimal.Decimal `gorm:"type:decimal(20,4)" json:"bag_weight"`
	Active    bool            `gorm:"default:true" json:"active"`
}

func (Item) TableName() string {
	return "items"
}

func NewItem(sku, name, baseUnit string, bagWeight decimal.Decimal) (*Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewValidationError("item sku is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("item name is required")
	}
	if strings.TrimSpace(baseUnit) == "" {
		return nil, shared.NewValidationError("item base unit is required")
	}
	if bagWeight.IsNegative() {
		return nil, shared.NewValidationError("bag weight cannot be negative")
	}
	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              strings.TrimSpace(name),
		BaseUnit:          baseUnit,
		BagWeight:         bagWeight,
		Active:            true,
	}, nil
}

// BagsFromBase converts a base-unit quantity to whole bags, truncating
// any remainder. Returns zero when no bag weight is configured.
func (i *Item) BagsFromBase(qty decimal.Decimal) int64 {
	if i.BagWeight.IsZero() {
		return 0
	}
	return qty.Div(i.BagWeight).IntPart()
}

func (i *Item) Deactivate() {
	i.Active = false
	i.IncrementVersion()
}

func (i *Item) UpdateDetails(name string, bagWeight decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("item name is required")
	}
	if bagWeight.IsNegative() {
		return shared.NewValidationError("bag weight cannot be negative")
	}
	i.Name = strings.TrimSpace(name)
	i.BagWeight = bagWeight
	i.IncrementVersion()
	return nil
}
