package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type LocationType string

const (
	LocationTypeWarehouse LocationType = "warehouse"
	LocationTypeShop      LocationType = "shop"
)

// Location is a physical stock-holding site. Thresholds drive low-stock
// alerts: critical must stay strictly below low.
type Location struct {
	shared.BaseAggregateRoot
	Code              string          `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Type              LocationType    `gorm:"size:32;not null" json:"type"`
	CriticalThreshold decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"critical_threshold"`
	LowThreshold      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"low_threshold"`
	Active            bool            `gorm:"default:true" json:"active"`
}

func (Location) TableName() string {
	return "locations"
}

func NewLocation(code, name string, locType LocationType) (*Location, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewValidationError("location code is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("location name is required")
	}
	switch locType {
	case LocationTypeWarehouse, LocationTypeShop:
	default:
		return nil, shared.NewValidationError("location type must be warehouse or shop")
	}
	return &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Type:              locType,
		Active:            true,
	}, nil
}

func (l *Location) SetThresholds(critical, low decimal.Decimal) error {
	if critical.IsNegative() || low.IsNegative() {
		return shared.NewValidationError("thresholds cannot be negative")
	}
	if !low.IsZero() && critical.GreaterThanOrEqual(low) {
		return shared.NewValidationError("critical threshold must be below low threshold")
	}
	l.CriticalThreshold = critical
	l.LowThreshold = low
	l.IncrementVersion()
	return nil
}

// StockLevel classifies an on-hand quantity against the thresholds.
func (l *Location) StockLevel(onHand decimal.Decimal) string {
	if !l.CriticalThreshold.IsZero() && onHand.LessThanOrEqual(l.CriticalThreshold) {
		return "critical"
	}
	if !l.LowThreshold.IsZero() && onHand.LessThanOrEqual(l.LowThreshold) {
		return "low"
	}
	return "ok"
}

func (l *Location) Deactivate() {
	l.Active = false
	l.IncrementVersion()
}
