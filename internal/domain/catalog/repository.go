package catalog

import (
	"context"

	"github.com/google/uuid"
)

type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindActive(ctx context.Context) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
}

type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByCode(ctx context.Context, code string) (*Location, error)
	FindActive(ctx context.Context) ([]*Location, error)
	FindByType(ctx context.Context, locType LocationType) ([]*Location, error)
	Save(ctx context.Context, location *Location) error
}

type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindActive(ctx context.Context) ([]*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}

type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindActive(ctx context.Context) ([]*Vehicle, error)
	Save(ctx context.Context, vehicle *Vehicle) error
}

type DriverRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	FindActive(ctx context.Context) ([]*Driver, error)
	Save(ctx context.Context, driver *Driver) error
}
