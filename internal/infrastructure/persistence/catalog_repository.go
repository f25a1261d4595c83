package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/shared"
)

func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity)
	}
	return err
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "item")
	}
	return &item, nil
}

func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		return nil, notFoundOr(err, "item")
	}
	return &item, nil
}

func (r *ItemRepository) FindActive(ctx context.Context) ([]*catalog.Item, error) {
	var items []*catalog.Item
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("sku ASC").Find(&items).Error
	return items, err
}

func (r *ItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	var location catalog.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "location")
	}
	return &location, nil
}

func (r *LocationRepository) FindByCode(ctx context.Context, code string) (*catalog.Location, error) {
	var location catalog.Location
	if err := r.db.WithContext(ctx).First(&location, "code = ?", code).Error; err != nil {
		return nil, notFoundOr(err, "location")
	}
	return &location, nil
}

func (r *LocationRepository) FindActive(ctx context.Context) ([]*catalog.Location, error) {
	var locations []*catalog.Location
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) FindByType(ctx context.Context, locType catalog.LocationType) ([]*catalog.Location, error) {
	var locations []*catalog.Location
	err := r.db.WithContext(ctx).
		Where("type = ? AND active = ?", locType, true).
		Order("code ASC").
		Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) Save(ctx context.Context, location *catalog.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "supplier")
	}
	return &supplier, nil
}

func (r *SupplierRepository) FindActive(ctx context.Context) ([]*catalog.Supplier, error) {
	var suppliers []*catalog.Supplier
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	var vehicle catalog.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "vehicle")
	}
	return &vehicle, nil
}

func (r *VehicleRepository) FindActive(ctx context.Context) ([]*catalog.Vehicle, error) {
	var vehicles []*catalog.Vehicle
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("plate ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepository) Save(ctx context.Context, vehicle *catalog.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Driver, error) {
	var driver catalog.Driver
	if err := r.db.WithContext(ctx).First(&driver, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "driver")
	}
	return &driver, nil
}

func (r *DriverRepository) FindActive(ctx context.Context) ([]*catalog.Driver, error) {
	var drivers []*catalog.Driver
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&drivers).Error
	return drivers, err
}

func (r *DriverRepository) Save(ctx context.Context, driver *catalog.Driver) error {
	return r.db.WithContext(ctx).Save(driver).Error
}
