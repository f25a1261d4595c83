package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/catalog"
)

// CatalogHandler serves the master data behind the ledger: items,
// locations, suppliers and the fleet. These are thin CRUD endpoints,
// so the handler talks to the repositories directly.
type CatalogHandler struct {
	BaseHandler
	items     catalog.ItemRepository
	locations catalog.LocationRepository
	suppliers catalog.SupplierRepository
	vehicles  catalog.VehicleRepository
	drivers   catalog.DriverRepository
}

func NewCatalogHandler(
	items catalog.ItemRepository,
	locations catalog.LocationRepository,
	suppliers catalog.SupplierRepository,
	vehicles catalog.VehicleRepository,
	drivers catalog.DriverRepository,
) *CatalogHandler {
	return &CatalogHandler{
		items:     items,
		locations: locations,
		suppliers: suppliers,
		vehicles:  vehicles,
		drivers:   drivers,
	}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalogGroup := rg.Group("/catalog")
	{
		catalogGroup.GET("/items", h.ListItems)
		catalogGroup.POST("/items", h.CreateItem)
		catalogGroup.GET("/items/:id", h.GetItem)

		catalogGroup.GET("/locations", h.ListLocations)
		catalogGroup.POST("/locations", h.CreateLocation)
		catalogGroup.GET("/locations/:id", h.GetLocation)
		catalogGroup.PUT("/locations/:id/thresholds", h.SetLocationThresholds)

		catalogGroup.GET("/suppliers", h.ListSuppliers)
		catalogGroup.POST("/suppliers", h.CreateSupplier)

		catalogGroup.GET("/vehicles", h.ListVehicles)
		catalogGroup.POST("/vehicles", h.CreateVehicle)

		catalogGroup.GET("/drivers", h.ListDrivers)
		catalogGroup.POST("/drivers", h.CreateDriver)
	}
}

type createItemRequest struct {
	SKU       string          `json:"sku" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	BaseUnit  string          `json:"base_unit" binding:"required"`
	BagWeight decimal.Decimal `json:"bag_weight" binding:"required"`
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.items.FindActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	item, err := catalog.NewItem(req.SKU, req.Name, req.BaseUnit, req.BagWeight)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.items.Save(c.Request.Context(), item); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

func (h *CatalogHandler) GetItem(c *gin.Context) {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item id")
		return
	}

	item, err := h.items.FindByID(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

type createLocationRequest struct {
	Code string               `json:"code" binding:"required"`
	Name string               `json:"name" binding:"required"`
	Type catalog.LocationType `json:"type" binding:"required"`
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	ctx := c.Request.Context()
	if raw := c.Query("type"); raw != "" {
		locations, err := h.locations.FindByType(ctx, catalog.LocationType(raw))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, locations)
		return
	}

	locations, err := h.locations.FindActive(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	location, err := catalog.NewLocation(req.Code, req.Name, req.Type)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.locations.Save(c.Request.Context(), location); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

func (h *CatalogHandler) GetLocation(c *gin.Context) {
	locationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid location id")
		return
	}

	location, err := h.locations.FindByID(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

type thresholdsRequest struct {
	Critical decimal.Decimal `json:"critical" binding:"required"`
	Low      decimal.Decimal `json:"low" binding:"required"`
}

func (h *CatalogHandler) SetLocationThresholds(c *gin.Context) {
	locationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid location id")
		return
	}

	var req thresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	location, err := h.locations.FindByID(ctx, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := location.SetThresholds(req.Critical, req.Low); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.locations.Save(ctx, location); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

type createSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.suppliers.FindActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	supplier, err := catalog.NewSupplier(req.Name, req.Contact, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.suppliers.Save(c.Request.Context(), supplier); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

type createVehicleRequest struct {
	Plate    string          `json:"plate" binding:"required"`
	Model    string          `json:"model"`
	Capacity decimal.Decimal `json:"capacity" binding:"required"`
}

func (h *CatalogHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.FindActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vehicles)
}

func (h *CatalogHandler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	vehicle, err := catalog.NewVehicle(req.Plate, req.Model, req.Capacity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.vehicles.Save(c.Request.Context(), vehicle); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vehicle)
}

type createDriverRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *CatalogHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.drivers.FindActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drivers)
}

func (h *CatalogHandler) CreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	driver, err := catalog.NewDriver(req.Name, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.drivers.Save(c.Request.Context(), driver); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, driver)
}
