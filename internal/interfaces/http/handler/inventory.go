package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/stockyard/backend/internal/application/inventory"
	"github.com/stockyard/backend/internal/domain/inventory"
)

// LedgerService is the slice of the inventory application service the
// HTTP layer needs.
type LedgerService interface {
	Receive(ctx context.Context, cmd appinv.ReceiveStockCommand) (*appinv.TransactionResult, error)
	Issue(ctx context.Context, cmd appinv.IssueStockCommand) (*appinv.TransactionResult, error)
	Waste(ctx context.Context, cmd appinv.WasteStockCommand) (*appinv.TransactionResult, error)
	Transfer(ctx context.Context, cmd appinv.TransferStockCommand) (*appinv.TransactionResult, error)
	Adjust(ctx context.Context, cmd appinv.AdjustStockCommand) (*appinv.TransactionResult, error)
	Undo(ctx context.Context, cmd appinv.UndoTransactionCommand) (*appinv.TransactionResult, error)
}

type InventoryQueryService interface {
	LocationSummary(ctx context.Context, locationID uuid.UUID) ([]*appinv.StockSummaryView, error)
	Transactions(ctx context.Context, filter inventory.TransactionFilter) ([]*inventory.StockTransaction, int64, error)
	Batches(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error)
	ExpiringBatches(ctx context.Context, within time.Duration) ([]*inventory.StockBatch, error)
}

// SummaryViewCache fronts LocationSummary reads. A nil cache disables
// caching entirely.
type SummaryViewCache interface {
	Get(ctx context.Context, locationID uuid.UUID) ([]*appinv.StockSummaryView, bool)
	Set(ctx context.Context, locationID uuid.UUID, views []*appinv.StockSummaryView)
}

type InventoryHandler struct {
	BaseHandler
	ledger LedgerService
	query  InventoryQueryService
	cache  SummaryViewCache
	// expiryHorizon is the default lookahead for the expiring report
	// when the request does not pass ?within=.
	expiryHorizon time.Duration
}

func NewInventoryHandler(ledger LedgerService, query InventoryQueryService, cache SummaryViewCache, expiryHorizon time.Duration) *InventoryHandler {
	if expiryHorizon <= 0 {
		expiryHorizon = 7 * 24 * time.Hour
	}
	return &InventoryHandler{ledger: ledger, query: query, cache: cache, expiryHorizon: expiryHorizon}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/receive", h.Receive)
		inv.POST("/issue", h.Issue)
		inv.POST("/waste", h.Waste)
		inv.POST("/transfer", h.Transfer)
		inv.POST("/adjust", h.Adjust)

		inv.GET("/locations/:id/summary", h.LocationSummary)
		inv.GET("/batches", h.Batches)
		inv.GET("/batches/expiring", h.ExpiringBatches)

		inv.GET("/transactions", h.Transactions)
		inv.POST("/transactions/:id/undo", h.Undo)
	}
}

func (h *InventoryHandler) Receive(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd appinv.ReceiveStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.ActorID = actorID

	result, err := h.ledger.Receive(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) Issue(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd appinv.IssueStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.ActorID = actorID

	result, err := h.ledger.Issue(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) Waste(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd appinv.WasteStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.ActorID = actorID

	result, err := h.ledger.Waste(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) Transfer(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd appinv.TransferStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.ActorID = actorID

	result, err := h.ledger.Transfer(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd appinv.AdjustStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.ActorID = actorID

	result, err := h.ledger.Adjust(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) Undo(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	txID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	var cmd appinv.UndoTransactionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil && c.Request.ContentLength > 0 {
		h.ValidationFailed(c, err)
		return
	}
	cmd.TransactionID = txID
	cmd.ActorID = actorID

	result, err := h.ledger.Undo(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *InventoryHandler) LocationSummary(c *gin.Context) {
	locationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid location id")
		return
	}

	ctx := c.Request.Context()
	if h.cache != nil {
		if views, ok := h.cache.Get(ctx, locationID); ok {
			h.Success(c, views)
			return
		}
	}

	views, err := h.query.LocationSummary(ctx, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if h.cache != nil {
		h.cache.Set(ctx, locationID, views)
	}
	h.Success(c, views)
}

func (h *InventoryHandler) Batches(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "item_id query parameter is required")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "location_id query parameter is required")
		return
	}

	batches, err := h.query.Batches(c.Request.Context(), itemID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

func (h *InventoryHandler) ExpiringBatches(c *gin.Context) {
	within := h.expiryHorizon
	if raw := c.Query("within"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "within must be a positive duration")
			return
		}
		within = parsed
	}

	batches, err := h.query.ExpiringBatches(c.Request.Context(), within)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

func (h *InventoryHandler) Transactions(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.TransactionFilter{Pagination: pagination}
	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid item_id")
			return
		}
		filter.ItemID = &id
	}
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid location_id")
			return
		}
		filter.LocationID = &id
	}
	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid owner_id")
			return
		}
		filter.OwnerID = &id
	}
	if raw := c.Query("type"); raw != "" {
		txType := inventory.TransactionType(raw)
		filter.Type = &txType
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "from must be RFC3339")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "to must be RFC3339")
			return
		}
		filter.To = &to
	}

	txs, total, err := h.query.Transactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, pagination.Page, pagination.PageSize)
}
