package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "github.com/stockyard/backend/internal/application/logistics"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

type StockRequestService interface {
	Create(ctx context.Context, cmd applog.CreateStockRequestCommand) (*logistics.StockRequest, error)
	Accept(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error)
	Reject(ctx context.Context, requestID uuid.UUID, reason string) (*logistics.StockRequest, error)
	Cancel(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error)
	Get(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error)
	ListByStatus(ctx context.Context, status logistics.RequestStatus, p shared.Pagination) ([]*logistics.StockRequest, int64, error)
	OpenForLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.StockRequest, error)
}

type StockRequestHandler struct {
	BaseHandler
	requests StockRequestService
}

func NewStockRequestHandler(requests StockRequestService) *StockRequestHandler {
	return &StockRequestHandler{requests: requests}
}

func (h *StockRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/stock-requests")
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("/:id/accept", h.Accept)
		requests.POST("/:id/reject", h.Reject)
		requests.POST("/:id/cancel", h.Cancel)
	}
	rg.GET("/locations/:id/stock-requests", h.OpenForLocation)
}

func (h *StockRequestHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var cmd applog.CreateStockRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.RequestedBy = actorID

	request, err := h.requests.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

func (h *StockRequestHandler) List(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := logistics.RequestStatus(c.DefaultQuery("status", string(logistics.RequestStatusOpen)))

	requests, total, err := h.requests.ListByStatus(c.Request.Context(), status, pagination)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, pagination.Page, pagination.PageSize)
}

func (h *StockRequestHandler) Get(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.requests.Get(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

func (h *StockRequestHandler) Accept(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.requests.Accept(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

func (h *StockRequestHandler) Reject(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid request id")
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	request, err := h.requests.Reject(c.Request.Context(), requestID, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

func (h *StockRequestHandler) Cancel(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.requests.Cancel(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

func (h *StockRequestHandler) OpenForLocation(c *gin.Context) {
	locationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid location id")
		return
	}

	requests, err := h.requests.OpenForLocation(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}
