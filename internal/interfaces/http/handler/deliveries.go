package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "github.com/stockyard/backend/internal/application/logistics"
	"github.com/stockyard/backend/internal/domain/logistics"
)

type DeliveryService interface {
	ListPending(ctx context.Context, locationID uuid.UUID) ([]*logistics.PendingDelivery, error)
	Get(ctx context.Context, deliveryID uuid.UUID) (*logistics.PendingDelivery, error)
	Confirm(ctx context.Context, cmd applog.ConfirmDeliveryCommand) (*logistics.PendingDelivery, error)
	Reject(ctx context.Context, cmd applog.RejectDeliveryCommand) (*logistics.PendingDelivery, error)
}

type DeliveryHandler struct {
	BaseHandler
	deliveries DeliveryService
}

func NewDeliveryHandler(deliveries DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.GET("/:id", h.Get)
		deliveries.POST("/:id/confirm", h.Confirm)
		deliveries.POST("/:id/reject", h.Reject)
	}
	rg.GET("/locations/:id/deliveries", h.ListPending)
}

func (h *DeliveryHandler) ListPending(c *gin.Context) {
	locationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid location id")
		return
	}

	deliveries, err := h.deliveries.ListPending(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deliveries)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery id")
		return
	}

	delivery, err := h.deliveries.Get(c.Request.Context(), deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

func (h *DeliveryHandler) Confirm(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery id")
		return
	}

	var cmd applog.ConfirmDeliveryCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.DeliveryID = deliveryID
	cmd.ActorID = actorID

	delivery, err := h.deliveries.Confirm(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

func (h *DeliveryHandler) Reject(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery id")
		return
	}

	var cmd applog.RejectDeliveryCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.DeliveryID = deliveryID
	cmd.ActorID = actorID

	delivery, err := h.deliveries.Reject(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}
