package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "github.com/stockyard/backend/internal/application/logistics"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

type TripService interface {
	PlanTrip(ctx context.Context, cmd applog.PlanTripCommand) (*logistics.Trip, error)
	StartTrip(ctx context.Context, tripID, driverID uuid.UUID) (*logistics.Trip, error)
	ArriveAtStop(ctx context.Context, tripID, stopID, driverID uuid.UUID) (*logistics.Trip, error)
	CompleteStop(ctx context.Context, cmd applog.CompleteStopCommand) (*applog.CompleteStopResult, error)
	SkipStop(ctx context.Context, tripID, stopID, driverID uuid.UUID, reason string) (*logistics.Trip, error)
	CancelTrip(ctx context.Context, tripID uuid.UUID, reason string) (*logistics.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*logistics.Trip, error)
	ListTrips(ctx context.Context, status *logistics.TripStatus, p shared.Pagination) ([]*logistics.Trip, int64, error)
	DriverTrips(ctx context.Context, driverID uuid.UUID) ([]*logistics.Trip, error)
}

type TripHandler struct {
	BaseHandler
	trips TripService
}

func NewTripHandler(trips TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trips := rg.Group("/trips")
	{
		trips.POST("", h.Plan)
		trips.GET("", h.List)
		trips.GET("/:id", h.Get)
		trips.POST("/:id/start", h.Start)
		trips.POST("/:id/cancel", h.Cancel)
		trips.POST("/:id/stops/:stopID/arrive", h.Arrive)
		trips.POST("/:id/stops/:stopID/complete", h.Complete)
		trips.POST("/:id/stops/:stopID/skip", h.Skip)
	}
	rg.GET("/drivers/:id/trips", h.DriverTrips)
}

func (h *TripHandler) Plan(c *gin.Context) {
	var cmd applog.PlanTripCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	trip, err := h.trips.PlanTrip(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, trip)
}

func (h *TripHandler) List(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *logistics.TripStatus
	if raw := c.Query("status"); raw != "" {
		s := logistics.TripStatus(raw)
		status = &s
	}

	trips, total, err := h.trips.ListTrips(c.Request.Context(), status, pagination)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, trips, total, pagination.Page, pagination.PageSize)
}

func (h *TripHandler) Get(c *gin.Context) {
	tripID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid trip id")
		return
	}

	trip, err := h.trips.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

func (h *TripHandler) Start(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	tripID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid trip id")
		return
	}

	trip, err := h.trips.StartTrip(c.Request.Context(), tripID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

func (h *TripHandler) Arrive(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	tripID, stopID, ok := h.stopParams(c)
	if !ok {
		return
	}

	trip, err := h.trips.ArriveAtStop(c.Request.Context(), tripID, stopID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

func (h *TripHandler) Complete(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	tripID, stopID, ok := h.stopParams(c)
	if !ok {
		return
	}

	var cmd applog.CompleteStopCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.ValidationFailed(c, err)
		return
	}
	cmd.TripID = tripID
	cmd.StopID = stopID
	cmd.ActorID = actorID

	result, err := h.trips.CompleteStop(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *TripHandler) Skip(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	tripID, stopID, ok := h.stopParams(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	trip, err := h.trips.SkipStop(c.Request.Context(), tripID, stopID, actorID, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

func (h *TripHandler) Cancel(c *gin.Context) {
	tripID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid trip id")
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.ValidationFailed(c, err)
		return
	}

	trip, err := h.trips.CancelTrip(c.Request.Context(), tripID, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

func (h *TripHandler) DriverTrips(c *gin.Context) {
	driverID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid driver id")
		return
	}

	trips, err := h.trips.DriverTrips(c.Request.Context(), driverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trips)
}

func (h *TripHandler) stopParams(c *gin.Context) (tripID, stopID uuid.UUID, ok bool) {
	tripID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid trip id")
		return uuid.Nil, uuid.Nil, false
	}
	stopID, err = parseIDParam(c, "stopID")
	if err != nil {
		h.BadRequest(c, "invalid stop id")
		return uuid.Nil, uuid.Nil, false
	}
	return tripID, stopID, true
}
