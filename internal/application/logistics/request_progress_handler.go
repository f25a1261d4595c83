package logistics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// RequestProgressHandler moves bound stock requests along when their
// delivery resolves: confirmation fulfils the request, rejection drops
// it back to accepted so it can be dispatched again.
type RequestProgressHandler struct {
	scope  TransactionScope
	logger *zap.Logger
}

func NewRequestProgressHandler(scope TransactionScope, logger *zap.Logger) *RequestProgressHandler {
	return &RequestProgressHandler{scope: scope, logger: logger}
}

func (h *RequestProgressHandler) EventTypes() []string {
	return []string{
		logistics.EventTypeDeliveryConfirmed,
		logistics.EventTypeDeliveryRejected,
	}
}

func (h *RequestProgressHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *logistics.DeliveryConfirmedEvent:
		if e.StockRequestID == nil {
			return nil
		}
		return h.progress(ctx, *e.StockRequestID, func(request *logistics.StockRequest) error {
			return request.MarkFulfilled()
		})
	case *logistics.DeliveryRejectedEvent:
		if e.StockRequestID == nil {
			return nil
		}
		return h.progress(ctx, *e.StockRequestID, func(request *logistics.StockRequest) error {
			return request.RevertToAccepted()
		})
	default:
		return nil
	}
}

func (h *RequestProgressHandler) progress(ctx context.Context, requestID uuid.UUID, fn func(*logistics.StockRequest) error) error {
	return h.scope.Execute(ctx, func(repos ScopedRepositories) error {
		request, err := repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		expected := request.GetVersion()
		if err := fn(request); err != nil {
			return err
		}
		if err := repos.Requests().SaveWithLock(ctx, request, expected); err != nil {
			return err
		}
		h.logger.Info("stock request progressed",
			zap.String("request_id", request.ID.String()),
			zap.String("status", string(request.Status)))
		return nil
	})
}
