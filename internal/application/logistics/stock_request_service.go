package logistics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// StockRequestService manages the shop-side request queue. Requests
// progress to fulfilling and fulfilled through the trip and delivery
// flows, not through this service directly.
type StockRequestService struct {
	scope  TransactionScope
	logger *zap.Logger
}

func NewStockRequestService(scope TransactionScope, logger *zap.Logger) *StockRequestService {
	return &StockRequestService{scope: scope, logger: logger}
}

func (s *StockRequestService) Create(ctx context.Context, cmd CreateStockRequestCommand) (*logistics.StockRequest, error) {
	request, err := logistics.NewStockRequest(cmd.ItemID, cmd.LocationID, cmd.RequestedBy, cmd.Qty, cmd.Note)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		return repos.Requests().Save(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("stock request created",
		zap.String("request_id", request.ID.String()),
		zap.String("location_id", cmd.LocationID.String()),
		zap.String("qty", cmd.Qty.String()))
	return request, nil
}

func (s *StockRequestService) Accept(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error) {
	return s.mutate(ctx, requestID, func(request *logistics.StockRequest) error {
		return request.Accept()
	})
}

func (s *StockRequestService) Reject(ctx context.Context, requestID uuid.UUID, reason string) (*logistics.StockRequest, error) {
	return s.mutate(ctx, requestID, func(request *logistics.StockRequest) error {
		return request.Reject(reason)
	})
}

func (s *StockRequestService) Cancel(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error) {
	return s.mutate(ctx, requestID, func(request *logistics.StockRequest) error {
		return request.Cancel()
	})
}

func (s *StockRequestService) Get(ctx context.Context, requestID uuid.UUID) (*logistics.StockRequest, error) {
	var request *logistics.StockRequest
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		request, err = repos.Requests().FindByID(ctx, requestID)
		return err
	})
	return request, err
}

func (s *StockRequestService) ListByStatus(ctx context.Context, status logistics.RequestStatus, p shared.Pagination) ([]*logistics.StockRequest, int64, error) {
	var requests []*logistics.StockRequest
	var total int64
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		requests, total, err = repos.Requests().FindByStatus(ctx, status, p)
		return err
	})
	return requests, total, err
}

func (s *StockRequestService) OpenForLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.StockRequest, error) {
	var requests []*logistics.StockRequest
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		requests, err = repos.Requests().FindOpenByLocation(ctx, locationID)
		return err
	})
	return requests, err
}

func (s *StockRequestService) mutate(ctx context.Context, requestID uuid.UUID, fn func(*logistics.StockRequest) error) (*logistics.StockRequest, error) {
	var request *logistics.StockRequest
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		request, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		expected := request.GetVersion()
		if err := fn(request); err != nil {
			return err
		}
		return repos.Requests().SaveWithLock(ctx, request, expected)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}
