package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusAccepted   RequestStatus = "accepted"
	RequestStatusFulfilling RequestStatus = "fulfilling"
	RequestStatusFulfilled  RequestStatus = "fulfilled"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// StockRequest is a shop asking the warehouse for stock. Accepted
// requests move to fulfilling once a delivery is dispatched against
// them and to fulfilled when the shop confirms receipt. A rejected
// delivery drops the request back to accepted so it can be retried.
type StockRequest struct {
	shared.BaseAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"item_id"`
	LocationID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"location_id"`
	RequestedQty decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"requested_qty"`
	Status       RequestStatus   `gorm:"size:16;index;not null" json:"status"`
	RequestedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"requested_by"`
	Note         string          `gorm:"size:512" json:"note"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
}

func (StockRequest) TableName() string {
	return "stock_requests"
}

func NewStockRequest(itemID, locationID, requestedBy uuid.UUID, qty decimal.Decimal, note string) (*StockRequest, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("request item is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("request location is required")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewValidationError("requester is required")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("requested quantity must be positive")
	}
	return &StockRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		LocationID:        locationID,
		RequestedQty:      qty,
		Status:            RequestStatusOpen,
		RequestedBy:       requestedBy,
		Note:              note,
	}, nil
}

func (r *StockRequest) Accept() error {
	return r.transition(RequestStatusAccepted, RequestStatusOpen)
}

func (r *StockRequest) Reject(reason string) error {
	if err := r.transition(RequestStatusRejected, RequestStatusOpen); err != nil {
		return err
	}
	r.Note = reason
	now := time.Now()
	r.ResolvedAt = &now
	return nil
}

func (r *StockRequest) Cancel() error {
	if err := r.transition(RequestStatusCancelled, RequestStatusOpen, RequestStatusAccepted); err != nil {
		return err
	}
	now := time.Now()
	r.ResolvedAt = &now
	return nil
}

// StartFulfilling binds the request to an in-flight delivery.
func (r *StockRequest) StartFulfilling() error {
	return r.transition(RequestStatusFulfilling, RequestStatusAccepted)
}

func (r *StockRequest) MarkFulfilled() error {
	if err := r.transition(RequestStatusFulfilled, RequestStatusFulfilling); err != nil {
		return err
	}
	now := time.Now()
	r.ResolvedAt = &now
	r.AddDomainEvent(NewStockRequestFulfilledEvent(r))
	return nil
}

// RevertToAccepted returns a fulfilling request to the queue after its
// delivery was rejected at the shop.
func (r *StockRequest) RevertToAccepted() error {
	return r.transition(RequestStatusAccepted, RequestStatusFulfilling)
}

func (r *StockRequest) transition(to RequestStatus, from ...RequestStatus) error {
	for _, allowed := range from {
		if r.Status == allowed {
			r.Status = to
			r.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
		"stock request cannot go from %s to %s", r.Status, to)
}
