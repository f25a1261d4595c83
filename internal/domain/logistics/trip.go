package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type TripStatus string

const (
	TripStatusPlanned    TripStatus = "planned"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// Trip is a planned delivery run: an ordered sequence of stops assigned
// to a driver and vehicle. Stops are visited strictly in sequence
// order; the trip completes when its last stop does.
type Trip struct {
	shared.BaseAggregateRoot
	Reference   string     `gorm:"uniqueIndex;size:64;not null" json:"reference"`
	DriverID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"driver_id"`
	VehicleID   uuid.UUID  `gorm:"type:uuid;not null" json:"vehicle_id"`
	Status      TripStatus `gorm:"size:32;index;not null" json:"status"`
	PlannedFor  time.Time  `gorm:"not null" json:"planned_for"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	Stops       []TripStop `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"stops"`
}

func (Trip) TableName() string {
	return "trips"
}

// IsMultiStop is derived from the stop count rather than stored, so it
// can never disagree with the plan.
func (t *Trip) IsMultiStop() bool {
	return len(t.Stops) >= 2
}

func NewTrip(reference string, driverID, vehicleID uuid.UUID, plannedFor time.Time) (*Trip, error) {
	if reference == "" {
		return nil, shared.NewValidationError("trip reference is required")
	}
	if driverID == uuid.Nil {
		return nil, shared.NewValidationError("trip driver is required")
	}
	if vehicleID == uuid.Nil {
		return nil, shared.NewValidationError("trip vehicle is required")
	}
	if plannedFor.IsZero() {
		plannedFor = time.Now()
	}
	return &Trip{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		DriverID:          driverID,
		VehicleID:         vehicleID,
		Status:            TripStatusPlanned,
		PlannedFor:        plannedFor,
	}, nil
}

// AddStop appends a stop to the plan. Stops can only be added while the
// trip is still in the planned state; the sequence is assigned from the
// current stop count.
func (t *Trip) AddStop(stopType StopType, locationID, itemID uuid.UUID, plannedQty decimal.Decimal) (*TripStop, error) {
	if t.Status != TripStatusPlanned {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"cannot add stops to a %s trip", t.Status)
	}
	stop, err := newTripStop(t.ID, len(t.Stops)+1, stopType, locationID, itemID, plannedQty)
	if err != nil {
		return nil, err
	}
	t.Stops = append(t.Stops, *stop)
	t.IncrementVersion()
	return stop, nil
}

// BindStopRequest ties a planned dropoff to the stock request it is
// meant to fulfil.
func (t *Trip) BindStopRequest(stopID, requestID uuid.UUID) error {
	if t.Status != TripStatusPlanned {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"cannot bind requests on a %s trip", t.Status)
	}
	stop := t.findStop(stopID)
	if stop == nil {
		return shared.NewNotFoundError("trip stop")
	}
	if stop.Type != StopTypeDropoff {
		return shared.NewValidationError("only dropoff stops fulfil stock requests")
	}
	stop.StockRequestID = &requestID
	t.IncrementVersion()
	return nil
}

func (t *Trip) Start() error {
	if t.Status != TripStatusPlanned {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot start a %s trip", t.Status)
	}
	if len(t.Stops) == 0 {
		return shared.NewValidationError("trip has no stops")
	}
	now := time.Now()
	t.Status = TripStatusInProgress
	t.StartedAt = &now
	t.IncrementVersion()
	t.AddDomainEvent(NewTripStartedEvent(t))
	return nil
}

// ArriveAtStop marks the driver as on site. Only the next uncompleted
// stop in sequence may be arrived at.
func (t *Trip) ArriveAtStop(stopID uuid.UUID) error {
	if t.Status != TripStatusInProgress {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"trip is %s, not in progress", t.Status)
	}
	stop := t.findStop(stopID)
	if stop == nil {
		return shared.NewNotFoundError("trip stop")
	}
	if err := t.checkSequence(stop); err != nil {
		return err
	}
	return stop.arrive()
}

// CompleteStop records the actual quantity moved at a stop. Returns
// true when this was the last stop and the trip is now complete.
func (t *Trip) CompleteStop(stopID uuid.UUID, actualQty decimal.Decimal) (bool, error) {
	if t.Status != TripStatusInProgress {
		return false, shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"trip is %s, not in progress", t.Status)
	}
	stop := t.findStop(stopID)
	if stop == nil {
		return false, shared.NewNotFoundError("trip stop")
	}
	if err := t.checkSequence(stop); err != nil {
		return false, err
	}
	if err := stop.complete(actualQty); err != nil {
		return false, err
	}
	t.IncrementVersion()
	t.AddDomainEvent(NewStopCompletedEvent(t, stop))

	if t.allStopsResolved() {
		now := time.Now()
		t.Status = TripStatusCompleted
		t.CompletedAt = &now
		t.AddDomainEvent(NewTripCompletedEvent(t))
		return true, nil
	}
	return false, nil
}

// SkipStop marks a stop that could not be serviced. The sequence rule
// still applies so later stops unblock.
func (t *Trip) SkipStop(stopID uuid.UUID, reason string) error {
	if t.Status != TripStatusInProgress {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"trip is %s, not in progress", t.Status)
	}
	stop := t.findStop(stopID)
	if stop == nil {
		return shared.NewNotFoundError("trip stop")
	}
	if err := t.checkSequence(stop); err != nil {
		return err
	}
	if err := stop.skip(reason); err != nil {
		return err
	}
	t.IncrementVersion()

	if t.allStopsResolved() {
		now := time.Now()
		t.Status = TripStatusCompleted
		t.CompletedAt = &now
		t.AddDomainEvent(NewTripCompletedEvent(t))
	}
	return nil
}

// Cancel abandons the rest of the trip. Stops already completed keep
// their recorded movements; nothing is rolled back.
func (t *Trip) Cancel(reason string) error {
	switch t.Status {
	case TripStatusPlanned, TripStatusInProgress:
	case TripStatusCompleted:
		return shared.NewDomainError(shared.ErrCodeAlreadyCompleted, "trip is already completed")
	default:
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot cancel a %s trip", t.Status)
	}
	now := time.Now()
	t.Status = TripStatusCancelled
	t.CancelledAt = &now
	for i := range t.Stops {
		if t.Stops[i].Status == StopStatusPending || t.Stops[i].Status == StopStatusArrived {
			t.Stops[i].Status = StopStatusSkipped
			t.Stops[i].Note = reason
		}
	}
	t.IncrementVersion()
	t.AddDomainEvent(NewTripCancelledEvent(t, reason))
	return nil
}

func (t *Trip) findStop(stopID uuid.UUID) *TripStop {
	for i := range t.Stops {
		if t.Stops[i].ID == stopID {
			return &t.Stops[i]
		}
	}
	return nil
}

// checkSequence enforces strict ordering: every stop with a lower
// sequence must already be completed or skipped.
func (t *Trip) checkSequence(stop *TripStop) error {
	for i := range t.Stops {
		prior := &t.Stops[i]
		if prior.Sequence < stop.Sequence && !prior.isResolved() {
			return shared.NewDomainErrorf(shared.ErrCodeInvalidStopSequence,
				"stop %d cannot be serviced before stop %d", stop.Sequence, prior.Sequence)
		}
	}
	return nil
}

func (t *Trip) allStopsResolved() bool {
	for i := range t.Stops {
		if !t.Stops[i].isResolved() {
			return false
		}
	}
	return true
}
