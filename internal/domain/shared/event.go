package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is raised by aggregates to signal state changes worth
// reacting to outside the aggregate boundary.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent supplies the boilerplate for concrete events.
type BaseDomainEvent struct {
	ID          uuid.UUID `json:"event_id"`
	Type        string    `json:"event_type"`
	AggregateId uuid.UUID `json:"aggregate_id"`
	Timestamp   time.Time `json:"occurred_at"`
}

func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateId: aggregateID,
		Timestamp:   time.Now(),
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

func (e BaseDomainEvent) EventType() string {
	return e.Type
}

func (e BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggregateId
}

func (e BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}
