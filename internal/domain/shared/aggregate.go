package shared

// BaseAggregateRoot extends BaseEntity with optimistic locking and
// domain event collection. Aggregates embed this and raise events via
// AddDomainEvent; the application layer drains them after persistence.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"default:1" json:"version"`

	domainEvents []DomainEvent `gorm:"-" json:"-"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
