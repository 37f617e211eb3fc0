package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
)

// Action identifies what was done to an entity
type Action string

const (
	ActionCreated    Action = "CREATED"
	ActionUpdated    Action = "UPDATED"
	ActionDeleted    Action = "DELETED"
	ActionSent       Action = "SENT"
	ActionAccepted   Action = "ACCEPTED"
	ActionDeclined   Action = "DECLINED"
	ActionInvoiced   Action = "INVOICED"
	ActionReconciled Action = "RECONCILED"
)

// EntityType identifies the kind of entity an entry refers to
type EntityType string

const (
	EntityQuote   EntityType = "QUOTE"
	EntityInvoice EntityType = "INVOICE"
	EntityPayment EntityType = "PAYMENT"
)

// ActivityEntry is one row of the audit trail. Entries are append-only and
// written after the financial state they describe has committed; they are an
// operational record, never an input to any financial computation.
type ActivityEntry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     Action
	EntityType EntityType
	EntityID   *uuid.UUID
	Detail     string
	Timestamp  time.Time
}

// NewActivityEntry creates an audit trail entry. EntityID may be nil when the
// subject no longer exists, such as after a deletion.
func NewActivityEntry(actorID uuid.UUID, action Action, entityType EntityType, entityID *uuid.UUID, detail string) (*ActivityEntry, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action cannot be empty")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}

	return &ActivityEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		Timestamp:  time.Now(),
	}, nil
}

// Filter narrows activity queries
type Filter struct {
	ActorID    *uuid.UUID
	EntityType *EntityType
	EntityID   *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
}

// Recorder appends entries to the audit trail. Implementations must never
// fail the caller's business operation; callers invoke it after commit and
// log failures instead of propagating them.
type Recorder interface {
	Record(ctx context.Context, entry *ActivityEntry) error
}

// Repository reads and writes the audit trail
type Repository interface {
	Recorder
	FindAll(ctx context.Context, filter Filter) ([]ActivityEntry, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
