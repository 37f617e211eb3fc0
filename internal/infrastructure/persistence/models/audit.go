package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/audit"
)

// ActivityLogModel is the persistence model for audit trail entries.
// Entries are append-only; there is no update path.
type ActivityLogModel struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key"`
	ActorID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Action     audit.Action     `gorm:"type:varchar(30);not null;index"`
	EntityType audit.EntityType `gorm:"type:varchar(30);not null;index:idx_activity_entity"`
	EntityID   *uuid.UUID       `gorm:"type:uuid;index:idx_activity_entity"`
	Detail     string           `gorm:"type:text"`
	Timestamp  time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityEntry.
func (m *ActivityLogModel) ToDomain() *audit.ActivityEntry {
	return &audit.ActivityEntry{
		ID:         m.ID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Detail:     m.Detail,
		Timestamp:  m.Timestamp,
	}
}

// ActivityLogModelFromDomain creates a new persistence model from a domain ActivityEntry.
func ActivityLogModelFromDomain(e *audit.ActivityEntry) *ActivityLogModel {
	return &ActivityLogModel{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
		Timestamp:  e.Timestamp,
	}
}
