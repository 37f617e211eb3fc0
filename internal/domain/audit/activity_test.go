package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityEntry(t *testing.T) {
	actorID := uuid.New()
	entityID := uuid.New()

	t.Run("valid entry", func(t *testing.T) {
		entry, err := NewActivityEntry(actorID, ActionReconciled, EntityInvoice, &entityID, "payment added")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, actorID, entry.ActorID)
		assert.Equal(t, ActionReconciled, entry.Action)
		assert.Equal(t, EntityInvoice, entry.EntityType)
		require.NotNil(t, entry.EntityID)
		assert.Equal(t, entityID, *entry.EntityID)
		assert.False(t, entry.Timestamp.IsZero())
	})

	t.Run("nil entity id allowed for deletions", func(t *testing.T) {
		entry, err := NewActivityEntry(actorID, ActionDeleted, EntityPayment, nil, "payment removed")
		require.NoError(t, err)
		assert.Nil(t, entry.EntityID)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name       string
			actorID    uuid.UUID
			action     Action
			entityType EntityType
			wantCode   string
		}{
			{"nil actor", uuid.Nil, ActionCreated, EntityQuote, "INVALID_ACTOR"},
			{"empty action", actorID, Action(""), EntityQuote, "INVALID_ACTION"},
			{"empty entity type", actorID, ActionCreated, EntityType(""), "INVALID_ENTITY_TYPE"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewActivityEntry(tt.actorID, tt.action, tt.entityType, nil, "")
				require.Error(t, err)

				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			})
		}
	})
}
