package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/quoteflow/backend/internal/application/audit"
	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockActivityRepository implements audit.Repository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, entry *audit.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter audit.Filter) ([]audit.ActivityEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.ActivityEntry), args.Error(1)
}

func (m *MockActivityRepository) Count(ctx context.Context, filter audit.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newActivityEngine(repo *MockActivityRepository) *gin.Engine {
	h := NewActivityHandler(auditapp.NewActivityService(repo))
	engine := gin.New()
	engine.GET("/activity", h.List)
	return engine
}

func TestActivityHandlerList(t *testing.T) {
	t.Run("returns entries newest first", func(t *testing.T) {
		repo := new(MockActivityRepository)
		entityID := uuid.New()
		entry, err := audit.NewActivityEntry(uuid.New(), audit.ActionCreated, audit.EntityInvoice, &entityID, "invoice created")
		require.NoError(t, err)

		repo.On("FindAll", mock.Anything, mock.AnythingOfType("audit.Filter")).
			Return([]audit.ActivityEntry{*entry}, nil)
		repo.On("Count", mock.Anything, mock.AnythingOfType("audit.Filter")).
			Return(int64(1), nil)

		engine := newActivityEngine(repo)
		req := httptest.NewRequest("GET", "/activity?page=1&page_size=20", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "invoice created")
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("filters by entity", func(t *testing.T) {
		repo := new(MockActivityRepository)
		entityID := uuid.New()

		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f audit.Filter) bool {
			return f.EntityType != nil && *f.EntityType == audit.EntityInvoice &&
				f.EntityID != nil && *f.EntityID == entityID
		})).Return([]audit.ActivityEntry{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		engine := newActivityEngine(repo)
		req := httptest.NewRequest("GET", "/activity?entity_type=INVOICE&entity_id="+entityID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		repo := new(MockActivityRepository)
		engine := newActivityEngine(repo)

		req := httptest.NewRequest("GET", "/activity?entity_type=WIDGET", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		repo := new(MockActivityRepository)
		engine := newActivityEngine(repo)

		req := httptest.NewRequest("GET", "/activity?from=yesterday", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
