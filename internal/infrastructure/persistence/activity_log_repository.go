package persistence

import (
	"context"
	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements audit.Repository using GORM.
// The log is append-only.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Record appends an activity entry to the log
func (r *GormActivityLogRepository) Record(ctx context.Context, entry *audit.ActivityEntry) error {
	model := models.ActivityLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll finds activity entries matching the filter
func (r *GormActivityLogRepository) FindAll(ctx context.Context, filter audit.Filter) ([]audit.ActivityEntry, error) {
	var logModels []models.ActivityLogModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityLogModel{}), filter)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.ActivityEntry, len(logModels))
	for i, model := range logModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts activity entries matching the filter
func (r *GormActivityLogRepository) Count(ctx context.Context, filter audit.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ActivityLogModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormActivityLogRepository) applyFilter(query *gorm.DB, filter audit.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("timestamp DESC")
}

func (r *GormActivityLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter audit.Filter) *gorm.DB {
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.FromDate != nil {
		query = query.Where("timestamp >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("timestamp <= ?", *filter.ToDate)
	}

	return query
}
