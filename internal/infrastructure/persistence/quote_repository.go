package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a quote by its quote number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, quoteNumber string) (*billing.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quote_number = ?", quoteNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all quotes matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter billing.QuoteFilter) ([]billing.Quote, error) {
	var quoteModels []models.QuoteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)

	if err := query.Preload("Items").Find(&quoteModels).Error; err != nil {
		return nil, err
	}

	quotes := make([]billing.Quote, len(quoteModels))
	for i, model := range quoteModels {
		quotes[i] = *model.ToDomain()
	}
	return quotes, nil
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter billing.QuoteFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quote and synchronizes its line items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.QuoteModelFromDomain(quote)

		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(quote.Items))
		for i, item := range quote.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("quote_id = ? AND id NOT IN ?", quote.ID, currentItemIDs).
				Delete(&models.QuoteItemModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("quote_id = ?", quote.ID).
				Delete(&models.QuoteItemModel{}).Error; err != nil {
				return err
			}
		}

		for i := range quote.Items {
			quote.Items[i].QuoteID = quote.ID
			itemModel := models.QuoteItemModelFromDomain(&quote.Items[i])
			if err := tx.Save(itemModel).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GenerateQuoteNumber generates a unique quote number
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context) (string, error) {
	// Format: QT-YYYY-XXXX
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("QT-%s-", year)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Select("quote_number").
		Where("quote_number LIKE ?", prefix+"%").
		Order("quote_number DESC").
		Limit(1).
		Pluck("quote_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter billing.QuoteFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.QuoteFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quote_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	return query
}
