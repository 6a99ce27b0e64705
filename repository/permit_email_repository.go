package repository

import (
	"context"

	"github.com/plakatpro/plakatpro/models"
	"gorm.io/gorm"
)

// PermitEmailRepositoryImpl implements the PermitEmailRepository interface.
// Records are append-only; the repository exposes no update or delete.
type PermitEmailRepositoryImpl struct {
	*BaseRepository[models.PermitEmail, models.PermitEmailFilter]
}

// NewPermitEmailRepository creates a new permit email repository
func NewPermitEmailRepository(db *gorm.DB) PermitEmailRepository {
	return &PermitEmailRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PermitEmail, models.PermitEmailFilter](db),
	}
}

// ListByItemID returns all email audit records for an item, oldest first
func (r *PermitEmailRepositoryImpl) ListByItemID(ctx context.Context, itemID uint) ([]*models.PermitEmail, error) {
	filter := models.PermitEmailFilter{ItemID: &itemID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByFilter retrieves permit emails based on filter criteria
func (r *PermitEmailRepositoryImpl) ByFilter(ctx context.Context, filter models.PermitEmailFilter, orderBy string, limit, offset int) ([]*models.PermitEmail, error) {
	db := r.getDB(ctx)

	var emails []*models.PermitEmail
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&emails).Error
	if err != nil {
		return nil, err
	}

	return emails, nil
}

// Count returns the number of permit emails matching the filter
func (r *PermitEmailRepositoryImpl) Count(ctx context.Context, filter models.PermitEmailFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PermitEmail{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any permit email matching the filter exists
func (r *PermitEmailRepositoryImpl) Exists(ctx context.Context, filter models.PermitEmailFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PermitEmailRepositoryImpl) applyFilter(db *gorm.DB, filter models.PermitEmailFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ItemID != nil {
		db = db.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Direction != nil {
		db = db.Where("direction = ?", *filter.Direction)
	}
	if filter.DeliveryStatus != nil {
		db = db.Where("delivery_status = ?", *filter.DeliveryStatus)
	}

	return db
}
