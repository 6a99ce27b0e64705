package repository

import (
	"context"
	"time"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// PermitRepositoryImpl implements the PermitRepository interface
type PermitRepositoryImpl struct {
	*BaseRepository[models.Permit, models.PermitFilter]
}

// NewPermitRepository creates a new permit repository
func NewPermitRepository(db *gorm.DB) PermitRepository {
	return &PermitRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Permit, models.PermitFilter](db),
	}
}

// ListByCampaignID returns a campaign's permits with their cities,
// ordered by city postal code ascending
func (r *PermitRepositoryImpl) ListByCampaignID(ctx context.Context, campaignID uint) ([]*models.Permit, error) {
	db := r.getDB(ctx)

	var permits []*models.Permit
	err := db.
		Joins("JOIN cities ON cities.id = permits.city_id").
		Where("permits.campaign_id = ?", campaignID).
		Order("cities.postal_code ASC").
		Preload("City").
		Find(&permits).Error
	if err != nil {
		return nil, err
	}

	return permits, nil
}

// UpdateStatus records a municipality's decision on a permit
func (r *PermitRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.PermitStatus, decidedAt *time.Time) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": utils.UTCNow(),
	}
	if decidedAt != nil {
		updates["decided_at"] = *decidedAt
	}

	err = db.Model(&models.Permit{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves permits based on filter criteria
func (r *PermitRepositoryImpl) ByFilter(ctx context.Context, filter models.PermitFilter, orderBy string, limit, offset int) ([]*models.Permit, error) {
	db := r.getDB(ctx)

	var permits []*models.Permit
	query := r.applyFilter(db, filter).Preload("City")

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&permits).Error
	if err != nil {
		return nil, err
	}

	return permits, nil
}

// Count returns the number of permits matching the filter
func (r *PermitRepositoryImpl) Count(ctx context.Context, filter models.PermitFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Permit{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any permit matching the filter exists
func (r *PermitRepositoryImpl) Exists(ctx context.Context, filter models.PermitFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PermitRepositoryImpl) applyFilter(db *gorm.DB, filter models.PermitFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.CityID != nil {
		db = db.Where("city_id = ?", *filter.CityID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	return db
}
