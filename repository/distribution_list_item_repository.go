package repository

import (
	"context"
	"time"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// DistributionListItemRepositoryImpl implements the DistributionListItemRepository interface
type DistributionListItemRepositoryImpl struct {
	*BaseRepository[models.DistributionListItem, models.DistributionListItemFilter]
}

// NewDistributionListItemRepository creates a new distribution list item repository
func NewDistributionListItemRepository(db *gorm.DB) DistributionListItemRepository {
	return &DistributionListItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DistributionListItem, models.DistributionListItemFilter](db),
	}
}

// ListByListID returns the list's items joined with their cities, ordered by
// city postal code ascending. Batch dispatch relies on this ordering.
func (r *DistributionListItemRepositoryImpl) ListByListID(ctx context.Context, listID uint) ([]*models.DistributionListItem, error) {
	db := r.getDB(ctx)

	var items []*models.DistributionListItem
	err := db.
		Joins("JOIN cities ON cities.id = distribution_list_items.city_id").
		Where("distribution_list_items.distribution_list_id = ?", listID).
		Order("cities.postal_code ASC").
		Preload("City").
		Preload("City.PermitFormAsset").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Update updates a distribution list item
func (r *DistributionListItemRepositoryImpl) Update(ctx context.Context, item *models.DistributionListItem) error {
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

	err = db.Save(item).Error
	if err != nil {
		return err
	}

	return nil
}

// MarkRequestSent records that a permit application left for this item
func (r *DistributionListItemRepositoryImpl) MarkRequestSent(ctx context.Context, itemID uint, sentAt time.Time) error {
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

	err = db.Model(&models.DistributionListItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"permit_status":   models.PermitStatusRequested,
			"request_sent_at": sentAt,
			"updated_at":      utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a distribution list item
func (r *DistributionListItemRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.DistributionListItem{}, id).Error
}

// ByFilter retrieves items based on filter criteria
func (r *DistributionListItemRepositoryImpl) ByFilter(ctx context.Context, filter models.DistributionListItemFilter, orderBy string, limit, offset int) ([]*models.DistributionListItem, error) {
	db := r.getDB(ctx)

	var items []*models.DistributionListItem
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

	err := query.Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Count returns the number of items matching the filter
func (r *DistributionListItemRepositoryImpl) Count(ctx context.Context, filter models.DistributionListItemFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.DistributionListItem{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any item matching the filter exists
func (r *DistributionListItemRepositoryImpl) Exists(ctx context.Context, filter models.DistributionListItemFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DistributionListItemRepositoryImpl) applyFilter(db *gorm.DB, filter models.DistributionListItemFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.DistributionListID != nil {
		db = db.Where("distribution_list_id = ?", *filter.DistributionListID)
	}
	if filter.CityID != nil {
		db = db.Where("city_id = ?", *filter.CityID)
	}
	if filter.PermitStatus != nil {
		db = db.Where("permit_status = ?", *filter.PermitStatus)
	}
	if filter.PosterSize != nil {
		db = db.Where("poster_size = ?", *filter.PosterSize)
	}

	return db
}
