package repository

import (
	"context"
	"time"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// DistributionListRepositoryImpl implements the DistributionListRepository interface
type DistributionListRepositoryImpl struct {
	*BaseRepository[models.DistributionList, models.DistributionListFilter]
}

// NewDistributionListRepository creates a new distribution list repository
func NewDistributionListRepository(db *gorm.DB) DistributionListRepository {
	return &DistributionListRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DistributionList, models.DistributionListFilter](db),
	}
}

// ByUUID retrieves a distribution list by UUID with its client, items
// (postal-code order), item cities, asset references and derived campaign.
func (r *DistributionListRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.DistributionList, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)

	var list models.DistributionList
	err = db.
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN cities ON cities.id = distribution_list_items.city_id").
				Order("cities.postal_code ASC")
		}).
		Preload("Items.City").
		Preload("Items.City.PermitFormAsset").
		Preload("PosterImageAsset").
		Preload("Campaign").
		Where("uuid = ?", parsedUUID).
		First(&list).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &list, nil
}

// Update updates a distribution list
func (r *DistributionListRepositoryImpl) Update(ctx context.Context, list *models.DistributionList) error {
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

	err = db.Save(list).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates the lifecycle status of a distribution list. The
// sent and accepted timestamps are only written when non-nil so repeated
// transitions keep the original stamp.
func (r *DistributionListRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.DistributionListStatus, sentAt, acceptedAt *time.Time) error {
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
	if sentAt != nil {
		updates["sent_at"] = *sentAt
	}
	if acceptedAt != nil {
		updates["accepted_at"] = *acceptedAt
	}

	err = db.Model(&models.DistributionList{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return err
	}

	return nil
}

// Archive marks a distribution list as archived
func (r *DistributionListRepositoryImpl) Archive(ctx context.Context, id uint) error {
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

	now := utils.UTCNow()
	err = db.Model(&models.DistributionList{}).
		Where("id = ? AND archived_at IS NULL", id).
		Updates(map[string]interface{}{
			"archived_at": now,
			"updated_at":  now,
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves distribution lists based on filter criteria
func (r *DistributionListRepositoryImpl) ByFilter(ctx context.Context, filter models.DistributionListFilter, orderBy string, limit, offset int) ([]*models.DistributionList, error) {
	db := r.getDB(ctx)

	var lists []*models.DistributionList
	query := r.applyFilter(db, filter).Preload("Client")

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&lists).Error
	if err != nil {
		return nil, err
	}

	return lists, nil
}

// Count returns the number of distribution lists matching the filter
func (r *DistributionListRepositoryImpl) Count(ctx context.Context, filter models.DistributionListFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.DistributionList{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any distribution list matching the filter exists
func (r *DistributionListRepositoryImpl) Exists(ctx context.Context, filter models.DistributionListFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DistributionListRepositoryImpl) applyFilter(db *gorm.DB, filter models.DistributionListFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ClientID != nil {
		db = db.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.EventName != nil {
		db = db.Where("event_name ILIKE ?", "%"+*filter.EventName+"%")
	}
	if filter.Archived != nil {
		if *filter.Archived {
			db = db.Where("archived_at IS NOT NULL")
		} else {
			db = db.Where("archived_at IS NULL")
		}
	}
	if filter.EndsBefore != nil {
		db = db.Where("end_date < ?", *filter.EndsBefore)
	}
	if filter.EndsAfter != nil {
		// A list with no end date has not ended yet.
		db = db.Where("end_date IS NULL OR end_date >= ?", *filter.EndsAfter)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
