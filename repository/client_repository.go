package repository

import (
	"context"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// ClientRepositoryImpl implements the ClientRepository interface
type ClientRepositoryImpl struct {
	*BaseRepository[models.Client, models.ClientFilter]
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &ClientRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Client, models.ClientFilter](db),
	}
}

// ByUUID retrieves a client by UUID
func (r *ClientRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Client, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ClientFilter{UUID: &parsedUUID}
	clients, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(clients) == 0 {
		return nil, nil
	}

	return clients[0], nil
}

// Update updates a client
func (r *ClientRepositoryImpl) Update(ctx context.Context, client *models.Client) error {
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

	err = db.Save(client).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a client
func (r *ClientRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Client{}, id).Error
}

// ByFilter retrieves clients based on filter criteria
func (r *ClientRepositoryImpl) ByFilter(ctx context.Context, filter models.ClientFilter, orderBy string, limit, offset int) ([]*models.Client, error) {
	db := r.getDB(ctx)

	var clients []*models.Client
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

	err := query.Find(&clients).Error
	if err != nil {
		return nil, err
	}

	return clients, nil
}

// Count returns the number of clients matching the filter
func (r *ClientRepositoryImpl) Count(ctx context.Context, filter models.ClientFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Client{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any client matching the filter exists
func (r *ClientRepositoryImpl) Exists(ctx context.Context, filter models.ClientFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ClientRepositoryImpl) applyFilter(db *gorm.DB, filter models.ClientFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
