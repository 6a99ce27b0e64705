package repository

import (
	"context"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// CityRepositoryImpl implements the CityRepository interface
type CityRepositoryImpl struct {
	*BaseRepository[models.City, models.CityFilter]
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *gorm.DB) CityRepository {
	return &CityRepositoryImpl{
		BaseRepository: NewBaseRepository[models.City, models.CityFilter](db),
	}
}

// ByUUID retrieves a city by UUID
func (r *CityRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.City, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.CityFilter{UUID: &parsedUUID}
	cities, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(cities) == 0 {
		return nil, nil
	}

	return cities[0], nil
}

// ByPostalCode retrieves a city by its unique postal code
func (r *CityRepositoryImpl) ByPostalCode(ctx context.Context, postalCode string) (*models.City, error) {
	filter := models.CityFilter{PostalCode: &postalCode}
	cities, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(cities) == 0 {
		return nil, nil
	}

	return cities[0], nil
}

// Update updates a city
func (r *CityRepositoryImpl) Update(ctx context.Context, city *models.City) error {
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

	err = db.Save(city).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a city
func (r *CityRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.City{}, id).Error
}

// ByFilter retrieves cities based on filter criteria
func (r *CityRepositoryImpl) ByFilter(ctx context.Context, filter models.CityFilter, orderBy string, limit, offset int) ([]*models.City, error) {
	db := r.getDB(ctx)

	var cities []*models.City
	query := r.applyFilter(db, filter).Preload("PermitFormAsset")

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&cities).Error
	if err != nil {
		return nil, err
	}

	return cities, nil
}

// Count returns the number of cities matching the filter
func (r *CityRepositoryImpl) Count(ctx context.Context, filter models.CityFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.City{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any city matching the filter exists
func (r *CityRepositoryImpl) Exists(ctx context.Context, filter models.CityFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CityRepositoryImpl) applyFilter(db *gorm.DB, filter models.CityFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.PostalCode != nil {
		db = db.Where("postal_code = ?", *filter.PostalCode)
	}
	if filter.FeeModel != nil {
		db = db.Where("fee_model = ?", *filter.FeeModel)
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			db = db.Where("contact_email <> ''")
		} else {
			db = db.Where("contact_email = ''")
		}
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}

	return db
}
