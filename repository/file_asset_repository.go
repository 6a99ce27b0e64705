package repository

import (
	"context"

	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// FileAssetRepositoryImpl implements the FileAssetRepository interface
type FileAssetRepositoryImpl struct {
	*BaseRepository[models.FileAsset, models.FileAssetFilter]
}

// NewFileAssetRepository creates a new file asset repository
func NewFileAssetRepository(db *gorm.DB) FileAssetRepository {
	return &FileAssetRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FileAsset, models.FileAssetFilter](db),
	}
}

// ByUUID retrieves a file asset by UUID
func (r *FileAssetRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.FileAsset, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.FileAssetFilter{UUID: &parsedUUID}
	assets, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(assets) == 0 {
		return nil, nil
	}

	return assets[0], nil
}

// ByStorageKey retrieves a file asset by its opaque storage key
func (r *FileAssetRepositoryImpl) ByStorageKey(ctx context.Context, key string) (*models.FileAsset, error) {
	filter := models.FileAssetFilter{StorageKey: &key}
	assets, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(assets) == 0 {
		return nil, nil
	}

	return assets[0], nil
}

// Delete removes a file asset record. The stored object is removed by the
// caller; referencing city and list columns are set null by the schema.
func (r *FileAssetRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.FileAsset{}, id).Error
}

// ByFilter retrieves file assets based on filter criteria
func (r *FileAssetRepositoryImpl) ByFilter(ctx context.Context, filter models.FileAssetFilter, orderBy string, limit, offset int) ([]*models.FileAsset, error) {
	db := r.getDB(ctx)

	var assets []*models.FileAsset
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

	err := query.Find(&assets).Error
	if err != nil {
		return nil, err
	}

	return assets, nil
}

// Count returns the number of file assets matching the filter
func (r *FileAssetRepositoryImpl) Count(ctx context.Context, filter models.FileAssetFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.FileAsset{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any file asset matching the filter exists
func (r *FileAssetRepositoryImpl) Exists(ctx context.Context, filter models.FileAssetFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *FileAssetRepositoryImpl) applyFilter(db *gorm.DB, filter models.FileAssetFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.StorageKey != nil {
		db = db.Where("storage_key = ?", *filter.StorageKey)
	}
	if filter.Kind != nil {
		db = db.Where("kind = ?", *filter.Kind)
	}

	return db
}
