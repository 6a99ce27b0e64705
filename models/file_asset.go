package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// Asset kinds
const (
	AssetKindPosterImage = "poster_image"
	AssetKindPermitForm  = "permit_form"
)

// FileAsset represents a stored binary (poster image or permit form PDF)
// addressed by an opaque storage key.
type FileAsset struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_file_assets_uuid" json:"uuid"`
	StorageKey       string    `gorm:"type:varchar(255);not null;uniqueIndex:uk_file_assets_storage_key" json:"storage_key"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	ContentType      string    `gorm:"type:varchar(100);not null" json:"content_type"`
	SizeBytes        int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	Kind             string    `gorm:"type:varchar(20);not null;index" json:"kind"`
	CreatedAt        time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for the model
func (FileAsset) TableName() string {
	return "file_assets"
}

// BeforeCreate is called before creating a new record
func (a *FileAsset) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// FileAssetFilter represents filter criteria for file assets
type FileAssetFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	StorageKey *string    `json:"storage_key,omitempty"`
	Kind       *string    `json:"kind,omitempty"`
}
