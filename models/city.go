package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeModel represents how a municipality charges for poster placement
type FeeModel string

const (
	FeeModelPauschal    FeeModel = "pauschal"
	FeeModelProPlakat   FeeModel = "pro_plakat"
	FeeModelProZeitraum FeeModel = "pro_zeitraum"
)

// String returns the string representation of the fee model
func (m FeeModel) String() string {
	return string(m)
}

// Valid checks if the fee model is valid
func (m FeeModel) Valid() bool {
	switch m {
	case FeeModelPauschal, FeeModelProPlakat, FeeModelProZeitraum:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for FeeModel
func (m *FeeModel) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*m = FeeModel(v)
	case []byte:
		*m = FeeModel(string(v))
	default:
		return fmt.Errorf("cannot scan %T into FeeModel", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for FeeModel
func (m FeeModel) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid FeeModel: %s", m)
	}
	return string(m), nil
}

// City represents a municipality that poster permit requests are sent to
type City struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_cities_uuid" json:"uuid"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	PostalCode         string          `gorm:"type:varchar(10);not null;uniqueIndex:uk_cities_postal_code" json:"postal_code"`
	ContactEmail       string          `gorm:"type:varchar(255)" json:"contact_email"`
	FeeModel           FeeModel        `gorm:"type:city_fee_model;not null;default:'pauschal'" json:"fee_model"`
	Fee                decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"fee"`
	MaxQuantity        *int            `json:"max_quantity,omitempty"`
	MaxPosterSize      *PosterSize     `gorm:"type:poster_size" json:"max_poster_size,omitempty"`
	RequiresPermitForm bool            `gorm:"not null;default:false" json:"requires_permit_form"`
	RequiresPosterIMG  bool            `gorm:"column:requires_poster_image;not null;default:false" json:"requires_poster_image"`
	PermitFormAssetID  *uint           `gorm:"index" json:"permit_form_asset_id,omitempty"`
	CreatedAt          time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`

	// Relations
	PermitFormAsset *FileAsset `gorm:"foreignKey:PermitFormAssetID;references:ID;constraint:OnDelete:SET NULL" json:"permit_form_asset,omitempty"`
}

// TableName returns the table name for the model
func (City) TableName() string {
	return "cities"
}

// BeforeCreate is called before creating a new record
func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.FeeModel == "" {
		c.FeeModel = FeeModelPauschal
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *City) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// CityFilter represents filter criteria for cities
type CityFilter struct {
	ID           *uint      `json:"id,omitempty"`
	UUID         *uuid.UUID `json:"uuid,omitempty"`
	Name         *string    `json:"name,omitempty"`
	PostalCode   *string    `json:"postal_code,omitempty"`
	FeeModel     *FeeModel  `json:"fee_model,omitempty"`
	HasEmail     *bool      `json:"has_email,omitempty"`
	CreatedAfter *time.Time `json:"created_after,omitempty"`
}
