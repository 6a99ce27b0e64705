package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Permit represents one municipality's formal authorization request tied to a
// campaign. Its status is tracked separately from the source item's
// permitStatus once a campaign exists; the two are independent audit trails.
type Permit struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_permits_uuid" json:"uuid"`
	CampaignID uint            `gorm:"not null;index:idx_permits_campaign_id" json:"campaign_id"`
	CityID     uint            `gorm:"not null;index:idx_permits_city_id" json:"city_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	PosterSize PosterSize      `gorm:"type:poster_size;not null;default:'A1'" json:"poster_size"`
	Fee        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"fee"`
	Status     PermitStatus    `gorm:"type:permit_status;not null;default:'draft';index:idx_permits_status" json:"status"`
	SentAt     *time.Time      `json:"sent_at,omitempty"`
	DecidedAt  *time.Time      `json:"decided_at,omitempty"`
	CreatedAt  time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	City     *City     `gorm:"foreignKey:CityID;references:ID" json:"city,omitempty"`
}

// TableName returns the table name for the model
func (Permit) TableName() string {
	return "permits"
}

// BeforeCreate is called before creating a new record
func (p *Permit) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.PosterSize == "" {
		p.PosterSize = PosterSizeA1
	}
	if p.Status == "" {
		p.Status = PermitStatusDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Permit) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// PermitFilter represents filter criteria for permits
type PermitFilter struct {
	ID         *uint         `json:"id,omitempty"`
	UUID       *uuid.UUID    `json:"uuid,omitempty"`
	CampaignID *uint         `json:"campaign_id,omitempty"`
	CityID     *uint         `json:"city_id,omitempty"`
	Status     *PermitStatus `json:"status,omitempty"`
}
