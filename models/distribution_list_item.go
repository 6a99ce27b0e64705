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

// PosterSize represents the physical poster format of a line item
type PosterSize string

const (
	PosterSizeA1      PosterSize = "A1"
	PosterSizeA0      PosterSize = "A0"
	PosterSize120x180 PosterSize = "120x180"
)

// String returns the string representation of the poster size
func (s PosterSize) String() string {
	return string(s)
}

// Valid checks if the poster size is valid
func (s PosterSize) Valid() bool {
	switch s {
	case PosterSizeA1, PosterSizeA0, PosterSize120x180:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PosterSize
func (s *PosterSize) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PosterSize(v)
	case []byte:
		*s = PosterSize(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PosterSize", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PosterSize
func (s PosterSize) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PosterSize: %s", s)
	}
	return string(s), nil
}

// PermitStatus represents the per-item permit request status tracked on a
// distribution list item before campaign conversion.
type PermitStatus string

const (
	PermitStatusDraft                  PermitStatus = "draft"
	PermitStatusSent                   PermitStatus = "sent"
	PermitStatusRequested              PermitStatus = "requested"
	PermitStatusInfoNeeded             PermitStatus = "info_needed"
	PermitStatusApproved               PermitStatus = "approved"
	PermitStatusApprovedWithConditions PermitStatus = "approved_with_conditions"
	PermitStatusRejected               PermitStatus = "rejected"
)

// String returns the string representation of the permit status
func (s PermitStatus) String() string {
	return string(s)
}

// Valid checks if the permit status is valid
func (s PermitStatus) Valid() bool {
	switch s {
	case PermitStatusDraft, PermitStatusSent, PermitStatusRequested,
		PermitStatusInfoNeeded, PermitStatusApproved,
		PermitStatusApprovedWithConditions, PermitStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PermitStatus
func (s *PermitStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PermitStatus(v)
	case []byte:
		*s = PermitStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PermitStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PermitStatus
func (s PermitStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PermitStatus: %s", s)
	}
	return string(s), nil
}

// DistributionListItem represents one municipality line within a distribution
// list. Fee is a point-in-time copy of the city's configured fee when left
// unset at creation; afterwards the two values are independent.
type DistributionListItem struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uk_distribution_list_items_uuid" json:"uuid"`
	DistributionListID uint                `gorm:"not null;index:idx_distribution_list_items_list_id" json:"distribution_list_id"`
	CityID             uint                `gorm:"not null;index:idx_distribution_list_items_city_id" json:"city_id"`
	Quantity           int                 `gorm:"not null" json:"quantity"`
	PosterSize         PosterSize          `gorm:"type:poster_size;not null;default:'A1'" json:"poster_size"`
	Fee                decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"fee"`
	DistanceKm         *float64            `json:"distance_km,omitempty"`
	AttachPosterImage  bool                `gorm:"not null;default:false" json:"attach_poster_image"`
	AttachPermitForm   bool                `gorm:"not null;default:false" json:"attach_permit_form"`
	PermitStatus       PermitStatus        `gorm:"type:permit_status;not null;default:'draft'" json:"permit_status"`
	RequestSentAt      *time.Time          `json:"request_sent_at,omitempty"`
	ResponseReceivedAt *time.Time          `json:"response_received_at,omitempty"`
	ResponseType       *string             `gorm:"type:varchar(50)" json:"response_type,omitempty"`
	CreatedAt          time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          *time.Time          `json:"updated_at,omitempty"`

	// Relations
	DistributionList *DistributionList `gorm:"foreignKey:DistributionListID;references:ID" json:"distribution_list,omitempty"`
	City             *City             `gorm:"foreignKey:CityID;references:ID" json:"city,omitempty"`
	PermitEmails     []PermitEmail     `gorm:"foreignKey:ItemID" json:"permit_emails,omitempty"`
}

// TableName returns the table name for the model
func (DistributionListItem) TableName() string {
	return "distribution_list_items"
}

// BeforeCreate is called before creating a new record
func (i *DistributionListItem) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == uuid.Nil {
		i.UUID = uuid.New()
	}
	if i.PosterSize == "" {
		i.PosterSize = PosterSizeA1
	}
	if i.PermitStatus == "" {
		i.PermitStatus = PermitStatusDraft
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (i *DistributionListItem) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	i.UpdatedAt = &now
	return nil
}

// EffectiveFee returns the item's fee, or zero when unset
func (i *DistributionListItem) EffectiveFee() decimal.Decimal {
	if i.Fee.Valid {
		return i.Fee.Decimal
	}
	return decimal.Zero
}

// DistributionListItemFilter represents filter criteria for list items
type DistributionListItemFilter struct {
	ID                 *uint         `json:"id,omitempty"`
	UUID               *uuid.UUID    `json:"uuid,omitempty"`
	DistributionListID *uint         `json:"distribution_list_id,omitempty"`
	CityID             *uint         `json:"city_id,omitempty"`
	PermitStatus       *PermitStatus `json:"permit_status,omitempty"`
	PosterSize         *PosterSize   `json:"poster_size,omitempty"`
}
