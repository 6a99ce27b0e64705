package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// DistributionListStatus represents the lifecycle status of a distribution list
type DistributionListStatus string

const (
	DistributionListStatusDraft    DistributionListStatus = "draft"
	DistributionListStatusSent     DistributionListStatus = "sent"
	DistributionListStatusAccepted DistributionListStatus = "accepted"
	DistributionListStatusRejected DistributionListStatus = "rejected"
	DistributionListStatusRevised  DistributionListStatus = "revised"
)

// String returns the string representation of the status
func (s DistributionListStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s DistributionListStatus) Valid() bool {
	switch s {
	case DistributionListStatusDraft, DistributionListStatusSent,
		DistributionListStatusAccepted, DistributionListStatusRejected,
		DistributionListStatusRevised:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DistributionListStatus
func (s *DistributionListStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = DistributionListStatus(v)
	case []byte:
		*s = DistributionListStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DistributionListStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DistributionListStatus
func (s DistributionListStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid DistributionListStatus: %s", s)
	}
	return string(s), nil
}

// DistributionList represents a client-facing quote enumerating target
// municipalities for a prospective campaign.
type DistributionList struct {
	ID                 uint                   `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:uk_distribution_lists_uuid" json:"uuid"`
	ClientID           uint                   `gorm:"not null;index:idx_distribution_lists_client_id" json:"client_id"`
	EventName          string                 `gorm:"type:varchar(255);not null" json:"event_name"`
	EventAddress       string                 `gorm:"type:text" json:"event_address"`
	EventDate          *time.Time             `json:"event_date,omitempty"`
	StartDate          *time.Time             `json:"start_date,omitempty"`
	EndDate            *time.Time             `json:"end_date,omitempty"`
	Notes              string                 `gorm:"type:text" json:"notes"`
	Status             DistributionListStatus `gorm:"type:distribution_list_status;not null;default:'draft';index:idx_distribution_lists_status" json:"status"`
	PosterImageAssetID *uint                  `gorm:"index" json:"poster_image_asset_id,omitempty"`
	ArchivedAt         *time.Time             `json:"archived_at,omitempty"`
	SentAt             *time.Time             `json:"sent_at,omitempty"`
	AcceptedAt         *time.Time             `json:"accepted_at,omitempty"`
	CreatedAt          time.Time              `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_distribution_lists_created_at" json:"created_at"`
	UpdatedAt          *time.Time             `json:"updated_at,omitempty"`

	// Relations
	Client           *Client                `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`
	Items            []DistributionListItem `gorm:"foreignKey:DistributionListID" json:"items,omitempty"`
	PosterImageAsset *FileAsset             `gorm:"foreignKey:PosterImageAssetID;references:ID;constraint:OnDelete:SET NULL" json:"poster_image_asset,omitempty"`
	Campaign         *Campaign              `gorm:"foreignKey:SourceListID" json:"campaign,omitempty"`
}

// TableName returns the table name for the model
func (DistributionList) TableName() string {
	return "distribution_lists"
}

// BeforeCreate is called before creating a new record
func (l *DistributionList) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = DistributionListStatusDraft
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (l *DistributionList) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	l.UpdatedAt = &now
	return nil
}

// IsArchived reports whether the list has been archived
func (l *DistributionList) IsArchived() bool {
	return l.ArchivedAt != nil
}

// IsPast reports whether the campaign period has ended relative to now.
// This is a derived view classification, not a stored state.
func (l *DistributionList) IsPast(now time.Time) bool {
	return l.EndDate != nil && l.EndDate.Before(now)
}

// CanTransitionTo checks if the list can transition to the given status.
// The revised status is reachable but has no defined transition target of
// its own; sending it again re-enters sent.
func (l *DistributionList) CanTransitionTo(newStatus DistributionListStatus) bool {
	if l.Status == newStatus {
		return true // idempotent re-apply
	}
	switch l.Status {
	case DistributionListStatusDraft, DistributionListStatusRevised:
		return newStatus == DistributionListStatusSent
	case DistributionListStatusSent:
		return newStatus == DistributionListStatusAccepted ||
			newStatus == DistributionListStatusRejected ||
			newStatus == DistributionListStatusRevised
	case DistributionListStatusRejected:
		return newStatus == DistributionListStatusDraft ||
			newStatus == DistributionListStatusSent
	default:
		return false
	}
}

// DistributionListFilter represents filter criteria for distribution lists
type DistributionListFilter struct {
	ID            *uint                   `json:"id,omitempty"`
	UUID          *uuid.UUID              `json:"uuid,omitempty"`
	ClientID      *uint                   `json:"client_id,omitempty"`
	Status        *DistributionListStatus `json:"status,omitempty"`
	EventName     *string                 `json:"event_name,omitempty"`
	Archived      *bool                   `json:"archived,omitempty"`
	EndsBefore    *time.Time              `json:"ends_before,omitempty"`
	EndsAfter     *time.Time              `json:"ends_after,omitempty"`
	CreatedAfter  *time.Time              `json:"created_after,omitempty"`
	CreatedBefore *time.Time              `json:"created_before,omitempty"`
}
