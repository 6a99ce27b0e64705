package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// CampaignStatus represents the operational workflow stage of a campaign.
// The set is fixed and ordered; it drives the Kanban board columns.
type CampaignStatus string

const (
	CampaignStatusBacklog     CampaignStatus = "backlog"
	CampaignStatusPermits     CampaignStatus = "permits"
	CampaignStatusPrint       CampaignStatus = "print"
	CampaignStatusPlanning    CampaignStatus = "planning"
	CampaignStatusHanging     CampaignStatus = "hanging"
	CampaignStatusControl     CampaignStatus = "control"
	CampaignStatusRemovalPlan CampaignStatus = "removal_plan"
	CampaignStatusRemovalLive CampaignStatus = "removal_live"
	CampaignStatusReport      CampaignStatus = "report"
	CampaignStatusArchive     CampaignStatus = "archive"
)

// CampaignStatusOrder lists all workflow stages in board order
var CampaignStatusOrder = []CampaignStatus{
	CampaignStatusBacklog,
	CampaignStatusPermits,
	CampaignStatusPrint,
	CampaignStatusPlanning,
	CampaignStatusHanging,
	CampaignStatusControl,
	CampaignStatusRemovalPlan,
	CampaignStatusRemovalLive,
	CampaignStatusReport,
	CampaignStatusArchive,
}

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	for _, v := range CampaignStatusOrder {
		if s == v {
			return true
		}
	}
	return false
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// Campaign represents the live execution phase of an accepted distribution
// list. SourceListID is set permanently when created by conversion and never
// changes afterwards.
type Campaign struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	ClientID     uint           `gorm:"not null;index:idx_campaigns_client_id" json:"client_id"`
	SourceListID *uint          `gorm:"uniqueIndex:uk_campaigns_source_list_id" json:"source_list_id,omitempty"`
	EventName    string         `gorm:"type:varchar(255);not null" json:"event_name"`
	EventAddress string         `gorm:"type:text" json:"event_address"`
	EventDate    *time.Time     `json:"event_date,omitempty"`
	StartDate    *time.Time     `json:"start_date,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
	Notes        string         `gorm:"type:text" json:"notes"`
	Status       CampaignStatus `gorm:"type:campaign_status;not null;default:'backlog';index:idx_campaigns_status" json:"status"`
	ArchivedAt   *time.Time     `json:"archived_at,omitempty"`
	CreatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`

	// Relations
	Client     *Client           `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`
	SourceList *DistributionList `gorm:"foreignKey:SourceListID;references:ID" json:"source_list,omitempty"`
	Permits    []Permit          `gorm:"foreignKey:CampaignID" json:"permits,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusBacklog
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsArchived reports whether the campaign has been archived
func (c *Campaign) IsArchived() bool {
	return c.ArchivedAt != nil
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint           `json:"id,omitempty"`
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	ClientID      *uint           `json:"client_id,omitempty"`
	SourceListID  *uint           `json:"source_list_id,omitempty"`
	Status        *CampaignStatus `json:"status,omitempty"`
	EventName     *string         `json:"event_name,omitempty"`
	Archived      *bool           `json:"archived,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}
