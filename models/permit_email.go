package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// Email directions
const (
	EmailDirectionOutbound = "outbound"
	EmailDirectionInbound  = "inbound"
)

// EmailDeliveryStatus represents the recorded outcome of one email
type EmailDeliveryStatus string

const (
	EmailDeliverySent    EmailDeliveryStatus = "sent"
	EmailDeliverySkipped EmailDeliveryStatus = "skipped"
	EmailDeliveryFailed  EmailDeliveryStatus = "failed"
)

// String returns the string representation of the delivery status
func (s EmailDeliveryStatus) String() string {
	return string(s)
}

// Valid checks if the delivery status is valid
func (s EmailDeliveryStatus) Valid() bool {
	switch s {
	case EmailDeliverySent, EmailDeliverySkipped, EmailDeliveryFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for EmailDeliveryStatus
func (s *EmailDeliveryStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = EmailDeliveryStatus(v)
	case []byte:
		*s = EmailDeliveryStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EmailDeliveryStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for EmailDeliveryStatus
func (s EmailDeliveryStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid EmailDeliveryStatus: %s", s)
	}
	return string(s), nil
}

// AttachmentMeta describes one attachment that was included with an email
type AttachmentMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// AttachmentMetaList is the JSONB column holding attachment metadata
type AttachmentMetaList []AttachmentMeta

// Value implements the driver.Valuer interface for AttachmentMetaList
func (l AttachmentMetaList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]AttachmentMeta{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for AttachmentMetaList
func (l *AttachmentMetaList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AttachmentMetaList", value)
	}

	return json.Unmarshal(bytes, l)
}

// PermitEmail is an immutable audit log entry for one outbound or inbound
// email tied to a distribution list item. Rows are only ever inserted.
type PermitEmail struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	UUID              uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uk_permit_emails_uuid" json:"uuid"`
	ItemID            uint                `gorm:"not null;index:idx_permit_emails_item_id" json:"item_id"`
	Direction         string              `gorm:"type:varchar(10);not null" json:"direction"`
	DeliveryStatus    EmailDeliveryStatus `gorm:"type:email_delivery_status;not null" json:"delivery_status"`
	Recipient         string              `gorm:"type:varchar(255)" json:"recipient"`
	Subject           string              `gorm:"type:text" json:"subject"`
	Body              string              `gorm:"type:text" json:"body"`
	Attachments       AttachmentMetaList  `gorm:"type:jsonb" json:"attachments,omitempty"`
	ProviderMessageID *string             `gorm:"type:varchar(255)" json:"provider_message_id,omitempty"`
	ErrorDetail       *string             `gorm:"type:text" json:"error_detail,omitempty"`
	CreatedAt         time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_permit_emails_created_at" json:"created_at"`

	// Relations
	Item *DistributionListItem `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
}

// TableName returns the table name for the model
func (PermitEmail) TableName() string {
	return "permit_emails"
}

// BeforeCreate is called before creating a new record
func (e *PermitEmail) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.Direction == "" {
		e.Direction = EmailDirectionOutbound
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// PermitEmailFilter represents filter criteria for permit email audit rows
type PermitEmailFilter struct {
	ID             *uint                `json:"id,omitempty"`
	UUID           *uuid.UUID           `json:"uuid,omitempty"`
	ItemID         *uint                `json:"item_id,omitempty"`
	Direction      *string              `json:"direction,omitempty"`
	DeliveryStatus *EmailDeliveryStatus `json:"delivery_status,omitempty"`
}
