package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/plakatpro/plakatpro/utils"
	"gorm.io/gorm"
)

// Client represents a paying customer of the agency
type Client struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_clients_uuid" json:"uuid"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255)" json:"email"`
	Phone     string     `gorm:"type:varchar(50)" json:"phone"`
	Address   string     `gorm:"type:text" json:"address"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	DistributionLists []DistributionList `gorm:"foreignKey:ClientID" json:"distribution_lists,omitempty"`
	Campaigns         []Campaign         `gorm:"foreignKey:ClientID" json:"campaigns,omitempty"`
}

// TableName returns the table name for the model
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate is called before creating a new record
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Client) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// ClientFilter represents filter criteria for clients
type ClientFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
