package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Campaign statuses.
const (
	CampaignStatusDrafting  = "drafting"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
)

// Campaign is a user-managed outreach campaign.
type Campaign struct {
	ID        string         `json:"id" gorm:"primaryKey;type:text"`
	UserID    string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	Title     string         `json:"title" gorm:"type:text" validate:"required"`
	Type      string         `json:"type" gorm:"type:text" validate:"required"`
	Status    string         `json:"status" gorm:"type:text;default:drafting" validate:"omitempty,oneof=drafting active completed"`
	Stats     string         `json:"stats,omitempty" gorm:"type:text"`
	Tags      datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDrafting
	}
	return nil
}
