package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deal represents a pipeline opportunity tied to a lead. Value is stored in
// whole currency units as entered by the user.
type Deal struct {
	ID                string     `json:"id" gorm:"primaryKey;type:text"`
	UserID            string     `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	LeadID            string     `json:"leadId" gorm:"column:lead_id;index;not null;type:text" validate:"required"`
	Title             string     `json:"title" gorm:"type:text" validate:"required"`
	Description       string     `json:"description,omitempty" gorm:"type:text"`
	Value             int        `json:"value" gorm:"default:0" validate:"gte=0"`
	Status            string     `json:"status" gorm:"type:text;default:open"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty" gorm:"column:expected_close_date"`
	CreatedAt         time.Time  `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (Deal) TableName() string { return "deals" }

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
