package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is an append-only audit record attached to a lead. Rows are written
// by user actions and by completed agent actions, never updated or deleted.
type Activity struct {
	ID          string         `json:"id" gorm:"primaryKey;type:text"`
	UserID      string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	LeadID      string         `json:"leadId" gorm:"column:lead_id;index;not null;type:text" validate:"required"`
	Type        string         `json:"type" gorm:"type:text" validate:"required"`
	Title       string         `json:"title" gorm:"type:text" validate:"required"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
