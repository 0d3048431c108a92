package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a follow-up item attached to a lead.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text"`
	UserID      string     `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	LeadID      string     `json:"leadId" gorm:"column:lead_id;index;not null;type:text" validate:"required"`
	Title       string     `json:"title" gorm:"type:text" validate:"required"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	DueDate     *time.Time `json:"dueDate,omitempty" gorm:"column:due_date"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CreatedAt   time.Time  `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
