package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Knowledge document categories. Each agent pulls context from specific
// categories when building prompts.
const (
	KnowledgeCategoryQualification = "qualification"
	KnowledgeCategoryOutreach      = "outreach"
	KnowledgeCategoryObjection     = "objection"
	KnowledgeCategoryIndustry      = "industry"
	KnowledgeCategoryProduct       = "product"
)

// KnowledgeDocument is user-authored free text injected into agent prompts.
// Inactive documents stay stored but are excluded from prompt context.
type KnowledgeDocument struct {
	ID        string         `json:"id" gorm:"primaryKey;type:text"`
	UserID    string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	Title     string         `json:"title" gorm:"type:text" validate:"required"`
	Content   string         `json:"content" gorm:"type:text" validate:"required"`
	Category  string         `json:"category" gorm:"type:text" validate:"required,oneof=qualification outreach objection industry product"`
	Tags      datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`
	IsActive  bool           `json:"isActive" gorm:"column:is_active"`
	CreatedAt time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (KnowledgeDocument) TableName() string { return "knowledge_documents" }

func (d *KnowledgeDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
