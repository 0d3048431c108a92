package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead statuses observed in the pipeline. The column stays free-form text so
// user-defined stages keep working, but these are the values the agents emit.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusNegotiation = "negotiation"
	LeadStatusHot         = "hot"
	LeadStatusCold        = "cold"
)

// Lead represents a sales prospect owned by a user. Score and SdrAnalysis are
// written back by the qualification agent; everything else is user-managed.
type Lead struct {
	ID          string         `json:"id" gorm:"primaryKey;type:text"`
	UserID      string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	Name        string         `json:"name" gorm:"type:text" validate:"required"`
	Company     string         `json:"company" gorm:"type:text" validate:"required"`
	Role        string         `json:"role,omitempty" gorm:"type:text"`
	Email       string         `json:"email,omitempty" gorm:"type:text" validate:"omitempty,email"`
	Phone       string         `json:"phone,omitempty" gorm:"type:text"`
	Linkedin    string         `json:"linkedin,omitempty" gorm:"type:text"`
	Industry    string         `json:"industry,omitempty" gorm:"type:text"`
	CompanySize string         `json:"companySize,omitempty" gorm:"column:company_size;type:text"`
	Website     string         `json:"website,omitempty" gorm:"type:text"`
	Notes       string         `json:"notes,omitempty" gorm:"type:text"`
	Status      string         `json:"status" gorm:"type:text;default:new"`
	Score       int            `json:"score" gorm:"default:0" validate:"gte=0,lte=100"`
	SdrAnalysis datatypes.JSON `json:"sdrAnalysis,omitempty" gorm:"column:sdr_analysis;type:jsonb"` // Opaque blob from the last AI analysis
	LastAction  string         `json:"lastAction,omitempty" gorm:"column:last_action;type:text"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	return nil
}
