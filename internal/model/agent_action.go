package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Agent action lifecycle statuses.
const (
	ActionStatusPending   = "pending"
	ActionStatusRunning   = "running"
	ActionStatusCompleted = "completed"
	ActionStatusFailed    = "failed"
)

// AgentAction is the audit record for one structured agent operation
// (lead analysis, outreach generation, pipeline analysis). Created pending,
// advanced to running, then completed or failed with the output attached.
type AgentAction struct {
	ID          string         `json:"id" gorm:"primaryKey;type:text"`
	UserID      string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	AgentName   string         `json:"agentName" gorm:"column:agent_name;index;not null;type:text" validate:"required,oneof=hunter scribe oracle"`
	ActionType  string         `json:"actionType" gorm:"column:action_type;type:text" validate:"required"`
	TargetID    string         `json:"targetId,omitempty" gorm:"column:target_id;type:text"`
	Input       datatypes.JSON `json:"input,omitempty" gorm:"type:jsonb"`
	Output      datatypes.JSON `json:"output,omitempty" gorm:"type:jsonb"`
	Status      string         `json:"status" gorm:"type:text;default:pending" validate:"omitempty,oneof=pending running completed failed"`
	CompletedAt *time.Time     `json:"completedAt,omitempty" gorm:"column:completed_at"`
	CreatedAt   time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
}

func (AgentAction) TableName() string { return "agent_actions" }

func (a *AgentAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = ActionStatusPending
	}
	return nil
}
