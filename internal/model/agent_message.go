package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message roles in an agent chat log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AgentMessage is one turn in the chat log between a user and an agent
// persona. Logs are append-only; the only mutation is a bulk clear.
type AgentMessage struct {
	ID        string         `json:"id" gorm:"primaryKey;type:text"`
	UserID    string         `json:"userId" gorm:"column:user_id;index;not null;type:text" validate:"required"`
	AgentName string         `json:"agentName" gorm:"column:agent_name;index;not null;type:text" validate:"required,oneof=hunter scribe oracle"`
	Role      string         `json:"role" gorm:"type:text" validate:"required,oneof=user assistant"`
	Content   string         `json:"content" gorm:"type:text" validate:"required"`
	Metadata  datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt,omitempty" gorm:"autoCreateTime"`
}

func (AgentMessage) TableName() string { return "agent_messages" }

func (m *AgentMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
