package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent names form a closed set. Any other value is rejected at the API
// boundary before it reaches storage.
const (
	AgentHunter = "hunter"
	AgentScribe = "scribe"
	AgentOracle = "oracle"
)

// ValidAgentName reports whether name is one of the known agent personas.
func ValidAgentName(name string) bool {
	switch name {
	case AgentHunter, AgentScribe, AgentOracle:
		return true
	}
	return false
}

// AgentConfig holds per-user settings for one agent persona. Exactly one row
// exists per (user_id, agent_name) pair, maintained by upsert.
//
// The settings columns carry no gorm default tags: GORM substitutes tag
// defaults for zero-valued fields at INSERT bind time, which would turn an
// explicit false/0 into true/50 on the upsert path. Defaults live in the
// handler that builds a first-time config instead.
type AgentConfig struct {
	ID              string    `json:"id" gorm:"primaryKey;type:text"`
	UserID          string    `json:"userId" gorm:"column:user_id;not null;type:text;uniqueIndex:idx_agent_configs_user_agent" validate:"required"`
	AgentName       string    `json:"agentName" gorm:"column:agent_name;not null;type:text;uniqueIndex:idx_agent_configs_user_agent" validate:"required,oneof=hunter scribe oracle"`
	IsActive        bool      `json:"isActive" gorm:"column:is_active"`
	AutonomousMode  bool      `json:"autonomousMode" gorm:"column:autonomous_mode"`
	AggressionLevel int       `json:"aggressionLevel" gorm:"column:aggression_level" validate:"gte=0,lte=100"`
	DailyBudget     int       `json:"dailyBudget" gorm:"column:daily_budget" validate:"gte=0"`
	CreatedAt       time.Time `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

func (AgentConfig) TableName() string { return "agent_configs" }

func (c *AgentConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
