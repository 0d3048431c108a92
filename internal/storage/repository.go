package storage

import (
	"context"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

// Repository defines the persistence operations for all entities. Every
// method resolves the owning user from the context; rows belonging to other
// users behave as if they do not exist.
type Repository interface {
	UserRepo
	LeadRepo
	ActivityRepo
	TaskRepo
	DealRepo
	CampaignRepo
	AgentConfigRepo
	KnowledgeRepo
	AgentMessageRepo
	AgentActionRepo

	Close(ctx context.Context) error
}

// UserRepo manages user rows. UpsertUser is the login path and does not
// require an owner in context.
type UserRepo interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpsertUser(ctx context.Context, user *model.User) error
}

type LeadRepo interface {
	GetLeads(ctx context.Context) ([]model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	CreateLead(ctx context.Context, lead *model.Lead) error
	UpdateLead(ctx context.Context, id string, updates map[string]interface{}) (*model.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

type ActivityRepo interface {
	GetActivities(ctx context.Context, leadID string) ([]model.Activity, error)
	CreateActivity(ctx context.Context, activity *model.Activity) error
}

type TaskRepo interface {
	GetTasks(ctx context.Context, leadID string) ([]model.Task, error)
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type DealRepo interface {
	GetDeals(ctx context.Context, leadID string) ([]model.Deal, error)
	CreateDeal(ctx context.Context, deal *model.Deal) error
	UpdateDeal(ctx context.Context, id string, updates map[string]interface{}) (*model.Deal, error)
	DeleteDeal(ctx context.Context, id string) error
}

type CampaignRepo interface {
	GetCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *model.Campaign) error
	UpdateCampaign(ctx context.Context, id string, updates map[string]interface{}) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
}

// AgentConfigRepo maintains one row per (user, agent persona).
type AgentConfigRepo interface {
	GetAgentConfigs(ctx context.Context) ([]model.AgentConfig, error)
	GetAgentConfig(ctx context.Context, id string) (*model.AgentConfig, error)
	UpsertAgentConfig(ctx context.Context, config *model.AgentConfig) (*model.AgentConfig, error)
	UpdateAgentConfig(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentConfig, error)
}

type KnowledgeRepo interface {
	// GetKnowledgeDocuments returns the owner's documents newest-first,
	// optionally narrowed to one category. Empty category means all.
	GetKnowledgeDocuments(ctx context.Context, category string) ([]model.KnowledgeDocument, error)
	GetKnowledgeDocument(ctx context.Context, id string) (*model.KnowledgeDocument, error)
	CreateKnowledgeDocument(ctx context.Context, doc *model.KnowledgeDocument) error
	UpdateKnowledgeDocument(ctx context.Context, id string, updates map[string]interface{}) (*model.KnowledgeDocument, error)
	DeleteKnowledgeDocument(ctx context.Context, id string) error
}

type AgentMessageRepo interface {
	// GetAgentMessages returns the most recent limit messages for the
	// (owner, agent) pair in chronological order. limit <= 0 uses the default.
	GetAgentMessages(ctx context.Context, agentName string, limit int) ([]model.AgentMessage, error)
	CreateAgentMessage(ctx context.Context, message *model.AgentMessage) error
	// ClearAgentMessages deletes the whole chat log; clearing an empty log
	// is not an error.
	ClearAgentMessages(ctx context.Context, agentName string) error
}

type AgentActionRepo interface {
	// GetAgentActions returns the owner's most recent actions newest-first,
	// optionally filtered by agent. Capped at 100 rows.
	GetAgentActions(ctx context.Context, agentName string) ([]model.AgentAction, error)
	CreateAgentAction(ctx context.Context, action *model.AgentAction) error
	UpdateAgentAction(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentAction, error)
}
