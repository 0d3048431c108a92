// Package mock provides a testify-based mock implementation of the
// storage.Repository interface for handler and service tests.
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

// RepositoryMock is a mock implementation of storage.Repository.
type RepositoryMock struct {
	mock.Mock
}

// --- User ---

func (m *RepositoryMock) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *RepositoryMock) UpsertUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Lead ---

func (m *RepositoryMock) GetLeads(ctx context.Context) ([]model.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *RepositoryMock) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *RepositoryMock) CreateLead(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateLead(ctx context.Context, id string, updates map[string]interface{}) (*model.Lead, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *RepositoryMock) DeleteLead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Activity ---

func (m *RepositoryMock) GetActivities(ctx context.Context, leadID string) ([]model.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func (m *RepositoryMock) CreateActivity(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

// --- Task ---

func (m *RepositoryMock) GetTasks(ctx context.Context, leadID string) ([]model.Task, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *RepositoryMock) CreateTask(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (*model.Task, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *RepositoryMock) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Deal ---

func (m *RepositoryMock) GetDeals(ctx context.Context, leadID string) ([]model.Deal, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Deal), args.Error(1)
}

func (m *RepositoryMock) CreateDeal(ctx context.Context, deal *model.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateDeal(ctx context.Context, id string, updates map[string]interface{}) (*model.Deal, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Deal), args.Error(1)
}

func (m *RepositoryMock) DeleteDeal(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Campaign ---

func (m *RepositoryMock) GetCampaigns(ctx context.Context) ([]model.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *RepositoryMock) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *RepositoryMock) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateCampaign(ctx context.Context, id string, updates map[string]interface{}) (*model.Campaign, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *RepositoryMock) DeleteCampaign(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- AgentConfig ---

func (m *RepositoryMock) GetAgentConfigs(ctx context.Context) ([]model.AgentConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentConfig), args.Error(1)
}

func (m *RepositoryMock) GetAgentConfig(ctx context.Context, id string) (*model.AgentConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConfig), args.Error(1)
}

func (m *RepositoryMock) UpsertAgentConfig(ctx context.Context, config *model.AgentConfig) (*model.AgentConfig, error) {
	args := m.Called(ctx, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConfig), args.Error(1)
}

func (m *RepositoryMock) UpdateAgentConfig(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentConfig, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConfig), args.Error(1)
}

// --- KnowledgeDocument ---

func (m *RepositoryMock) GetKnowledgeDocuments(ctx context.Context, category string) ([]model.KnowledgeDocument, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.KnowledgeDocument), args.Error(1)
}

func (m *RepositoryMock) GetKnowledgeDocument(ctx context.Context, id string) (*model.KnowledgeDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KnowledgeDocument), args.Error(1)
}

func (m *RepositoryMock) CreateKnowledgeDocument(ctx context.Context, doc *model.KnowledgeDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateKnowledgeDocument(ctx context.Context, id string, updates map[string]interface{}) (*model.KnowledgeDocument, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KnowledgeDocument), args.Error(1)
}

func (m *RepositoryMock) DeleteKnowledgeDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- AgentMessage ---

func (m *RepositoryMock) GetAgentMessages(ctx context.Context, agentName string, limit int) ([]model.AgentMessage, error) {
	args := m.Called(ctx, agentName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentMessage), args.Error(1)
}

func (m *RepositoryMock) CreateAgentMessage(ctx context.Context, message *model.AgentMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *RepositoryMock) ClearAgentMessages(ctx context.Context, agentName string) error {
	args := m.Called(ctx, agentName)
	return args.Error(0)
}

// --- AgentAction ---

func (m *RepositoryMock) GetAgentActions(ctx context.Context, agentName string) ([]model.AgentAction, error) {
	args := m.Called(ctx, agentName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentAction), args.Error(1)
}

func (m *RepositoryMock) CreateAgentAction(ctx context.Context, action *model.AgentAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *RepositoryMock) UpdateAgentAction(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentAction, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentAction), args.Error(1)
}

// --- Lifecycle ---

func (m *RepositoryMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
