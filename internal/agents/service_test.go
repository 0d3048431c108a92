package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/knowledge"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/llm"
	llmmock "gitlab.com/timkado/api/daisi-sdr-service/internal/llm/mock"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	storagemock "gitlab.com/timkado/api/daisi-sdr-service/internal/storage/mock"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *llmmock.ClientMock, *storagemock.RepositoryMock) {
	logger.Log = zaptest.NewLogger(t).Named("test")
	client := new(llmmock.ClientMock)
	repo := new(storagemock.RepositoryMock)
	return NewService(client, knowledge.NewBuilder(repo), repo, repo), client, repo
}

func systemMessage(messages []llm.Message) string {
	if len(messages) == 0 || messages[0].Role != "system" {
		return ""
	}
	return messages[0].Content
}

func TestChat_HunterWithLeadContext(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryQualification).
		Return([]model.KnowledgeDocument{
			{Title: "ICP", Content: "Mid-market SaaS only.", IsActive: true},
		}, nil)
	repo.On("GetAgentMessages", ctx, model.AgentHunter, historyLimit).
		Return([]model.AgentMessage{
			{Role: model.RoleUser, Content: "earlier question"},
			{Role: model.RoleAssistant, Content: "earlier answer"},
		}, nil)

	lead := &model.Lead{Name: "Ada Lovelace", Company: "Analytical Engines", Role: "CTO", Industry: "Computing"}
	client.On("CreateCompletion", ctx, mock.MatchedBy(func(messages []llm.Message) bool {
		system := systemMessage(messages)
		knowledgeAt := strings.Index(system, "## Your Training Data:\n### ICP\nMid-market SaaS only.")
		leadAt := strings.Index(system, "## Current Lead Context:\nName: Ada Lovelace\nCompany: Analytical Engines\nRole: CTO\nIndustry: Computing")
		return len(messages) == 4 &&
			strings.HasPrefix(system, Hunter.SystemPrompt) &&
			knowledgeAt > 0 && leadAt > knowledgeAt &&
			messages[1].Content == "earlier question" &&
			messages[2].Content == "earlier answer" &&
			messages[3].Role == "user" && messages[3].Content == "What about Ada?"
	}), chatMaxTokens).Return("She looks qualified.", nil)

	reply, err := svc.Chat(ctx, Hunter, "What about Ada?", lead)
	assert.NoError(t, err)
	assert.Equal(t, "She looks qualified.", reply)
	client.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestChat_OraclePipelineSummaryPrecedesKnowledge(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetLeads", ctx).Return([]model.Lead{{Score: 80}, {Score: 60}}, nil)
	repo.On("GetKnowledgeDocuments", ctx, "").
		Return([]model.KnowledgeDocument{
			{Title: "Targets", Content: "Q3 quota is 40 deals.", IsActive: true},
		}, nil)
	repo.On("GetAgentMessages", ctx, model.AgentOracle, historyLimit).
		Return([]model.AgentMessage{}, nil)

	client.On("CreateCompletion", ctx, mock.MatchedBy(func(messages []llm.Message) bool {
		system := systemMessage(messages)
		pipelineAt := strings.Index(system, "## Current Pipeline: 2 leads, Avg Score: 70/100")
		knowledgeAt := strings.Index(system, "## Business Context:\n### Targets\nQ3 quota is 40 deals.")
		return pipelineAt > 0 && knowledgeAt > pipelineAt
	}), chatMaxTokens).Return("Pipeline looks thin.", nil)

	reply, err := svc.Chat(ctx, Oracle, "How is the pipeline?", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Pipeline looks thin.", reply)
	client.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestChat_FallbackOnCompletionError(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryOutreach).
		Return([]model.KnowledgeDocument{}, nil)
	repo.On("GetAgentMessages", ctx, model.AgentScribe, historyLimit).
		Return([]model.AgentMessage{}, nil)
	client.On("CreateCompletion", ctx, mock.Anything, chatMaxTokens).
		Return("", errors.New("upstream timeout"))

	reply, err := svc.Chat(ctx, Scribe, "Draft something", nil)
	assert.NoError(t, err)
	assert.Equal(t, chatFallback, reply)
}

func TestChat_FallbackOnEmptyCompletion(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryQualification).
		Return([]model.KnowledgeDocument{}, nil)
	repo.On("GetAgentMessages", ctx, model.AgentHunter, historyLimit).
		Return([]model.AgentMessage{}, nil)
	client.On("CreateCompletion", ctx, mock.Anything, chatMaxTokens).
		Return("", nil)

	reply, err := svc.Chat(ctx, Hunter, "Anything?", nil)
	assert.NoError(t, err)
	assert.Equal(t, chatFallback, reply)
}

func TestAnalyzeLead(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryQualification).
		Return([]model.KnowledgeDocument{}, nil)

	lead := &model.Lead{
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Status:  "new",
		Score:   0,
	}
	client.On("CreateCompletion", ctx, mock.MatchedBy(func(messages []llm.Message) bool {
		prompt := messages[1].Content
		return len(messages) == 2 &&
			strings.Contains(prompt, "- Name: Ada Lovelace") &&
			strings.Contains(prompt, "- Role: Unknown") &&
			strings.Contains(prompt, "- Website: Not provided") &&
			strings.Contains(prompt, "- Current Score: 0/100") &&
			strings.Contains(prompt, "**Additional Notes:**\nNone provided") &&
			strings.Contains(prompt, "1. **Lead Score** (0-100) with justification")
	}), analyzeMaxTokens).Return("Solid prospect.\n\n**Lead Score**: 82", nil)

	result, err := svc.AnalyzeLead(ctx, lead)
	assert.NoError(t, err)
	assert.Equal(t, "Solid prospect.\n\n**Lead Score**: 82", result.Content)
	assert.NotNil(t, result.SuggestedScore)
	assert.Equal(t, 82, *result.SuggestedScore)
	assert.False(t, result.AnalyzedAt.IsZero())
	client.AssertExpectations(t)
}

func TestAnalyzeLead_ErrorPropagates(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryQualification).
		Return([]model.KnowledgeDocument{}, nil)
	client.On("CreateCompletion", ctx, mock.Anything, analyzeMaxTokens).
		Return("", errors.New("upstream timeout"))

	result, err := svc.AnalyzeLead(ctx, &model.Lead{Name: "Ada"})
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestAnalyzeLead_EmptyCompletionFallsBack(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryQualification).
		Return([]model.KnowledgeDocument{}, nil)
	client.On("CreateCompletion", ctx, mock.Anything, analyzeMaxTokens).
		Return("", nil)

	result, err := svc.AnalyzeLead(ctx, &model.Lead{Name: "Ada"})
	assert.NoError(t, err)
	assert.Equal(t, analyzeFallback, result.Content)
	assert.Nil(t, result.SuggestedScore)
}

func TestGenerateOutreach(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, model.KnowledgeCategoryOutreach).
		Return([]model.KnowledgeDocument{}, nil)

	lead := &model.Lead{Name: "Grace Hopper", Company: "COBOL Inc"}
	client.On("CreateCompletion", ctx, mock.MatchedBy(func(messages []llm.Message) bool {
		prompt := messages[1].Content
		return strings.HasPrefix(prompt, "Generate email outreach for this prospect:") &&
			strings.Contains(prompt, "- Role: Decision Maker") &&
			strings.Contains(prompt, "- Industry: Unknown") &&
			strings.Contains(prompt, channelGuidance[ChannelEmail]) &&
			strings.Contains(prompt, "**Additional Context:**\nMet at re:Invent") &&
			strings.HasSuffix(prompt, "Generate 2 variations (A/B) with different approaches/angles.")
	}), outreachMaxTokens).Return("Variation A...\nVariation B...", nil)

	result, err := svc.GenerateOutreach(ctx, lead, ChannelEmail, "Met at re:Invent")
	assert.NoError(t, err)
	assert.Equal(t, ChannelEmail, result.Channel)
	assert.Equal(t, "Variation A...\nVariation B...", result.Content)
	client.AssertExpectations(t)
}

func TestGenerateOutreach_UnsupportedChannel(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.GenerateOutreach(context.Background(), &model.Lead{Name: "Ada"}, "fax", "")
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestAnalyzePipeline(t *testing.T) {
	svc, client, repo := newTestService(t)
	ctx := context.Background()

	repo.On("GetKnowledgeDocuments", ctx, "").
		Return([]model.KnowledgeDocument{}, nil)

	leads := []model.Lead{
		{Name: "Ada", Company: "AE", Score: 90, Status: "qualified"},
		{Name: "Grace", Company: "CI", Score: 50, Status: "new"},
	}
	client.On("CreateCompletion", ctx, mock.MatchedBy(func(messages []llm.Message) bool {
		prompt := messages[1].Content
		return strings.Contains(prompt, "- Total Leads: 2") &&
			strings.Contains(prompt, "- Average Lead Score: 70/100")
	}), analyzeMaxTokens).Return("Healthy pipeline.", nil)

	result, err := svc.AnalyzePipeline(ctx, leads)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.LeadCount)
	assert.Equal(t, 70, result.AvgScore)
	assert.Equal(t, "Healthy pipeline.", result.Content)
	client.AssertExpectations(t)
}
