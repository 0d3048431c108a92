// Package agents implements the three agent personas and their prompt
// orchestration over the chat-completion API. The service composes prompts
// and post-processes replies; persisting messages, actions and derived lead
// mutations is the HTTP layer's responsibility.
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/knowledge"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/llm"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/storage"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// historyLimit caps how many stored chat turns feed a prompt.
const historyLimit = 20

// AnalysisResult is the outcome of a lead qualification run. SuggestedScore
// is nil when the reply carried no parseable score marker; callers must
// treat that as normal, not as a failure.
type AnalysisResult struct {
	Content        string
	SuggestedScore *int
	AnalyzedAt     time.Time
}

// OutreachResult is the outcome of an outreach generation run.
type OutreachResult struct {
	Content     string
	Channel     string
	GeneratedAt time.Time
}

// PipelineResult is the outcome of a pipeline analysis run. LeadCount and
// AvgScore are computed locally, not by the model.
type PipelineResult struct {
	Content    string
	LeadCount  int
	AvgScore   int
	AnalyzedAt time.Time
}

// Service orchestrates persona prompts. It reads chat history and leads but
// never writes to the store.
type Service struct {
	client    llm.Client
	knowledge *knowledge.Builder
	messages  storage.AgentMessageRepo
	leads     storage.LeadRepo
}

// NewService wires the orchestrator's collaborators.
func NewService(client llm.Client, kb *knowledge.Builder, messages storage.AgentMessageRepo, leads storage.LeadRepo) *Service {
	return &Service{
		client:    client,
		knowledge: kb,
		messages:  messages,
		leads:     leads,
	}
}

// Chat runs one conversational turn with the given persona. The system
// message is the persona prompt plus its knowledge suffix and any live
// context, followed by up to the last 20 stored turns and the new user
// message. Upstream failures degrade to the fixed fallback reply.
func (s *Service) Chat(ctx context.Context, persona *Persona, userMessage string, lead *model.Lead) (string, error) {
	system := persona.SystemPrompt

	// Oracle always sees a fresh one-line pipeline summary.
	if persona.Name == model.AgentOracle {
		leads, err := s.leads.GetLeads(ctx)
		if err != nil {
			return "", err
		}
		system += fmt.Sprintf("\n\n## Current Pipeline: %d leads, Avg Score: %d/100", len(leads), meanScore(leads))
	}

	knowledgeContext, err := s.knowledge.BuildContext(ctx, persona.knowledgeCategory)
	if err != nil {
		return "", err
	}
	if knowledgeContext != "" {
		system += "\n\n" + persona.knowledgeHeader + "\n" + knowledgeContext
	}

	// Hunter gets the in-flight lead's summary when the caller supplies one.
	if persona.Name == model.AgentHunter && lead != nil {
		system += fmt.Sprintf("\n\n## Current Lead Context:\nName: %s\nCompany: %s\nRole: %s\nIndustry: %s",
			lead.Name, lead.Company, lead.Role, lead.Industry)
	}

	history, err := s.messages.GetAgentMessages(ctx, persona.Name, historyLimit)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	startTime := utils.Now()
	content, err := s.client.CreateCompletion(ctx, messages, chatMaxTokens)
	observer.ObserveCompletionCall(persona.Name, "chat", time.Since(startTime), err)
	if err != nil {
		// Chat degrades gracefully; the fallback reply is stored like any
		// other assistant turn.
		logger.FromContext(ctx).Warn("Completion call failed, returning fallback reply",
			zap.String("agent", persona.Name),
			zap.Error(err))
		return chatFallback, nil
	}
	if content == "" {
		return chatFallback, nil
	}
	return content, nil
}

// AnalyzeLead runs the qualification persona's structured analysis over one
// lead. Unlike Chat, upstream failures propagate so action endpoints can
// mark the action failed.
func (s *Service) AnalyzeLead(ctx context.Context, lead *model.Lead) (*AnalysisResult, error) {
	knowledgeContext, err := s.knowledge.BuildContext(ctx, model.KnowledgeCategoryQualification)
	if err != nil {
		return nil, err
	}
	system := Hunter.SystemPrompt
	if knowledgeContext != "" {
		system += "\n\n" + Hunter.knowledgeHeader + "\n" + knowledgeContext
	}

	prompt := fmt.Sprintf(`Analyze this lead and provide a comprehensive SDR analysis:

**Lead Information:**
- Name: %s
- Company: %s
- Role: %s
- Industry: %s
- Company Size: %s
- Website: %s
- Current Status: %s
- Current Score: %d/100

**Additional Notes:**
%s

Please provide:
1. **Lead Score** (0-100) with justification
2. **BANT Analysis** - evaluate each criterion
3. **Pain Points** - likely challenges they face
4. **Buying Signals** - any indicators of readiness
5. **Recommended Actions** - next steps to qualify/nurture
6. **ICP Fit Assessment** - how well they match ideal customer profile`,
		lead.Name, lead.Company,
		orDefault(lead.Role, "Unknown"),
		orDefault(lead.Industry, "Unknown"),
		orDefault(lead.CompanySize, "Unknown"),
		orDefault(lead.Website, "Not provided"),
		lead.Status, lead.Score,
		orDefault(lead.Notes, "None provided"))

	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}

	startTime := utils.Now()
	content, err := s.client.CreateCompletion(ctx, messages, analyzeMaxTokens)
	observer.ObserveCompletionCall(Hunter.Name, "analyze_lead", time.Since(startTime), err)
	if err != nil {
		return nil, err
	}
	if content == "" {
		content = analyzeFallback
	}

	return &AnalysisResult{
		Content:        content,
		SuggestedScore: extractScore(content),
		AnalyzedAt:     utils.Now(),
	}, nil
}

// GenerateOutreach runs the outreach persona for one lead and channel,
// producing two labelled A/B variations in a single completion.
func (s *Service) GenerateOutreach(ctx context.Context, lead *model.Lead, channel, extraContext string) (*OutreachResult, error) {
	guidance, ok := channelGuidance[channel]
	if !ok {
		return nil, fmt.Errorf("unsupported outreach channel %q", channel)
	}

	knowledgeContext, err := s.knowledge.BuildContext(ctx, model.KnowledgeCategoryOutreach)
	if err != nil {
		return nil, err
	}
	system := Scribe.SystemPrompt
	if knowledgeContext != "" {
		system += "\n\n" + Scribe.knowledgeHeader + "\n" + knowledgeContext
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate %s outreach for this prospect:

**Prospect:**
- Name: %s
- Company: %s
- Role: %s
- Industry: %s

**Channel Guidelines:**
%s

`, channel, lead.Name, lead.Company,
		orDefault(lead.Role, "Decision Maker"),
		orDefault(lead.Industry, "Unknown"),
		guidance)
	if extraContext != "" {
		fmt.Fprintf(&b, "**Additional Context:**\n%s\n\n", extraContext)
	}
	b.WriteString("Generate 2 variations (A/B) with different approaches/angles.")

	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: b.String()},
	}

	startTime := utils.Now()
	content, err := s.client.CreateCompletion(ctx, messages, outreachMaxTokens)
	observer.ObserveCompletionCall(Scribe.Name, "generate_outreach", time.Since(startTime), err)
	if err != nil {
		return nil, err
	}
	if content == "" {
		content = outreachFallback
	}

	return &OutreachResult{
		Content:     content,
		Channel:     channel,
		GeneratedAt: utils.Now(),
	}, nil
}

// AnalyzePipeline runs the pipeline persona over the given leads. Status
// distribution, mean score and the top-10 ranking are computed locally and
// embedded into the prompt.
func (s *Service) AnalyzePipeline(ctx context.Context, leads []model.Lead) (*PipelineResult, error) {
	knowledgeContext, err := s.knowledge.BuildContext(ctx, "")
	if err != nil {
		return nil, err
	}
	system := Oracle.SystemPrompt
	if knowledgeContext != "" {
		system += "\n\n" + Oracle.knowledgeHeader + "\n" + knowledgeContext
	}

	avgScore := meanScore(leads)
	summary := pipelineSummary(leads, avgScore)

	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: summary},
	}

	startTime := utils.Now()
	content, err := s.client.CreateCompletion(ctx, messages, analyzeMaxTokens)
	observer.ObserveCompletionCall(Oracle.Name, "analyze_pipeline", time.Since(startTime), err)
	if err != nil {
		return nil, err
	}
	if content == "" {
		content = pipelineFallback
	}

	return &PipelineResult{
		Content:    content,
		LeadCount:  len(leads),
		AvgScore:   avgScore,
		AnalyzedAt: utils.Now(),
	}, nil
}

// orDefault substitutes a placeholder for empty lead fields in prompts.
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
