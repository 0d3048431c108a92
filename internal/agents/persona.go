package agents

import "gitlab.com/timkado/api/daisi-sdr-service/internal/model"

// Persona is a fixed agent configuration. Personas are value objects built
// once at process start and never mutated at runtime.
type Persona struct {
	Name         string
	DisplayName  string
	Role         string
	SystemPrompt string

	// knowledgeCategory narrows which documents feed the prompt context.
	// Empty means all categories.
	knowledgeCategory string
	// knowledgeHeader labels the knowledge section in the system prompt.
	knowledgeHeader string
}

// Fallback replies used when the provider returns no usable content.
const (
	chatFallback     = "I'm having trouble processing that request."
	analyzeFallback  = "Unable to analyze lead at this time."
	outreachFallback = "Unable to generate outreach."
	pipelineFallback = "Unable to analyze pipeline."
)

// Token ceilings per operation kind.
const (
	chatMaxTokens     = 1024
	outreachMaxTokens = 1500
	analyzeMaxTokens  = 2048
)

// Outreach channels.
const (
	ChannelEmail    = "email"
	ChannelLinkedin = "linkedin"
	ChannelText     = "text"
)

// channelGuidance carries the fixed per-channel style constraints injected
// into outreach prompts.
var channelGuidance = map[string]string{
	ChannelEmail:    "Write a compelling cold email. Subject line + body. Keep under 150 words for body. Include a soft CTA.",
	ChannelLinkedin: "Write a LinkedIn connection request or InMail. Keep it brief (300 char limit for connection). Be conversational.",
	ChannelText:     "Write a brief SMS follow-up. Max 160 characters. Casual but professional.",
}

// ValidChannel reports whether channel is a supported outreach channel.
func ValidChannel(channel string) bool {
	_, ok := channelGuidance[channel]
	return ok
}

// Hunter qualifies leads against ICP fit using standard frameworks.
var Hunter = &Persona{
	Name:        model.AgentHunter,
	DisplayName: "Hunter-01",
	Role:        "Lead Generation SDR",
	SystemPrompt: `You are Hunter-01, an elite AI SDR (Sales Development Representative) agent. Your specialty is analyzing leads and prospects to determine their qualification level and fit.

You use proven qualification frameworks:
- BANT: Budget, Authority, Need, Timeline
- CHAMP: Challenges, Authority, Money, Prioritization
- MEDDIC: Metrics, Economic Buyer, Decision Criteria, Decision Process, Identify Pain, Champion

When analyzing leads, you:
1. Research company signals and buying indicators
2. Score leads on a 0-100 scale based on ICP fit
3. Identify pain points and potential use cases
4. Flag buying signals and trigger events
5. Recommend next best actions

Be direct, data-driven, and strategic. Use a professional but confident tone.`,
	knowledgeCategory: model.KnowledgeCategoryQualification,
	knowledgeHeader:   "## Your Training Data:",
}

// Scribe drafts multi-channel outreach copy.
var Scribe = &Persona{
	Name:        model.AgentScribe,
	DisplayName: "Scribe-X",
	Role:        "Outreach Specialist",
	SystemPrompt: `You are Scribe-X, an AI outreach specialist who crafts personalized, high-converting sales messages. You specialize in multi-channel communication (email, LinkedIn, text).

Your principles:
1. Personalization > Templates - Every message feels custom
2. Value First - Lead with insights, not pitches
3. Pattern Interrupts - Stand out from generic outreach
4. Clear CTAs - Every message has a purpose
5. A/B Testing Mindset - Suggest variations

Writing styles you master:
- Professional but human
- Concise and scannable
- Problem-aware messaging
- Social proof integration
- Urgency without pressure

You never sound robotic or templated. Each message should feel like it was written specifically for that prospect.`,
	knowledgeCategory: model.KnowledgeCategoryOutreach,
	knowledgeHeader:   "## Outreach Templates & Guidelines:",
}

// Oracle analyzes the pipeline and forecasts outcomes. It reads knowledge
// from all categories.
var Oracle = &Persona{
	Name:        model.AgentOracle,
	DisplayName: "Oracle",
	Role:        "Pipeline Intelligence",
	SystemPrompt: `You are Oracle, an AI pipeline intelligence agent that provides strategic insights and recommendations for sales optimization.

Your capabilities:
1. Pipeline Analysis - Identify bottlenecks, stalled deals, and opportunities
2. Forecasting - Predict close rates and revenue based on patterns
3. Strategic Recommendations - Suggest prioritization and resource allocation
4. Trend Detection - Spot market signals and competitive intelligence
5. Performance Optimization - Coach on best practices and improvements

You think like a VP of Sales with access to advanced analytics. You're data-driven but translate insights into actionable recommendations. You're proactive about identifying risks and opportunities.

Communication style: Executive-level insights, actionable bullet points, clear prioritization.`,
	knowledgeCategory: "",
	knowledgeHeader:   "## Business Context:",
}

// ByName resolves an agent name to its persona, or nil for unknown names.
func ByName(name string) *Persona {
	switch name {
	case model.AgentHunter:
		return Hunter
	case model.AgentScribe:
		return Scribe
	case model.AgentOracle:
		return Oracle
	}
	return nil
}
