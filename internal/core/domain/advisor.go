package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessData is the cross-domain metrics snapshot fed to the advisor.
type BusinessData struct {
	Leads   LeadMetrics    `json:"leads"`
	Tasks   TaskMetrics    `json:"tasks"`
	Finance FinanceMetrics `json:"finance"`
}

type LeadMetrics struct {
	Total          int               `json:"total"`
	ByStage        map[LeadStage]int `json:"byStage"`
	ClosedWon      int               `json:"closedWon"`
	ConversionRate decimal.Decimal   `json:"conversionRate"` // percent
	PipelineValue  decimal.Decimal   `json:"pipelineValue"`  // value of open leads
}

type TaskMetrics struct {
	Total          int             `json:"total"`
	Done           int             `json:"done"`
	InProgress     int             `json:"inProgress"`
	Todo           int             `json:"todo"`
	Overdue        int             `json:"overdue"`
	CompletionRate decimal.Decimal `json:"completionRate"` // percent
}

type FinanceMetrics struct {
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	Profit       decimal.Decimal `json:"profit"`
	Margin       decimal.Decimal `json:"margin"` // percent of revenue
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// ChatRole is the author of a chat turn.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted conversation turn.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisDepth controls how much detail the advisor is asked for.
type AnalysisDepth string

const (
	DepthBasic    AnalysisDepth = "basic"
	DepthDetailed AnalysisDepth = "detailed"
	DepthAdvanced AnalysisDepth = "advanced"
)

// AdvisorSettings are the user-editable advisor preferences.
type AdvisorSettings struct {
	Provider      IntegrationKind `json:"provider"`
	Model         string          `json:"model"`
	APIKey        string          `json:"apiKey,omitempty"`
	SystemPrompt  string          `json:"systemPrompt"`
	Temperature   float64         `json:"temperature"`
	MaxTokens     int             `json:"maxTokens"`
	AnalysisDepth AnalysisDepth   `json:"analysisDepth"`
}

// DefaultAdvisorSettings returns the settings used for a fresh session.
func DefaultAdvisorSettings() AdvisorSettings {
	return AdvisorSettings{
		Provider:      KindOpenAI,
		Model:         "gpt-4o-mini",
		Temperature:   0.7,
		MaxTokens:     1000,
		AnalysisDepth: DepthDetailed,
	}
}

// ChatSession is the explicit advisor session state: settings plus transcript.
type ChatSession struct {
	SessionID string          `json:"sessionID"`
	UserID    string          `json:"userID"`
	Settings  AdvisorSettings `json:"settings"`
	Messages  []ChatMessage   `json:"messages"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ReplySource tells whether a reply came from the LLM or the local rules.
type ReplySource string

const (
	SourceAI       ReplySource = "ai"
	SourceFallback ReplySource = "fallback"
)

// ChatReply is the advisor's answer to one question.
type ChatReply struct {
	Message ChatMessage  `json:"message"`
	Source  ReplySource  `json:"source"`
	Data    BusinessData `json:"data"`
}
