package domain

import "time"

// InsightType classifies where an insight came from.
type InsightType string

const (
	InsightAIChat         InsightType = "ai_chat"
	InsightRecommendation InsightType = "recommendation"
	InsightAlert          InsightType = "alert"
)

// Insight is a persisted recommendation or question/answer shown to the user.
type Insight struct {
	InsightID string       `json:"insightID"`
	UserID    string       `json:"userID"`
	Type      InsightType  `json:"type"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Priority  TaskPriority `json:"priority"`
	IsRead    bool         `json:"isRead"`
	CreatedAt time.Time    `json:"createdAt"`
}
