package domain

import "github.com/shopspring/decimal"

// LeadStage is a column of the sales pipeline kanban.
type LeadStage string

const (
	StageNew         LeadStage = "new"
	StageContacted   LeadStage = "contacted"
	StageQualified   LeadStage = "qualified"
	StageProposal    LeadStage = "proposal"
	StageNegotiation LeadStage = "negotiation"
	StageClosedWon   LeadStage = "closed_won"
	StageClosedLost  LeadStage = "closed_lost"
)

// LeadStages lists the pipeline in board order.
var LeadStages = []LeadStage{
	StageNew, StageContacted, StageQualified, StageProposal,
	StageNegotiation, StageClosedWon, StageClosedLost,
}

// Valid reports whether s is a known pipeline stage.
func (s LeadStage) Valid() bool {
	for _, st := range LeadStages {
		if st == s {
			return true
		}
	}
	return false
}

// IsOpen reports whether the lead is still being worked.
func (s LeadStage) IsOpen() bool {
	return s != StageClosedWon && s != StageClosedLost
}

// Lead is a sales prospect.
type Lead struct {
	LeadID  string          `json:"leadID"`
	UserID  string          `json:"userID"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Company string          `json:"company"`
	Value   decimal.Decimal `json:"value"`
	Stage   LeadStage       `json:"stage"`
	Source  string          `json:"source"`
	Notes   string          `json:"notes"`
	AuditFields
}
