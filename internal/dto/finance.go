package dto

import "github.com/SscSPs/bizos_backend/internal/core/domain"

// PeriodParams selects a calendar month. Zero values mean the current month.
type PeriodParams struct {
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// ReportParams selects the report variant, period and output format.
type ReportParams struct {
	PeriodParams
	Format domain.ReportFormat `form:"format,default=pdf" binding:"oneof=pdf xlsx"`
}

// ReconcileResponse lists the per-account reconcile outcome.
type ReconcileResponse struct {
	Results []domain.ReconcileResult `json:"results"`
}
