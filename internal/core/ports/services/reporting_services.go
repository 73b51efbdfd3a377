package services

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// RenderedReport is a finished report file.
type RenderedReport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportingService builds and renders the finance reports.
type ReportingService interface {
	GenerateReport(ctx context.Context, userID string, kind domain.ReportKind, year, month int, format domain.ReportFormat) (*RenderedReport, error)
}
