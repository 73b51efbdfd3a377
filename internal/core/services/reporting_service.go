package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/report"
)

// ReportGenerationFailed is the only message callers see when a report cannot be produced.
const ReportGenerationFailed = "Erro ao gerar relatório"

type reportingService struct {
	BaseService
	txnRepo      portsrepo.TransactionReader
	accountRepo  portsrepo.AccountReader
	categoryRepo portsrepo.CategoryReader
}

func NewReportingService(txnRepo portsrepo.TransactionReader, accountRepo portsrepo.AccountReader, categoryRepo portsrepo.CategoryReader) portssvc.ReportingService {
	return &reportingService{txnRepo: txnRepo, accountRepo: accountRepo, categoryRepo: categoryRepo}
}

// GenerateReport loads the period's data, lays it out and renders it. Nothing
// is returned unless the whole file was produced.
func (s *reportingService) GenerateReport(ctx context.Context, userID string, kind domain.ReportKind, year, month int, format domain.ReportFormat) (*portssvc.RenderedReport, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown report kind %q", apperrors.ErrValidation, kind)
	}
	if format == "" {
		format = domain.FormatPDF
	}
	if format != domain.FormatPDF && format != domain.FormatXLSX {
		return nil, fmt.Errorf("%w: unsupported format %q", apperrors.ErrValidation, format)
	}
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}

	now := s.Now()
	y, m := resolvePeriod(now, year, month)
	from, to := monthRange(y, m)
	logAttrs := []any{slog.String("kind", string(kind)), slog.Int("year", y), slog.Int("month", int(m)), slog.String("format", string(format))}

	fail := func(err error, msg string) (*portssvc.RenderedReport, error) {
		s.LogError(ctx, err, msg, logAttrs...)
		return nil, apperrors.NewAppError(http.StatusInternalServerError, ReportGenerationFailed, err)
	}

	txns, err := s.txnRepo.ListTransactionsInRange(ctx, userID, from, to)
	if err != nil {
		return fail(err, "Failed to load transactions for report")
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, userID)
	if err != nil {
		return fail(err, "Failed to load accounts for report")
	}
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		return fail(err, "Failed to load categories for report")
	}

	doc, err := report.Build(report.Input{
		Kind:         kind,
		Year:         y,
		Month:        m,
		Transactions: txns,
		Accounts:     accounts,
		Categories:   categories,
		GeneratedAt:  now,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		return fail(err, "Failed to lay out report")
	}

	content, contentType, err := report.Render(doc, format)
	if err != nil {
		return fail(err, "Failed to render report")
	}

	s.LogInfo(ctx, "Report generated", append(logAttrs, slog.Int("bytes", len(content)), slog.Int("transactions", len(txns)))...)
	return &portssvc.RenderedReport{
		Filename:    report.Filename(kind, y, m, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}
