package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/utils/finance"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Snapshot gathers the cross-domain metrics the advisor reasons about.
func (s *AdvisorService) Snapshot(ctx context.Context, userID string) (*domain.BusinessData, error) {
	now := s.Now()
	from, to := monthRange(now.Year(), now.Month())

	var (
		leads    []domain.Lead
		tasks    []domain.Task
		txns     []domain.Transaction
		accounts []domain.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leads, err = s.leadRepo.ListLeads(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.taskRepo.ListTasks(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		txns, err = s.txnRepo.ListTransactionsInRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = s.accountRepo.ListAccounts(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to gather business snapshot")
		return nil, err
	}

	data := composeBusinessData(leads, tasks, txns, accounts, now)
	return &data, nil
}

func composeBusinessData(leads []domain.Lead, tasks []domain.Task, txns []domain.Transaction, accounts []domain.Account, now time.Time) domain.BusinessData {
	var data domain.BusinessData

	data.Leads.ByStage = make(map[domain.LeadStage]int, len(domain.LeadStages))
	data.Leads.PipelineValue = decimal.Zero
	for _, l := range leads {
		data.Leads.Total++
		data.Leads.ByStage[l.Stage]++
		if l.Stage == domain.StageClosedWon {
			data.Leads.ClosedWon++
		}
		if l.Stage.IsOpen() {
			data.Leads.PipelineValue = data.Leads.PipelineValue.Add(l.Value)
		}
	}
	data.Leads.ConversionRate = finance.Percentage(decimal.NewFromInt(int64(data.Leads.ClosedWon)), decimal.NewFromInt(int64(data.Leads.Total)))

	for _, t := range tasks {
		data.Tasks.Total++
		switch t.Status {
		case domain.TaskDone:
			data.Tasks.Done++
		case domain.TaskInProgress:
			data.Tasks.InProgress++
		default:
			data.Tasks.Todo++
		}
		if t.IsOverdue(now) {
			data.Tasks.Overdue++
		}
	}
	data.Tasks.CompletionRate = finance.Percentage(decimal.NewFromInt(int64(data.Tasks.Done)), decimal.NewFromInt(int64(data.Tasks.Total)))

	summary := finance.SummarizeMonth(txns, accounts, now.Year(), now.Month())
	data.Finance = domain.FinanceMetrics{
		Revenue:      summary.MonthlyIncome,
		Expenses:     summary.MonthlyExpenses,
		Profit:       summary.MonthlyBalance,
		Margin:       finance.Percentage(summary.MonthlyBalance, summary.MonthlyIncome),
		TotalBalance: summary.TotalBalance,
	}
	return data
}
