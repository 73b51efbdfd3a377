package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memRepo is an in-memory stand-in for every repository the services use.
// Set failWith to make the read paths fail.
type memRepo struct {
	mu           sync.Mutex
	txns         map[string]domain.Transaction
	accounts     map[string]domain.Account
	categories   map[string]domain.Category
	leads        map[string]domain.Lead
	tasks        map[string]domain.Task
	insights     []domain.Insight
	integrations map[domain.IntegrationKind]domain.Integration
	locked       []string
	findsInTx    int
	failWith     error
}

func newMemRepo() *memRepo {
	return &memRepo{
		txns:         map[string]domain.Transaction{},
		accounts:     map[string]domain.Account{},
		categories:   map[string]domain.Category{},
		leads:        map[string]domain.Lead{},
		tasks:        map[string]domain.Task{},
		integrations: map[domain.IntegrationKind]domain.Integration{},
	}
}

var (
	_ portsrepo.TransactionManager          = (*memRepo)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memRepo)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*memRepo)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*memRepo)(nil)
	_ portsrepo.LeadRepositoryFacade        = (*memRepo)(nil)
	_ portsrepo.TaskRepositoryFacade        = (*memRepo)(nil)
	_ portsrepo.InsightRepositoryFacade     = (*memRepo)(nil)
	_ portsrepo.IntegrationRepositoryFacade = (*memRepo)(nil)
)

type inTxKey struct{}

func (r *memRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
}

// --- transactions ---

func (r *memRepo) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Value(inTxKey{}) != nil {
		r.findsInTx++
	}
	t, ok := r.txns[transactionID]
	if !ok || t.UserID != userID {
		return nil, notFound("transaction", transactionID)
	}
	return &t, nil
}

func (r *memRepo) ListTransactions(_ context.Context, userID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == userID && (filter.AccountID == "" || t.AccountID == filter.AccountID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil, nil
}

func (r *memRepo) ListTransactionsInRange(_ context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == userID && !t.Date.Before(from) && t.Date.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) ListTransactionsByAccount(_ context.Context, userID, accountID string) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == userID && t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns[txn.TransactionID] = txn
	return nil
}

func (r *memRepo) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[txn.TransactionID]; !ok {
		return notFound("transaction", txn.TransactionID)
	}
	r.txns[txn.TransactionID] = txn
	return nil
}

func (r *memRepo) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txns[transactionID]; !ok || t.UserID != userID {
		return notFound("transaction", transactionID)
	}
	delete(r.txns, transactionID)
	return nil
}

// --- accounts ---

func (r *memRepo) FindAccountByID(_ context.Context, userID, accountID string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, notFound("account", accountID)
	}
	return &a, nil
}

func (r *memRepo) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.AccountID] = account
	return nil
}

func (r *memRepo) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.SaveAccount(ctx, account)
}

func (r *memRepo) DeleteAccount(_ context.Context, userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, accountID)
	return nil
}

func (r *memRepo) LockAccount(_ context.Context, userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; !ok || a.UserID != userID {
		return notFound("account", accountID)
	}
	r.locked = append(r.locked, accountID)
	return nil
}

func (r *memRepo) SetAccountBalance(_ context.Context, userID, accountID string, balance decimal.Decimal, updatedBy string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok || a.UserID != userID {
		return notFound("account", accountID)
	}
	a.Balance = balance
	a.LastUpdatedAt, a.LastUpdatedBy = now, updatedBy
	r.accounts[accountID] = a
	return nil
}

func (r *memRepo) AdjustAccountBalances(_ context.Context, userID string, deltas map[string]decimal.Decimal, updatedBy string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range deltas {
		a, ok := r.accounts[id]
		if !ok || a.UserID != userID {
			return notFound("account", id)
		}
		a.Balance = a.Balance.Add(d)
		a.LastUpdatedAt, a.LastUpdatedBy = now, updatedBy
		r.accounts[id] = a
	}
	return nil
}

// --- categories ---

func (r *memRepo) FindCategoryByID(_ context.Context, userID, categoryID string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, notFound("category", categoryID)
	}
	return &c, nil
}

func (r *memRepo) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) SaveCategories(_ context.Context, categories []domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range categories {
		r.categories[c.CategoryID] = c
	}
	return nil
}

func (r *memRepo) UpdateCategory(ctx context.Context, category domain.Category) error {
	return r.SaveCategories(ctx, []domain.Category{category})
}

func (r *memRepo) DeleteCategory(_ context.Context, userID, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, categoryID)
	return nil
}

// --- CRM ---

func (r *memRepo) SaveLead(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.LeadID] = lead
	return nil
}

func (r *memRepo) UpdateLead(ctx context.Context, lead domain.Lead) error { return r.SaveLead(ctx, lead) }

func (r *memRepo) DeleteLead(_ context.Context, userID, leadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, leadID)
	return nil
}

func (r *memRepo) FindLeadByID(_ context.Context, userID, leadID string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[leadID]
	if !ok || l.UserID != userID {
		return nil, notFound("lead", leadID)
	}
	return &l, nil
}

func (r *memRepo) ListLeads(_ context.Context, userID string) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Lead
	for _, l := range r.leads {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memRepo) SaveTask(_ context.Context, task domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.TaskID] = task
	return nil
}

func (r *memRepo) UpdateTask(ctx context.Context, task domain.Task) error { return r.SaveTask(ctx, task) }

func (r *memRepo) DeleteTask(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, taskID)
	return nil
}

func (r *memRepo) FindTaskByID(_ context.Context, userID, taskID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, notFound("task", taskID)
	}
	return &t, nil
}

func (r *memRepo) ListTasks(_ context.Context, userID string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memRepo) SaveInsight(_ context.Context, insight domain.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insights = append(r.insights, insight)
	return nil
}

func (r *memRepo) ListInsights(_ context.Context, userID string, limit int) ([]domain.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Insight
	for _, in := range r.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) MarkInsightRead(_ context.Context, userID, insightID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.insights {
		if r.insights[i].InsightID == insightID && r.insights[i].UserID == userID {
			r.insights[i].IsRead = true
			return nil
		}
	}
	return notFound("insight", insightID)
}

func (r *memRepo) DeleteInsight(_ context.Context, userID, insightID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.insights {
		if r.insights[i].InsightID == insightID && r.insights[i].UserID == userID {
			r.insights = append(r.insights[:i], r.insights[i+1:]...)
			return nil
		}
	}
	return notFound("insight", insightID)
}

// --- integrations (single user) ---

func (r *memRepo) UpsertIntegration(_ context.Context, integration domain.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.integrations[integration.Kind] = integration
	return nil
}

func (r *memRepo) FindIntegrationByKind(_ context.Context, userID string, kind domain.IntegrationKind) (*domain.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.integrations[kind]
	if !ok || in.UserID != userID {
		return nil, notFound("integration", string(kind))
	}
	return &in, nil
}

func (r *memRepo) ListIntegrations(_ context.Context, userID string) ([]domain.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Integration
	for _, in := range r.integrations {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteIntegration(_ context.Context, userID string, kind domain.IntegrationKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.integrations[kind]; !ok {
		return notFound("integration", string(kind))
	}
	delete(r.integrations, kind)
	return nil
}

// --- gateway mocks ---

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, apiKey string, req ports.ChatRequest) (string, error) {
	args := m.Called(ctx, apiKey, req)
	return args.String(0), args.Error(1)
}

type MockProber struct {
	mock.Mock
	kind domain.IntegrationKind
}

func (m *MockProber) Kind() domain.IntegrationKind { return m.kind }

func (m *MockProber) Probe(ctx context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult {
	return m.Called(ctx, cfg).Get(0).(domain.ConnectionTestResult)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransactionChanged(ctx context.Context, event domain.TransactionChangedEvent) error {
	return m.Called(ctx, event).Error(0)
}
