package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/google/uuid"
)

const (
	// DefaultSessionID is used when the client does not name a conversation.
	DefaultSessionID = "default"

	// historyTurns bounds how much of the transcript is sent to the model.
	historyTurns = 10

	insightTitleLen = 80
)

// DefaultSystemPrompt is used when the session has no custom prompt.
const DefaultSystemPrompt = "Você é um consultor de negócios experiente que ajuda donos de pequenas empresas. " +
	"Responda em português do Brasil, de forma prática e objetiva, usando os dados do negócio fornecidos."

var depthInstructions = map[domain.AnalysisDepth]string{
	domain.DepthBasic:    "Responda de forma breve, em poucos tópicos.",
	domain.DepthDetailed: "Explique os números relevantes e sugira próximos passos.",
	domain.DepthAdvanced: "Faça uma análise aprofundada, com riscos, oportunidades e um plano de ação priorizado.",
}

var defaultModels = map[domain.IntegrationKind]string{
	domain.KindOpenAI: "gpt-4o-mini",
	domain.KindGemini: "gemini-2.0-flash",
}

// AdvisorService answers business questions with an LLM when a credential is
// available and with local rules otherwise.
type AdvisorService struct {
	BaseService
	sessions        portsrepo.SessionStore
	leadRepo        portsrepo.LeadRepositoryFacade
	taskRepo        portsrepo.TaskRepositoryFacade
	txnRepo         portsrepo.TransactionReader
	accountRepo     portsrepo.AccountReader
	insightRepo     portsrepo.InsightRepositoryFacade
	integrationRepo portsrepo.IntegrationRepositoryFacade
	completers      map[domain.IntegrationKind]ports.ChatCompleter
	llmTimeout      time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}

	// writeMu serialises load-modify-save of stored sessions.
	writeMu sync.Mutex
}

// AdvisorServiceOption is a functional option for configuring the advisor service
type AdvisorServiceOption func(*AdvisorService)

// WithChatCompleter registers the LLM client used for kind.
func WithChatCompleter(kind domain.IntegrationKind, c ports.ChatCompleter) AdvisorServiceOption {
	return func(s *AdvisorService) {
		s.completers[kind] = c
	}
}

// WithLLMTimeout bounds a single model call.
func WithLLMTimeout(d time.Duration) AdvisorServiceOption {
	return func(s *AdvisorService) {
		s.llmTimeout = d
	}
}

// WithAdvisorClock overrides the service clock.
func WithAdvisorClock(now func() time.Time) AdvisorServiceOption {
	return func(s *AdvisorService) {
		s.now = now
	}
}

func NewAdvisorService(
	sessions portsrepo.SessionStore,
	leadRepo portsrepo.LeadRepositoryFacade,
	taskRepo portsrepo.TaskRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	accountRepo portsrepo.AccountReader,
	insightRepo portsrepo.InsightRepositoryFacade,
	integrationRepo portsrepo.IntegrationRepositoryFacade,
	options ...AdvisorServiceOption,
) *AdvisorService {
	svc := &AdvisorService{
		sessions:        sessions,
		leadRepo:        leadRepo,
		taskRepo:        taskRepo,
		txnRepo:         txnRepo,
		accountRepo:     accountRepo,
		insightRepo:     insightRepo,
		integrationRepo: integrationRepo,
		completers:      make(map[domain.IntegrationKind]ports.ChatCompleter),
		llmTimeout:      60 * time.Second,
		inflight:        make(map[string]struct{}),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AdvisorSvc = (*AdvisorService)(nil)

func sessionKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}

// acquire marks the conversation busy. It fails when a send is already outstanding.
func (s *AdvisorService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *AdvisorService) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

// loadOrNew returns the stored session or a fresh one with default settings.
func (s *AdvisorService) loadOrNew(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	session, err := s.sessions.Load(ctx, userID, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load advisor session", slog.String("session_id", sessionID))
		return nil, err
	}
	return &domain.ChatSession{
		SessionID: sessionID,
		UserID:    userID,
		Settings:  domain.DefaultAdvisorSettings(),
		Messages:  []domain.ChatMessage{},
		UpdatedAt: s.Now(),
	}, nil
}

func (s *AdvisorService) GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	return s.loadOrNew(ctx, userID, sessionID)
}

// UpdateSettings applies the non-nil fields of req and persists the session.
func (s *AdvisorService) UpdateSettings(ctx context.Context, userID, sessionID string, req dto.UpdateAdvisorSettingsRequest) (*domain.ChatSession, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	session, err := s.loadOrNew(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	settings := session.Settings
	if req.Provider != nil {
		if !req.Provider.IsAI() {
			return nil, fmt.Errorf("%w: provider must be openai or gemini", apperrors.ErrValidation)
		}
		settings.Provider = *req.Provider
	}
	if req.Model != nil {
		settings.Model = strings.TrimSpace(*req.Model)
	}
	if req.APIKey != nil {
		settings.APIKey = strings.TrimSpace(*req.APIKey)
	}
	if req.SystemPrompt != nil {
		settings.SystemPrompt = *req.SystemPrompt
	}
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 2 {
			return nil, fmt.Errorf("%w: temperature must be between 0 and 2", apperrors.ErrValidation)
		}
		settings.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		if *req.MaxTokens < 1 || *req.MaxTokens > 4000 {
			return nil, fmt.Errorf("%w: maxTokens must be between 1 and 4000", apperrors.ErrValidation)
		}
		settings.MaxTokens = *req.MaxTokens
	}
	if req.AnalysisDepth != nil {
		if _, ok := depthInstructions[*req.AnalysisDepth]; !ok {
			return nil, fmt.Errorf("%w: analysisDepth must be basic, detailed or advanced", apperrors.ErrValidation)
		}
		settings.AnalysisDepth = *req.AnalysisDepth
	}

	session.Settings = settings
	session.UpdatedAt = s.Now()
	if err := s.sessions.Save(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to save advisor settings", slog.String("session_id", session.SessionID))
		return nil, err
	}
	return session, nil
}

// ClearChat removes the stored session. Settings that differ from the
// defaults are written back without the transcript.
func (s *AdvisorService) ClearChat(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	session, err := s.loadOrNew(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Clear(ctx, userID, session.SessionID); err != nil {
		s.LogError(ctx, err, "Failed to clear advisor chat", slog.String("session_id", session.SessionID))
		return nil, err
	}
	session.Messages = []domain.ChatMessage{}
	session.UpdatedAt = s.Now()
	if session.Settings != domain.DefaultAdvisorSettings() {
		if err := s.sessions.Save(ctx, *session); err != nil {
			s.LogError(ctx, err, "Failed to keep advisor settings", slog.String("session_id", session.SessionID))
			return nil, err
		}
	}
	s.LogInfo(ctx, "Advisor chat cleared", slog.String("session_id", session.SessionID))
	return session, nil
}

// credential is a resolved LLM provider and key.
type credential struct {
	kind   domain.IntegrationKind
	apiKey string
	model  string
}

// resolveCredential prefers an active stored AI integration over the key in
// the session settings. A nil result means the fallback responder answers.
func (s *AdvisorService) resolveCredential(ctx context.Context, userID string, settings domain.AdvisorSettings) *credential {
	kinds := []domain.IntegrationKind{domain.KindOpenAI, domain.KindGemini}
	if settings.Provider == domain.KindGemini {
		kinds = []domain.IntegrationKind{domain.KindGemini, domain.KindOpenAI}
	}
	for _, kind := range kinds {
		if _, ok := s.completers[kind]; !ok {
			continue
		}
		integration, err := s.integrationRepo.FindIntegrationByKind(ctx, userID, kind)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogWarn(ctx, "Failed to read AI integration", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			}
			continue
		}
		if !integration.IsActive {
			continue
		}
		var key, model string
		switch c := integration.Config.(type) {
		case domain.OpenAIConfig:
			key, model = c.APIKey, c.Model
		case domain.GeminiConfig:
			key, model = c.APIKey, c.Model
		}
		if key == "" {
			continue
		}
		if model == "" && settings.Provider == kind {
			model = settings.Model
		}
		if model == "" {
			model = defaultModels[kind]
		}
		return &credential{kind: kind, apiKey: key, model: model}
	}

	if settings.APIKey == "" {
		return nil
	}
	kind := settings.Provider
	if !kind.IsAI() {
		kind = domain.KindOpenAI
	}
	if _, ok := s.completers[kind]; !ok {
		return nil
	}
	model := settings.Model
	if model == "" {
		model = defaultModels[kind]
	}
	return &credential{kind: kind, apiKey: settings.APIKey, model: model}
}

func systemPrompt(settings domain.AdvisorSettings, data domain.BusinessData) string {
	prompt := strings.TrimSpace(settings.SystemPrompt)
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	if instr, ok := depthInstructions[settings.AnalysisDepth]; ok {
		prompt += "\n" + instr
	}
	return prompt + "\n\n" + businessContext(data)
}

// recentHistory returns the last n user/assistant turns.
func recentHistory(messages []domain.ChatMessage, n int) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, n)
	for _, m := range messages {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			out = append(out, m)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Ask answers one question. Only one send per conversation may be in flight;
// a concurrent send fails with ErrConflict instead of queueing.
func (s *AdvisorService) Ask(ctx context.Context, userID, sessionID, question string) (*domain.ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", apperrors.ErrValidation)
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	key := sessionKey(userID, sessionID)
	if !s.acquire(key) {
		return nil, fmt.Errorf("%w: a question is already being answered in this conversation", apperrors.ErrConflict)
	}
	defer s.release(key)

	session, err := s.loadOrNew(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	userTurn := domain.ChatMessage{Role: domain.RoleUser, Content: question, Timestamp: s.Now()}

	content, source := "", domain.SourceFallback
	if cred := s.resolveCredential(ctx, userID, session.Settings); cred != nil {
		answer, err := s.complete(ctx, cred, session, *data, userTurn)
		if err != nil {
			s.LogWarn(ctx, "LLM call failed, using fallback", slog.String("provider", string(cred.kind)), slog.String("error", err.Error()))
		} else if strings.TrimSpace(answer) != "" {
			content, source = answer, domain.SourceAI
		}
	}
	if source == domain.SourceFallback {
		content = FallbackReply(question, *data)
	}

	reply := domain.ChatReply{
		Message: domain.ChatMessage{Role: domain.RoleAssistant, Content: content, Timestamp: s.Now()},
		Source:  source,
		Data:    *data,
	}

	if source == domain.SourceAI {
		s.saveInsight(ctx, userID, question, content)
	}

	if err := s.appendTurns(ctx, userID, sessionID, userTurn, reply.Message); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Advisor question answered", slog.String("session_id", sessionID), slog.String("source", string(source)))
	return &reply, nil
}

// appendTurns adds turns to the session as it is stored now, so settings
// changed or a chat cleared while the model was answering are kept.
func (s *AdvisorService) appendTurns(ctx context.Context, userID, sessionID string, turns ...domain.ChatMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	session, err := s.loadOrNew(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	session.Messages = append(session.Messages, turns...)
	session.UpdatedAt = s.Now()
	if err := s.sessions.Save(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to save advisor session", slog.String("session_id", sessionID))
		return err
	}
	return nil
}

func (s *AdvisorService) complete(ctx context.Context, cred *credential, session *domain.ChatSession, data domain.BusinessData, userTurn domain.ChatMessage) (string, error) {
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}
	messages := append(recentHistory(session.Messages, historyTurns), userTurn)
	return s.completers[cred.kind].Complete(ctx, cred.apiKey, ports.ChatRequest{
		Model:        cred.model,
		SystemPrompt: systemPrompt(session.Settings, data),
		Messages:     messages,
		Temperature:  session.Settings.Temperature,
		MaxTokens:    session.Settings.MaxTokens,
	})
}

// saveInsight records an AI answer. Failures are logged and do not fail the reply.
func (s *AdvisorService) saveInsight(ctx context.Context, userID, question, answer string) {
	title := question
	if r := []rune(title); len(r) > insightTitleLen {
		title = string(r[:insightTitleLen-1]) + "…"
	}
	insight := domain.Insight{
		InsightID: uuid.NewString(),
		UserID:    userID,
		Type:      domain.InsightAIChat,
		Title:     title,
		Content:   answer,
		Priority:  domain.PriorityMedium,
		CreatedAt: s.Now(),
	}
	if err := s.insightRepo.SaveInsight(ctx, insight); err != nil {
		s.LogWarn(ctx, "Failed to save AI insight", slog.String("error", err.Error()))
	}
}
