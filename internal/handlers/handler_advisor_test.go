package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/handlers"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type AdvisorHandlerTestSuite struct {
	handlerSuite
	mockAdvisor     *MockAdvisorService
	mockIntegration *MockIntegrationService
}

func (s *AdvisorHandlerTestSuite) SetupTest() {
	s.setupRouter()
	s.mockAdvisor = new(MockAdvisorService)
	s.mockIntegration = new(MockIntegrationService)

	askLimit := middleware.RateLimit(limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 2}))
	handlers.RegisterAdvisorRoutes(s.v1, s.mockAdvisor, askLimit)
	handlers.RegisterIntegrationRoutes(s.v1, s.mockIntegration, nil)
}

func (s *AdvisorHandlerTestSuite) TestAsk_ReturnsReply() {
	reply := &domain.ChatReply{
		Message: domain.ChatMessage{Role: domain.RoleAssistant, Content: "✅ Produtividade da Equipe"},
		Source:  domain.SourceFallback,
	}
	s.mockAdvisor.On("Ask", mock.Anything, s.userID, "default", "Como está minha equipe?").Return(reply, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/advisor/sessions/default/ask", dto.AskAdvisorRequest{Question: "Como está minha equipe?"})

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var got domain.ChatReply
	s.decode(w, &got)
	s.Equal(domain.SourceFallback, got.Source)
	s.Contains(got.Message.Content, "Produtividade da Equipe")
}

func (s *AdvisorHandlerTestSuite) TestAsk_ConcurrentSendConflicts() {
	s.mockAdvisor.On("Ask", mock.Anything, s.userID, "default", "oi").
		Return(nil, fmt.Errorf("%w: a question is already being answered in this conversation", apperrors.ErrConflict)).Once()

	w := s.do(http.MethodPost, "/api/v1/advisor/sessions/default/ask", dto.AskAdvisorRequest{Question: "oi"})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *AdvisorHandlerTestSuite) TestAsk_EmptyBody() {
	w := s.do(http.MethodPost, "/api/v1/advisor/sessions/default/ask", `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.mockAdvisor.AssertNotCalled(s.T(), "Ask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AdvisorHandlerTestSuite) TestAsk_RateLimited() {
	s.mockAdvisor.On("Ask", mock.Anything, s.userID, "s1", "pergunta").
		Return(&domain.ChatReply{Source: domain.SourceFallback}, nil).Twice()

	for i := 0; i < 2; i++ {
		s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/advisor/sessions/s1/ask", dto.AskAdvisorRequest{Question: "pergunta"}).Code)
	}
	w := s.do(http.MethodPost, "/api/v1/advisor/sessions/s1/ask", dto.AskAdvisorRequest{Question: "pergunta"})

	s.Equal(http.StatusTooManyRequests, w.Code)
	s.mockAdvisor.AssertNumberOfCalls(s.T(), "Ask", 2)
}

func (s *AdvisorHandlerTestSuite) TestGetSession_MasksAPIKey() {
	settings := domain.DefaultAdvisorSettings()
	settings.APIKey = "sk-secret"
	s.mockAdvisor.On("GetSession", mock.Anything, s.userID, "default").
		Return(&domain.ChatSession{SessionID: "default", UserID: s.userID, Settings: settings}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/advisor/sessions/default", nil)

	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "sk-secret")
	var resp dto.AdvisorSessionResponse
	s.decode(w, &resp)
	s.True(resp.HasAPIKey)
	s.NotNil(resp.Messages)
}

func (s *AdvisorHandlerTestSuite) TestUpdateSettings_RejectsOutOfRange() {
	w := s.do(http.MethodPut, "/api/v1/advisor/sessions/default/settings", `{"temperature":3}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AdvisorHandlerTestSuite) TestClearChat() {
	s.mockAdvisor.On("ClearChat", mock.Anything, s.userID, "default").
		Return(&domain.ChatSession{SessionID: "default", Settings: domain.DefaultAdvisorSettings(), Messages: []domain.ChatMessage{}}, nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/advisor/sessions/default/messages", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.AdvisorSessionResponse
	s.decode(w, &resp)
	s.Empty(resp.Messages)
	s.Equal(domain.DepthDetailed, resp.Settings.AnalysisDepth)
}

func (s *AdvisorHandlerTestSuite) TestTestConnection_ReportsFailureInBody() {
	s.mockIntegration.On("TestConnection", mock.Anything, s.userID, domain.KindWhatsApp, mock.Anything).
		Return(domain.ConnectionTestResult{Success: false, Message: "Token de acesso inválido ou expirado"}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/integrations/whatsapp/test", `{"config":{"phoneNumberId":"123","accessToken":"x"}}`)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":false,"message":"Token de acesso inválido ou expirado"}`, w.Body.String())
}

func (s *AdvisorHandlerTestSuite) TestTestConnection_StoredConfigMissing() {
	s.mockIntegration.On("TestConnection", mock.Anything, s.userID, domain.KindEmail,
		mock.MatchedBy(func(r dto.TestIntegrationRequest) bool { return len(r.Config) == 0 }),
	).Return(domain.ConnectionTestResult{}, fmt.Errorf("%w: no email integration", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodPost, "/api/v1/integrations/email/test", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AdvisorHandlerTestSuite) TestIntegrations_UnknownKind() {
	w := s.do(http.MethodPut, "/api/v1/integrations/slack", `{"config":{}}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.mockIntegration.AssertNotCalled(s.T(), "SaveIntegration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AdvisorHandlerTestSuite) TestListIntegrations_MasksSecrets() {
	s.mockIntegration.On("ListIntegrations", mock.Anything, s.userID).Return([]domain.Integration{{
		IntegrationID: "int-1",
		Kind:          domain.KindOpenAI,
		IsActive:      true,
		Config:        domain.OpenAIConfig{APIKey: "sk-abcdef123456", Model: "gpt-4o-mini"},
	}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/integrations", nil)

	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "sk-abcdef123456")
	s.Contains(w.Body.String(), "****3456")
}

func TestAdvisorHandler(t *testing.T) {
	suite.Run(t, new(AdvisorHandlerTestSuite))
}
