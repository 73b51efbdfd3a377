package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IntegrationService stores per-kind integration configs and runs their connectivity tests.
type IntegrationService struct {
	BaseService
	repo     portsrepo.IntegrationRepositoryFacade
	probers  map[domain.IntegrationKind]ports.ConnectionProber
	validate *validator.Validate
}

// NewIntegrationService wires the repository and one prober per supported kind.
func NewIntegrationService(repo portsrepo.IntegrationRepositoryFacade, probers ...ports.ConnectionProber) *IntegrationService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	svc := &IntegrationService{
		repo:     repo,
		probers:  make(map[domain.IntegrationKind]ports.ConnectionProber, len(probers)),
		validate: v,
	}
	for _, p := range probers {
		svc.probers[p.Kind()] = p
	}
	return svc
}

var _ portssvc.IntegrationSvc = (*IntegrationService)(nil)

// ValidateConfig checks the variant's field rules and returns a readable message.
func (s *IntegrationService) ValidateConfig(cfg domain.IntegrationConfig) error {
	err := s.validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " é obrigatório"
	case "email":
		return fe.Field() + " deve ser um e-mail válido"
	case "hostname":
		return fe.Field() + " deve ser um host válido"
	case "numeric":
		return fe.Field() + " deve conter apenas números"
	case "startswith":
		return fmt.Sprintf("%s deve começar com %q", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s fora do intervalo permitido (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", fe.Field(), fe.Tag())
	}
}

func (s *IntegrationService) decode(kind domain.IntegrationKind, raw []byte) (domain.IntegrationConfig, error) {
	cfg, err := domain.DecodeIntegrationConfig(kind, raw)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *IntegrationService) ListIntegrations(ctx context.Context, userID string) ([]domain.Integration, error) {
	return s.repo.ListIntegrations(ctx, userID)
}

// SaveIntegration validates and upserts the config of kind. isActive defaults to true.
func (s *IntegrationService) SaveIntegration(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.SaveIntegrationRequest) (*domain.Integration, error) {
	cfg, err := s.decode(kind, req.Config)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	integration := domain.Integration{
		IntegrationID: uuid.NewString(),
		UserID:        userID,
		Kind:          kind,
		IsActive:      true,
		Config:        cfg,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.IsActive != nil {
		integration.IsActive = *req.IsActive
	}

	existing, err := s.repo.FindIntegrationByKind(ctx, userID, kind)
	switch {
	case err == nil:
		integration.IntegrationID = existing.IntegrationID
		integration.CreatedAt = existing.CreatedAt
		integration.CreatedBy = existing.CreatedBy
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogWarn(ctx, "Could not read existing integration, upserting anyway", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}

	if err := s.repo.UpsertIntegration(ctx, integration); err != nil {
		s.LogError(ctx, err, "Failed to save integration", slog.String("kind", string(kind)))
		return nil, err
	}
	s.LogInfo(ctx, "Integration saved", slog.String("kind", string(kind)), slog.Bool("active", integration.IsActive))
	return &integration, nil
}

func (s *IntegrationService) DeleteIntegration(ctx context.Context, userID string, kind domain.IntegrationKind) error {
	if err := s.repo.DeleteIntegration(ctx, userID, kind); err != nil {
		return err
	}
	s.LogInfo(ctx, "Integration deleted", slog.String("kind", string(kind)))
	return nil
}

// TestConnection probes the config in req, or the stored config when req has none.
// Invalid configs come back as an unsuccessful result, not an error.
func (s *IntegrationService) TestConnection(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.TestIntegrationRequest) (domain.ConnectionTestResult, error) {
	prober, ok := s.probers[kind]
	if !ok {
		return domain.ConnectionTestResult{}, fmt.Errorf("%w: unknown integration kind '%s'", apperrors.ErrValidation, kind)
	}

	var cfg domain.IntegrationConfig
	if len(req.Config) == 0 || string(req.Config) == "null" {
		stored, err := s.repo.FindIntegrationByKind(ctx, userID, kind)
		if err != nil {
			return domain.ConnectionTestResult{}, err
		}
		cfg = stored.Config
		if err := s.ValidateConfig(cfg); err != nil {
			return failedResult(err), nil
		}
	} else {
		decoded, err := s.decode(kind, req.Config)
		if err != nil {
			return failedResult(err), nil
		}
		cfg = decoded
	}

	result := prober.Probe(ctx, cfg)
	s.LogInfo(ctx, "Integration connection tested", slog.String("kind", string(kind)), slog.Bool("success", result.Success))
	return result, nil
}

func failedResult(err error) domain.ConnectionTestResult {
	msg := strings.TrimPrefix(err.Error(), apperrors.ErrValidation.Error()+": ")
	return domain.ConnectionTestResult{Success: false, Message: msg}
}
