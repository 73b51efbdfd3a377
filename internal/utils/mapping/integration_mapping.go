package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/models"
)

// Sealer is the subset of crypto.Sealer the integration mapping needs.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// ToModelIntegration serializes and seals the config variant.
func ToModelIntegration(d domain.Integration, sealer Sealer) (models.Integration, error) {
	raw, err := json.Marshal(d.Config)
	if err != nil {
		return models.Integration{}, fmt.Errorf("failed to marshal %s config: %w", d.Kind, err)
	}
	sealed, err := sealer.Seal(raw)
	if err != nil {
		return models.Integration{}, fmt.Errorf("failed to seal %s config: %w", d.Kind, err)
	}
	return models.Integration{
		IntegrationID: d.IntegrationID,
		UserID:        d.UserID,
		Kind:          string(d.Kind),
		IsActive:      d.IsActive,
		SealedConfig:  sealed,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainIntegration opens the sealed config and decodes the variant for the row's kind.
func ToDomainIntegration(m models.Integration, sealer Sealer) (domain.Integration, error) {
	raw, err := sealer.Open(m.SealedConfig)
	if err != nil {
		return domain.Integration{}, fmt.Errorf("failed to open config of integration %s: %w", m.IntegrationID, err)
	}
	kind := domain.IntegrationKind(m.Kind)
	cfg, err := domain.DecodeIntegrationConfig(kind, raw)
	if err != nil {
		return domain.Integration{}, err
	}
	return domain.Integration{
		IntegrationID: m.IntegrationID,
		UserID:        m.UserID,
		Kind:          kind,
		IsActive:      m.IsActive,
		Config:        cfg,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
