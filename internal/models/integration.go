package models

// Integration is the row shape of the integrations table. The config JSON
// is stored sealed; see utils/crypto.
type Integration struct {
	IntegrationID string `db:"integration_id"`
	UserID        string `db:"user_id"`
	Kind          string `db:"kind"`
	IsActive      bool   `db:"is_active"`
	SealedConfig  []byte `db:"sealed_config"`
	AuditFields
}
