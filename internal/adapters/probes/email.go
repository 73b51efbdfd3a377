package probes

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
)

// knownSMTPPorts lists the ports each well-known provider accepts.
var knownSMTPPorts = map[string][]int{
	"smtp.gmail.com":        {587, 465},
	"smtp-mail.outlook.com": {587},
	"smtp.office365.com":    {587},
	"smtp.mail.yahoo.com":   {465, 587},
}

// EmailProber checks the SMTP settings shape. It never opens a connection.
type EmailProber struct{}

func NewEmailProber() EmailProber { return EmailProber{} }

var _ ports.ConnectionProber = EmailProber{}

func (EmailProber) Kind() domain.IntegrationKind { return domain.KindEmail }

func (EmailProber) Probe(_ context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult {
	email, ok := cfg.(domain.EmailConfig)
	if !ok {
		return failure("Configuração de e-mail inválida")
	}
	host := strings.ToLower(strings.TrimSpace(email.SMTPHost))
	if allowed, known := knownSMTPPorts[host]; known && !slices.Contains(allowed, email.SMTPPort) {
		return failure(fmt.Sprintf("Porta %d não é usada por %s (use %s)", email.SMTPPort, host, joinPorts(allowed)))
	}
	return success(fmt.Sprintf("Configuração SMTP válida para %s:%d", host, email.SMTPPort))
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, " ou ")
}
