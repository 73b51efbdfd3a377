// Package probes implements the connectivity test of each integration kind.
package probes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"golang.org/x/oauth2"
)

// DefaultGraphURL is the WhatsApp Business (Meta Graph) API base.
const DefaultGraphURL = "https://graph.facebook.com/v18.0"

// WhatsAppProber looks up the configured phone number on the Graph API.
type WhatsAppProber struct {
	graphURL string
	timeout  time.Duration
}

func NewWhatsAppProber(graphURL string, timeout time.Duration) *WhatsAppProber {
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	return &WhatsAppProber{graphURL: graphURL, timeout: timeout}
}

var _ ports.ConnectionProber = (*WhatsAppProber)(nil)

func (p *WhatsAppProber) Kind() domain.IntegrationKind { return domain.KindWhatsApp }

type phoneNumberInfo struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name"`
}

func (p *WhatsAppProber) Probe(ctx context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult {
	wa, ok := cfg.(domain.WhatsAppConfig)
	if !ok {
		return failure("Configuração do WhatsApp inválida")
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: wa.AccessToken, TokenType: "Bearer"}))
	endpoint := p.graphURL + "/" + url.PathEscape(wa.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failure("Não foi possível montar a requisição ao WhatsApp")
	}
	resp, err := client.Do(req)
	if err != nil {
		return failure("Não foi possível conectar à API do WhatsApp: " + err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var info phoneNumberInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err == nil && info.DisplayPhoneNumber != "" {
			return success(fmt.Sprintf("Conectado ao WhatsApp Business (%s %s)", info.VerifiedName, info.DisplayPhoneNumber))
		}
		return success("Conectado ao WhatsApp Business")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return failure("Token de acesso inválido ou expirado")
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return failure("ID do número de telefone não encontrado")
	default:
		return failure(fmt.Sprintf("Erro na API do WhatsApp (status %d)", resp.StatusCode))
	}
}

func success(msg string) domain.ConnectionTestResult {
	return domain.ConnectionTestResult{Success: true, Message: msg}
}

func failure(msg string) domain.ConnectionTestResult {
	return domain.ConnectionTestResult{Success: false, Message: msg}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
