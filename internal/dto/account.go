package dto

import (
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name string             `json:"name" binding:"required,max=100"`
	Type domain.AccountType `json:"type" binding:"required,oneof=checking savings credit_card cash investment"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name     *string             `json:"name" binding:"omitempty,max=100"`
	Type     *domain.AccountType `json:"type" binding:"omitempty,oneof=checking savings credit_card cash investment"`
	IsActive *bool               `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Name          string             `json:"name"`
	Type          domain.AccountType `json:"type"`
	Balance       decimal.Decimal    `json:"balance"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		Type:          acc.Type,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
