package dto

import "github.com/SscSPs/bizos_backend/internal/core/domain"

type CreateCategoryRequest struct {
	Name  string                 `json:"name" binding:"required,max=60"`
	Type  domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Color string                 `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=60"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
}
