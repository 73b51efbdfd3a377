package repositories

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

type CategoryReader interface {
	FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

type CategoryWriter interface {
	SaveCategories(ctx context.Context, categories []domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
