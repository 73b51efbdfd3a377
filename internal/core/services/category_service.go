package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/google/uuid"
)

const defaultCategoryColor = "#6B7280"

type CategoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

func NewCategoryService(repo portsrepo.CategoryRepositoryFacade) *CategoryService {
	return &CategoryService{categoryRepo: repo}
}

var _ portssvc.CategorySvcFacade = (*CategoryService)(nil)

func (s *CategoryService) newCategory(userID, name string, typ domain.TransactionType, color string) domain.Category {
	now := s.Now()
	if color == "" {
		color = defaultCategoryColor
	}
	return domain.Category{
		CategoryID:  uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Type:        typ,
		Color:       color,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	cat := s.newCategory(userID, req.Name, req.Type, req.Color)
	if err := s.categoryRepo.SaveCategories(ctx, []domain.Category{cat}); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", cat.Name))
		return nil, err
	}
	return &cat, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx, userID)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	cat, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cat.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	cat.LastUpdatedAt = s.Now()
	cat.LastUpdatedBy = userID
	if err := s.categoryRepo.UpdateCategory(ctx, *cat); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.categoryRepo.DeleteCategory(ctx, userID, categoryID)
}

// SeedDefaultCategories is idempotent: a user that already has categories gets them back unchanged.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	existing, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	seeded := make([]domain.Category, 0, len(domain.DefaultCategories))
	for _, def := range domain.DefaultCategories {
		seeded = append(seeded, s.newCategory(userID, def.Name, def.Type, def.Color))
	}
	if err := s.categoryRepo.SaveCategories(ctx, seeded); err != nil {
		s.LogError(ctx, err, "Failed to seed default categories")
		return nil, err
	}
	s.LogInfo(ctx, "Default categories seeded", slog.Int("count", len(seeded)))
	return seeded, nil
}
