package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultCategories_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := services.NewCategoryService(repo)

	seeded, err := svc.SeedDefaultCategories(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, seeded, len(domain.DefaultCategories))

	again, err := svc.SeedDefaultCategories(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, again, len(domain.DefaultCategories))
	assert.Len(t, repo.categories, len(domain.DefaultCategories))

	ids := map[string]bool{}
	for _, c := range seeded {
		ids[c.CategoryID] = true
	}
	for _, c := range again {
		assert.True(t, ids[c.CategoryID], c.Name)
	}
}

func TestSeedDefaultCategories_SkipsUserWithCategories(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCategoryService(newMemRepo())

	_, err := svc.CreateCategory(ctx, testUser, dto.CreateCategoryRequest{Name: " Consultoria ", Type: domain.Income})
	require.NoError(t, err)

	got, err := svc.SeedDefaultCategories(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Consultoria", got[0].Name)
	assert.Equal(t, "#6B7280", got[0].Color)
}
