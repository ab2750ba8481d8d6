package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/pkg/errors"
)

func TestGraphProductOwnershipGate(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	product := repo.addProduct("alice", entity.ProductStatusActive)

	_, err := uc.Update(ctx, product.ID, "bob", map[string]interface{}{"title": "Stolen"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	err = uc.Delete(ctx, product.ID, "bob")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.MarkAsSold(ctx, product.ID, "bob")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.ToggleStatus(ctx, product.ID, "bob")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

// A product with no CREATED edge has no owner, so nobody may modify it.
func TestGraphProductMissingOwnerEdge(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	orphan := repo.addProduct("", entity.ProductStatusActive)

	_, err := uc.Update(ctx, orphan.ID, "alice", map[string]interface{}{"title": "Claimed"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestGraphProductToggleStatus(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	product := repo.addProduct("alice", entity.ProductStatusActive)

	toggled, err := uc.ToggleStatus(ctx, product.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusPaused, toggled.Status)

	toggled, err = uc.ToggleStatus(ctx, product.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusActive, toggled.Status)
}

func TestGraphProductToggleLeavesSoldAlone(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	product := repo.addProduct("alice", entity.ProductStatusSold)

	toggled, err := uc.ToggleStatus(ctx, product.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusSold, toggled.Status)
}

func TestGraphProductLifecycle(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, "alice", GraphProductCreate{Title: "Bike", PriceAmount: 500})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusActive, created.Status)

	// Views move the counter regardless of who looks.
	_, err = uc.GetByID(ctx, created.ID, "bob")
	require.NoError(t, err)
	_, err = uc.GetByID(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), repo.products[created.ID].ViewCount)

	// Favorites are idempotent per user.
	require.NoError(t, uc.Favorite(ctx, created.ID, "bob"))
	require.NoError(t, uc.Favorite(ctx, created.ID, "bob"))
	assert.Equal(t, int64(1), repo.products[created.ID].FavoriteCount)

	sold, err := uc.MarkAsSold(ctx, created.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusSold, sold.Status)

	require.NoError(t, uc.Delete(ctx, created.ID, "alice"))
	_, err = uc.GetByID(ctx, created.ID, "")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestGraphProductRecommendations(t *testing.T) {
	repo := newFakeGraphProductRepo()
	uc := NewGraphProductUseCase(repo)
	ctx := context.Background()

	// Unknown target reads as 404, not an empty list.
	_, err := uc.Recommendations(ctx, "missing", 5)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	product := repo.addProduct("alice", entity.ProductStatusActive)
	repo.recs = []*entity.RecommendedProduct{
		{GraphProduct: entity.GraphProduct{ID: "other"}, Score: 3},
	}

	recs, err := uc.Recommendations(ctx, product.ID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(3), recs[0].Score)
	// Zero limit falls back to the default.
	assert.Equal(t, defaultRecommendationLimit, repo.lastLimit)
}
