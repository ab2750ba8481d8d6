package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
	"fleamarkt/pkg/logger"
)

// GraphProductUseCase drives the graph-backed product operations.
// Ownership is resolved by traversing the inbound CREATED edge; a product
// with no owner edge cannot be modified by anyone.
type GraphProductUseCase struct {
	productRepo repository.GraphProductRepository
}

func NewGraphProductUseCase(productRepo repository.GraphProductRepository) *GraphProductUseCase {
	return &GraphProductUseCase{productRepo: productRepo}
}

type GraphProductCreate struct {
	Title       string
	Description string
	PriceAmount float64
}

func (uc *GraphProductUseCase) Create(ctx context.Context, username string, input GraphProductCreate) (*entity.GraphProduct, error) {
	return uc.productRepo.Create(ctx, username, &entity.GraphProduct{
		Title:       input.Title,
		Description: input.Description,
		PriceAmount: input.PriceAmount,
	})
}

// GetByID returns the product and records the view. The viewer username
// may be empty for anonymous requests; those still move the counter but
// leave no per-viewer edge.
func (uc *GraphProductUseCase) GetByID(ctx context.Context, id, viewerUsername string) (*entity.GraphProduct, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.TrackView(ctx, id, viewerUsername); err != nil {
		logger.Warn("Failed to track view for product %s: %v", id, err)
	}
	return product, nil
}

func (uc *GraphProductUseCase) List(ctx context.Context, skip, limit int, status string) ([]*entity.GraphProduct, error) {
	return uc.productRepo.List(ctx, skip, limit, status)
}

func (uc *GraphProductUseCase) Popular(ctx context.Context, limit int) ([]*entity.GraphProduct, error) {
	return uc.productRepo.Popular(ctx, limit)
}

func (uc *GraphProductUseCase) Update(ctx context.Context, id, username string, fields map[string]interface{}) (*entity.GraphProduct, error) {
	if err := uc.authorize(ctx, id, username); err != nil {
		return nil, err
	}
	return uc.productRepo.Update(ctx, id, fields)
}

func (uc *GraphProductUseCase) Delete(ctx context.Context, id, username string) error {
	if err := uc.authorize(ctx, id, username); err != nil {
		return err
	}
	deleted, err := uc.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Product", nil)
	}
	return nil
}

func (uc *GraphProductUseCase) MarkAsSold(ctx context.Context, id, username string) (*entity.GraphProduct, error) {
	if err := uc.authorize(ctx, id, username); err != nil {
		return nil, err
	}
	return uc.productRepo.SetStatus(ctx, id, entity.ProductStatusSold)
}

// ToggleStatus flips active to paused and back. Sold is terminal for this
// operation: a sold product is returned unchanged rather than revived.
func (uc *GraphProductUseCase) ToggleStatus(ctx context.Context, id, username string) (*entity.GraphProduct, error) {
	if err := uc.authorize(ctx, id, username); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch product.Status {
	case entity.ProductStatusActive:
		return uc.productRepo.SetStatus(ctx, id, entity.ProductStatusPaused)
	case entity.ProductStatusPaused:
		return uc.productRepo.SetStatus(ctx, id, entity.ProductStatusActive)
	default:
		return product, nil
	}
}

// Favorite merges a FAVORITED edge. Repeat favorites are no-ops and leave
// the counter untouched.
func (uc *GraphProductUseCase) Favorite(ctx context.Context, id, username string) error {
	return uc.productRepo.AddFavorite(ctx, username, id)
}

// TrackView records an explicit view event for the caller, or an
// anonymous one when the username is empty.
func (uc *GraphProductUseCase) TrackView(ctx context.Context, id, username string) error {
	return uc.productRepo.TrackView(ctx, id, username)
}

// Recommendations verifies the target product exists before scoring
// candidates, so an unknown id reads as 404 rather than an empty list.
func (uc *GraphProductUseCase) Recommendations(ctx context.Context, id string, limit int) ([]*entity.RecommendedProduct, error) {
	if _, err := uc.productRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	return uc.productRepo.Recommendations(ctx, id, limit)
}

func (uc *GraphProductUseCase) authorize(ctx context.Context, productID, username string) error {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}
	owner, err := uc.productRepo.SellerUsername(ctx, productID)
	if err != nil {
		return err
	}
	if owner == "" || owner != username {
		return errors.Forbidden("You don't have permission to modify this product", nil)
	}
	return nil
}
