package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
	"fleamarkt/pkg/logger"
)

const defaultRecommendationLimit = 10

// ProductUseCase drives the document-backed product operations. Ownership
// is decided by comparing the embedded seller snapshot id against the
// caller's stored user id.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (uc *ProductUseCase) Create(ctx context.Context, username string, input repository.ProductCreate) (*entity.Product, error) {
	seller, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.BadRequest("Authenticated user has no document-store record", err)
		}
		return nil, err
	}
	return uc.productRepo.Create(ctx, input, seller.ID)
}

// GetByID returns the product and, on a hit, bumps its view counter. The
// returned snapshot predates the bump, so a reader sees every view but
// its own.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.IncrementViewCount(ctx, id); err != nil {
		logger.Warn("Failed to increment view count for product %s: %v", id, err)
	}
	return product, nil
}

func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, skip, limit int) ([]*entity.Product, error) {
	return uc.productRepo.GetAll(ctx, filter, skip, limit)
}

func (uc *ProductUseCase) Search(ctx context.Context, text string, skip, limit int) ([]*entity.Product, error) {
	if text == "" {
		return nil, errors.BadRequest("Search query must not be empty", nil)
	}
	return uc.productRepo.Search(ctx, text, skip, limit)
}

func (uc *ProductUseCase) Filter(ctx context.Context, filter repository.SearchFilter, skip, limit int) ([]*entity.Product, error) {
	return uc.productRepo.Filter(ctx, filter, skip, limit)
}

func (uc *ProductUseCase) Update(ctx context.Context, id, username string, fields map[string]interface{}) (*entity.Product, error) {
	if err := uc.authorize(ctx, id, username); err != nil {
		return nil, err
	}
	return uc.productRepo.Update(ctx, id, fields)
}

func (uc *ProductUseCase) Delete(ctx context.Context, id, username string) error {
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

// Favorite records the caller's favorite on both sides of the aggregate
// pair: the product's favorite_count and the user's favorites list.
// Repeat favorites are idempotent no-ops. The guarded user-side write is
// the single decision point: the product counter moves only when that
// write actually changed the user document, so racing duplicates cannot
// drift the two sides apart.
func (uc *ProductUseCase) Favorite(ctx context.Context, id, username string) error {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if _, err := uc.productRepo.GetByID(ctx, id); err != nil {
		return err
	}
	added, err := uc.userRepo.AddFavorite(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	return uc.productRepo.AdjustFavoriteCount(ctx, id, 1)
}

func (uc *ProductUseCase) Unfavorite(ctx context.Context, id, username string) error {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if _, err := uc.productRepo.GetByID(ctx, id); err != nil {
		return err
	}
	removed, err := uc.userRepo.RemoveFavorite(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	return uc.productRepo.AdjustFavoriteCount(ctx, id, -1)
}

func (uc *ProductUseCase) Popular(ctx context.Context, limit int) ([]*entity.Product, error) {
	return uc.productRepo.GetPopular(ctx, limit)
}

func (uc *ProductUseCase) TopCategories(ctx context.Context, limit int) ([]entity.CategoryCount, error) {
	return uc.productRepo.TopCategories(ctx, limit)
}

func (uc *ProductUseCase) authorize(ctx context.Context, productID, username string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	caller, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if product.Seller.ID != caller.ID {
		return errors.Forbidden("You don't have permission to modify this product", nil)
	}
	return nil
}
