package repository

import (
	"context"

	"fleamarkt/internal/domain/entity"
)

// ProductCreate carries the caller-supplied fields for a new product
// aggregate. Seller and category snapshots are resolved by the store.
type ProductCreate struct {
	Title         string
	Description   string
	PriceAmount   float64
	PriceCurrency string
	Condition     string
	CategoryID    string
	Colors        []string
	Materials     []string
	Tags          []string
}

// ProductFilter narrows GetAll results. Zero values mean "no filter".
type ProductFilter struct {
	Status     string
	SellerID   string
	CategoryID string
}

// SearchFilter is the advanced filter query surface.
type SearchFilter struct {
	Text           string
	MinPrice       *float64
	MaxPrice       *float64
	Status         string
	SellerUsername string
	Tag            string
}

type ProductRepository interface {
	// Create embeds point-in-time seller and category snapshots and, as a
	// side effect, increments the seller's product_count. Returns NotFound
	// when sellerID does not resolve to an existing user.
	Create(ctx context.Context, input ProductCreate, sellerID string) (*entity.Product, error)

	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetAll(ctx context.Context, filter ProductFilter, skip, limit int) ([]*entity.Product, error)
	Search(ctx context.Context, text string, skip, limit int) ([]*entity.Product, error)
	Filter(ctx context.Context, filter SearchFilter, skip, limit int) ([]*entity.Product, error)

	// Update applies only non-nil fields; an empty update returns the
	// current state unchanged.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Product, error)

	// Delete reports false when the product did not exist. A successful
	// delete decrements the owning seller's product_count.
	Delete(ctx context.Context, id string) (bool, error)

	IncrementViewCount(ctx context.Context, id string) error
	AdjustFavoriteCount(ctx context.Context, id string, delta int) error

	GetPopular(ctx context.Context, limit int) ([]*entity.Product, error)
	TopCategories(ctx context.Context, limit int) ([]entity.CategoryCount, error)
}
