package repository

import (
	"context"

	"fleamarkt/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, skip, limit int) ([]*entity.User, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error)

	// Delete reports false when no user with the given id existed.
	Delete(ctx context.Context, id string) (bool, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// AdjustProductCount applies an atomic delta to the denormalized
	// product_count. It must not be implemented as read-modify-write.
	AdjustProductCount(ctx context.Context, id string, delta int) error

	// AddFavorite and RemoveFavorite mutate the embedded favorites list and
	// its favorite_count in a single write, reporting whether the document
	// actually changed. Both are idempotent at the store level: adding an
	// existing entry or removing a missing one changes nothing and reports
	// false, which callers use to decide whether the product-side counter
	// moves.
	AddFavorite(ctx context.Context, userID, productID string) (bool, error)
	RemoveFavorite(ctx context.Context, userID, productID string) (bool, error)
}
