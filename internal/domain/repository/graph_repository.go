package repository

import (
	"context"

	"fleamarkt/internal/domain/entity"
)

type GraphUserRepository interface {
	// Upsert merges on the username natural key. Re-running overwrites
	// email, full_name and is_active; no field is protected.
	Upsert(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error)

	// Register creates a credentialed user node. Returns Conflict when the
	// username is already taken.
	Register(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error)

	GetByUsername(ctx context.Context, username string) (*entity.GraphUser, error)

	// GetByIdentifier matches username or email and includes the password
	// hash for credential verification.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.GraphUser, error)

	List(ctx context.Context, skip, limit int) ([]*entity.GraphUser, error)
}

type GraphProductRepository interface {
	// Create merges the seller node and attaches a CREATED edge to the new
	// product node.
	Create(ctx context.Context, sellerUsername string, product *entity.GraphProduct) (*entity.GraphProduct, error)

	GetByID(ctx context.Context, id string) (*entity.GraphProduct, error)
	List(ctx context.Context, skip, limit int, status string) ([]*entity.GraphProduct, error)
	Popular(ctx context.Context, limit int) ([]*entity.GraphProduct, error)

	// SellerUsername traverses the inbound CREATED edge. An empty result
	// means no owner edge exists; callers treat that as an authorization
	// failure, never as a server error.
	SellerUsername(ctx context.Context, productID string) (string, error)

	Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.GraphProduct, error)

	// Delete detach-deletes the node together with all incident edges.
	// Reports false when the node did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	SetStatus(ctx context.Context, id, status string) (*entity.GraphProduct, error)

	AddFavorite(ctx context.Context, username, productID string) error

	// TrackView records an identified view as a VIEWED edge merge that
	// overwrites viewed_at, or an anonymous view (empty username) as a bare
	// counter increment. Both paths increment view_count by exactly 1.
	TrackView(ctx context.Context, productID, username string) error

	Recommendations(ctx context.Context, productID string, limit int) ([]*entity.RecommendedProduct, error)
}
