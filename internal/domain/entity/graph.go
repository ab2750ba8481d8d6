package entity

// GraphUser is a User node in the graph backend. Username is the natural
// key all upserts merge on.
type GraphUser struct {
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
	IsAdmin        bool   `json:"is_admin"`
}

// GraphProduct is a Product node. CreatedAt is stored as an RFC 3339
// string so descending string order matches descending time order.
type GraphProduct struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	PriceAmount   float64 `json:"price_amount"`
	Status        string  `json:"status"`
	ViewCount     int64   `json:"view_count"`
	FavoriteCount int64   `json:"favorite_count"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// RecommendedProduct is a recommendation candidate with its
// distinct-interacting-user score.
type RecommendedProduct struct {
	GraphProduct
	Score int64 `json:"score"`
}
