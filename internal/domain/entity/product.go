package entity

import (
	"time"
)

const (
	ProductStatusActive = "active"
	ProductStatusPaused = "paused"
	ProductStatusSold   = "sold"
)

// SellerEmbedded is a point-in-time seller snapshot captured at product
// creation. It is never live-updated when the seller's profile changes.
type SellerEmbedded struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	FullName string `json:"full_name" bson:"full_name"`
}

// CategoryEmbedded is a point-in-time category snapshot with the parent
// category name resolved inline.
type CategoryEmbedded struct {
	ID         string  `json:"id" bson:"id"`
	Name       string  `json:"name" bson:"name"`
	ParentName *string `json:"parent_name,omitempty" bson:"parent_name,omitempty"`
}

type ProductImage struct {
	URL       string `json:"url" bson:"url"`
	IsPrimary bool   `json:"is_primary" bson:"is_primary"`
}

type ProductDetails struct {
	Colors    []string `json:"colors" bson:"colors"`
	Materials []string `json:"materials" bson:"materials"`
	Tags      []string `json:"tags" bson:"tags"`
}

type ProductStats struct {
	ViewCount     int `json:"view_count" bson:"view_count"`
	FavoriteCount int `json:"favorite_count" bson:"favorite_count"`
}

type PriceHistoryEntry struct {
	Amount    float64    `json:"amount" bson:"amount"`
	Currency  string     `json:"currency" bson:"currency"`
	ChangedAt *time.Time `json:"changed_at,omitempty" bson:"changed_at,omitempty"`
}

type RecentViewEntry struct {
	ViewerUserID *string    `json:"viewer_user_id,omitempty" bson:"viewer_user_id,omitempty"`
	ViewedAt     *time.Time `json:"viewed_at,omitempty" bson:"viewed_at,omitempty"`
}

// Product is the denormalized product aggregate stored in the document
// backend. All embedded sub-objects are snapshots; consumers must accept
// staleness.
type Product struct {
	ID            string              `json:"id" bson:"_id,omitempty"`
	LegacyID      *int64              `json:"-" bson:"legacy_mysql_id,omitempty"`
	Title         string              `json:"title" bson:"title"`
	Description   string              `json:"description,omitempty" bson:"description,omitempty"`
	PriceAmount   float64             `json:"price_amount" bson:"price_amount"`
	PriceCurrency string              `json:"price_currency" bson:"price_currency"`
	Condition     string              `json:"product_condition" bson:"product_condition"`
	Status        string              `json:"status" bson:"status"`
	Seller        SellerEmbedded      `json:"seller" bson:"seller"`
	Category      *CategoryEmbedded   `json:"category,omitempty" bson:"category,omitempty"`
	Location      *Location           `json:"location,omitempty" bson:"location,omitempty"`
	Details       ProductDetails      `json:"details" bson:"details"`
	Images        []ProductImage      `json:"images" bson:"images"`
	Stats         ProductStats        `json:"stats" bson:"stats"`
	PriceHistory  []PriceHistoryEntry `json:"price_history,omitempty" bson:"price_history,omitempty"`
	RecentViews   []RecentViewEntry   `json:"recent_views,omitempty" bson:"recent_views,omitempty"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

// CategoryCount is one row of the top-categories aggregation.
type CategoryCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
