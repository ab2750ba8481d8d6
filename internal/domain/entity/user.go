package entity

import (
	"time"
)

// Location is an embedded point-in-time location snapshot.
type Location struct {
	City     string `json:"city" bson:"city"`
	Postcode string `json:"postcode" bson:"postcode"`
	Country  string `json:"country" bson:"country"`
}

// FavoriteEntry is one element of a user's rebuilt favorites list.
type FavoriteEntry struct {
	ProductID string     `json:"product_id" bson:"product_id"`
	CreatedAt *time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// User is the denormalized user aggregate stored in the document backend.
// ProductCount and FavoriteCount are maintained by explicit atomic
// increments co-located with the mutations that change them; they are
// never recomputed at read time.
type User struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	LegacyID       *int64          `json:"-" bson:"legacy_mysql_id,omitempty"`
	Username       string          `json:"username" bson:"username"`
	Email          string          `json:"email" bson:"email"`
	HashedPassword string          `json:"-" bson:"hashed_password"`
	FullName       string          `json:"full_name" bson:"full_name"`
	Phone          string          `json:"phone,omitempty" bson:"phone,omitempty"`
	Location       *Location       `json:"location,omitempty" bson:"location,omitempty"`
	IsActive       bool            `json:"is_active" bson:"is_active"`
	IsAdmin        bool            `json:"is_admin" bson:"is_admin"`
	ProductCount   int             `json:"product_count" bson:"product_count"`
	Favorites      []FavoriteEntry `json:"favorites,omitempty" bson:"favorites,omitempty"`
	FavoriteCount  int             `json:"favorite_count" bson:"favorite_count"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}
