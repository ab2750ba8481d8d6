package migration

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Row models mirror the legacy relational schema. The migration only ever
// reads them.

type UserRow struct {
	ID             int64   `gorm:"column:id;primaryKey"`
	Username       string  `gorm:"column:username"`
	Email          string  `gorm:"column:email"`
	HashedPassword string  `gorm:"column:hashed_password"`
	FullName       *string `gorm:"column:full_name"`
	Phone          *string `gorm:"column:phone"`
	LocationID     *int64  `gorm:"column:location_id"`
	IsActive       bool    `gorm:"column:is_active"`
	IsAdmin        bool    `gorm:"column:is_admin"`
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (UserRow) TableName() string { return "users" }

type ProductRow struct {
	ID            int64    `gorm:"column:id;primaryKey"`
	SellerID      int64    `gorm:"column:seller_id"`
	CategoryID    *int64   `gorm:"column:category_id"`
	LocationID    *int64   `gorm:"column:location_id"`
	Title         string   `gorm:"column:title"`
	Description   *string  `gorm:"column:description"`
	PriceAmount   *float64 `gorm:"column:price_amount"`
	PriceCurrency *string  `gorm:"column:price_currency"`
	Condition     string   `gorm:"column:condition"`
	Status        string   `gorm:"column:status"`
	ViewsCount    *int64   `gorm:"column:views_count"`
	LikesCount    *int64   `gorm:"column:likes_count"`
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

func (ProductRow) TableName() string { return "products" }

type CategoryRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name"`
	ParentID *int64 `gorm:"column:parent_id"`
}

func (CategoryRow) TableName() string { return "categories" }

type LocationRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	City     string `gorm:"column:city"`
	Postcode string `gorm:"column:postcode"`
}

func (LocationRow) TableName() string { return "locations" }

type FavoriteRow struct {
	UserID    int64 `gorm:"column:user_id"`
	ProductID int64 `gorm:"column:product_id"`
	CreatedAt *time.Time
}

func (FavoriteRow) TableName() string { return "favorites" }

type ItemViewRow struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	ProductID    int64  `gorm:"column:product_id"`
	ViewerUserID *int64 `gorm:"column:viewer_user_id"`
	ViewedAt     *time.Time
}

func (ItemViewRow) TableName() string { return "item_views" }

type PriceHistoryRow struct {
	ID        int64    `gorm:"column:id;primaryKey"`
	ProductID int64    `gorm:"column:product_id"`
	Amount    *float64 `gorm:"column:amount"`
	Currency  *string  `gorm:"column:currency"`
	ChangedAt *time.Time
}

func (PriceHistoryRow) TableName() string { return "product_price_history" }

type ConversationRow struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ProductID *int64 `gorm:"column:product_id"`
	CreatedAt *time.Time
}

func (ConversationRow) TableName() string { return "conversations" }

type ParticipantRow struct {
	ConversationID int64 `gorm:"column:conversation_id"`
	UserID         int64 `gorm:"column:user_id"`
}

func (ParticipantRow) TableName() string { return "conversation_participants" }

type MessageRow struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	ConversationID int64  `gorm:"column:conversation_id"`
	SenderID       int64  `gorm:"column:sender_id"`
	Body           string `gorm:"column:body"`
	CreatedAt      *time.Time
}

func (MessageRow) TableName() string { return "messages" }

type MessageReadRow struct {
	MessageID int64 `gorm:"column:message_id"`
	UserID    int64 `gorm:"column:user_id"`
}

func (MessageReadRow) TableName() string { return "message_reads" }

// Snapshot is the fully loaded relational state with id-keyed lookup
// tables, so the projection mappers never touch the database.
type Snapshot struct {
	Users         []UserRow
	Products      []ProductRow
	Conversations []ConversationRow
	Favorites     []FavoriteRow

	UsersByID      map[int64]UserRow
	ProductsByID   map[int64]ProductRow
	CategoriesByID map[int64]CategoryRow
	LocationsByID  map[int64]LocationRow

	// ViewsByProduct is ordered most recent first per product.
	ViewsByProduct map[int64][]ItemViewRow
	// Views is ordered most recent first across all products.
	Views []ItemViewRow

	// PriceHistoryByProduct is ordered oldest first.
	PriceHistoryByProduct map[int64][]PriceHistoryRow
	// MessagesByConversation is ordered oldest first.
	MessagesByConversation map[int64][]MessageRow

	ParticipantsByConversation map[int64][]ParticipantRow
	FavoritesByUser            map[int64][]FavoriteRow
	ReadMessageIDs             map[int64]bool
}

// Open connects to the relational source in read-only fashion.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to relational source: %w", err)
	}
	return db, nil
}

// Load reads every source table once and builds the lookup maps.
func Load(db *gorm.DB) (*Snapshot, error) {
	s := &Snapshot{
		UsersByID:                  map[int64]UserRow{},
		ProductsByID:               map[int64]ProductRow{},
		CategoriesByID:             map[int64]CategoryRow{},
		LocationsByID:              map[int64]LocationRow{},
		ViewsByProduct:             map[int64][]ItemViewRow{},
		PriceHistoryByProduct:      map[int64][]PriceHistoryRow{},
		MessagesByConversation:     map[int64][]MessageRow{},
		ParticipantsByConversation: map[int64][]ParticipantRow{},
		FavoritesByUser:            map[int64][]FavoriteRow{},
		ReadMessageIDs:             map[int64]bool{},
	}

	if err := db.Find(&s.Users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range s.Users {
		s.UsersByID[u.ID] = u
	}

	if err := db.Find(&s.Products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	for _, p := range s.Products {
		s.ProductsByID[p.ID] = p
	}

	var categories []CategoryRow
	if err := db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	for _, c := range categories {
		s.CategoriesByID[c.ID] = c
	}

	var locations []LocationRow
	if err := db.Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	for _, l := range locations {
		s.LocationsByID[l.ID] = l
	}

	if err := db.Find(&s.Favorites).Error; err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	for _, f := range s.Favorites {
		s.FavoritesByUser[f.UserID] = append(s.FavoritesByUser[f.UserID], f)
	}

	if err := db.Find(&s.Views).Error; err != nil {
		return nil, fmt.Errorf("load item views: %w", err)
	}
	sort.SliceStable(s.Views, func(i, j int) bool {
		return timeAfter(s.Views[i].ViewedAt, s.Views[j].ViewedAt)
	})
	for _, v := range s.Views {
		s.ViewsByProduct[v.ProductID] = append(s.ViewsByProduct[v.ProductID], v)
	}

	var history []PriceHistoryRow
	if err := db.Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return timeBefore(history[i].ChangedAt, history[j].ChangedAt)
	})
	for _, h := range history {
		s.PriceHistoryByProduct[h.ProductID] = append(s.PriceHistoryByProduct[h.ProductID], h)
	}

	if err := db.Find(&s.Conversations).Error; err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}

	var participants []ParticipantRow
	if err := db.Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("load conversation participants: %w", err)
	}
	for _, p := range participants {
		s.ParticipantsByConversation[p.ConversationID] = append(s.ParticipantsByConversation[p.ConversationID], p)
	}

	var messages []MessageRow
	if err := db.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return timeBefore(messages[i].CreatedAt, messages[j].CreatedAt)
	})
	for _, m := range messages {
		s.MessagesByConversation[m.ConversationID] = append(s.MessagesByConversation[m.ConversationID], m)
	}

	var reads []MessageReadRow
	if err := db.Find(&reads).Error; err != nil {
		return nil, fmt.Errorf("load message reads: %w", err)
	}
	for _, r := range reads {
		s.ReadMessageIDs[r.MessageID] = true
	}

	return s, nil
}

func timeBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

func timeAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
