package migration

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	recentViewsCap  = 10
	defaultCountry  = "Denmark"
	defaultCurrency = "DKK"
)

// DocumentUpsert is one write against the document store. Filter is the
// migration key; Set is the replacement state; SetOnInsert carries fields
// preserved across re-runs. Upsert false means update-only (the favorites
// rebuild never creates users).
type DocumentUpsert struct {
	Collection  string
	Filter      bson.M
	Set         bson.M
	SetOnInsert bson.M
	Upsert      bool
}

// DocumentReport counts projected and skipped aggregates for the job
// summary.
type DocumentReport struct {
	Users                int
	Products             int
	SkippedProducts      int
	Conversations        int
	SkippedConversations int
	UsersWithFavorites   int
}

// BuildDocumentUpserts projects the relational snapshot into the
// denormalized document model. Pure: same snapshot, same upserts.
func BuildDocumentUpserts(s *Snapshot) ([]DocumentUpsert, DocumentReport) {
	var upserts []DocumentUpsert
	var report DocumentReport

	upserts = append(upserts, userUpserts(s, &report)...)
	upserts = append(upserts, productUpserts(s, &report)...)
	upserts = append(upserts, conversationUpserts(s, &report)...)
	upserts = append(upserts, favoriteUpserts(s, &report)...)

	return upserts, report
}

// userUpserts keys on username. product_count is recomputed from the
// source rows; favorites are handled by a separate pass so the two writes
// stay independent.
func userUpserts(s *Snapshot, report *DocumentReport) []DocumentUpsert {
	productCounts := map[int64]int{}
	for _, p := range s.Products {
		productCounts[p.SellerID]++
	}

	upserts := make([]DocumentUpsert, 0, len(s.Users))
	for _, u := range s.Users {
		var location bson.M
		if u.LocationID != nil {
			if loc, ok := s.LocationsByID[*u.LocationID]; ok {
				location = bson.M{
					"city":     loc.City,
					"postcode": loc.Postcode,
					"country":  defaultCountry,
				}
			}
		}

		upserts = append(upserts, DocumentUpsert{
			Collection: "users",
			Filter:     bson.M{"username": u.Username},
			Set: bson.M{
				"legacy_mysql_id": u.ID,
				"username":        u.Username,
				"email":           u.Email,
				"hashed_password": u.HashedPassword,
				"full_name":       fallback(u.FullName, u.Username),
				"phone":           stringOrEmpty(u.Phone),
				"location":        location,
				"is_active":       u.IsActive,
				"is_admin":        u.IsAdmin,
				"product_count":   productCounts[u.ID],
				"created_at":      utcOrNil(u.CreatedAt),
				"updated_at":      utcOrNil(u.UpdatedAt),
			},
			Upsert: true,
		})
		report.Users++
	}
	return upserts
}

// productUpserts keys on legacy_mysql_id. created_at goes through
// $setOnInsert so re-runs refresh the projection without rewriting it.
// Products whose seller row is gone are skipped entirely.
func productUpserts(s *Snapshot, report *DocumentReport) []DocumentUpsert {
	var upserts []DocumentUpsert
	for _, p := range s.Products {
		seller, ok := s.UsersByID[p.SellerID]
		if !ok {
			report.SkippedProducts++
			continue
		}

		set := bson.M{
			"legacy_mysql_id":   p.ID,
			"title":             p.Title,
			"price_amount":      floatOrZero(p.PriceAmount),
			"price_currency":    fallback(p.PriceCurrency, defaultCurrency),
			"product_condition": p.Condition,
			"status":            p.Status,
			"seller": bson.M{
				"id":        idString(seller.ID),
				"username":  seller.Username,
				"full_name": fallback(seller.FullName, seller.Username),
			},
			"details":      bson.M{"colors": []string{}, "materials": []string{}, "tags": []string{}},
			"images":       []interface{}{},
			"stats":        bson.M{"view_count": intOrZero(p.ViewsCount), "favorite_count": intOrZero(p.LikesCount)},
			"price_history": priceHistoryEmbeds(s.PriceHistoryByProduct[p.ID]),
			"recent_views":  recentViewEmbeds(s.ViewsByProduct[p.ID]),
			"updated_at":    utcOrNil(p.UpdatedAt),
		}
		if p.Description != nil {
			set["description"] = *p.Description
		}
		if embed := categoryEmbed(s, p.CategoryID); embed != nil {
			set["category"] = embed
		}
		if embed := locationEmbed(s, p.LocationID); embed != nil {
			set["location"] = embed
		}

		upsert := DocumentUpsert{
			Collection: "products",
			Filter:     bson.M{"legacy_mysql_id": p.ID},
			Set:        set,
			Upsert:     true,
		}
		if p.CreatedAt != nil {
			upsert.SetOnInsert = bson.M{"created_at": p.CreatedAt.UTC()}
		}
		upserts = append(upserts, upsert)
		report.Products++
	}
	return upserts
}

// conversationUpserts keys on legacy_mysql_id. Conversations with fewer
// than two participants are structural noise and are skipped. Messages
// whose sender is gone are dropped; is_read derives from the presence of
// any read receipt.
func conversationUpserts(s *Snapshot, report *DocumentReport) []DocumentUpsert {
	var upserts []DocumentUpsert
	for _, conv := range s.Conversations {
		participants := s.ParticipantsByConversation[conv.ID]
		if len(participants) < 2 {
			report.SkippedConversations++
			continue
		}

		participantEmbeds := []bson.M{}
		for _, part := range participants {
			if user, ok := s.UsersByID[part.UserID]; ok {
				participantEmbeds = append(participantEmbeds, bson.M{
					"user_id":  idString(user.ID),
					"username": user.Username,
				})
			}
		}

		messageEmbeds := []bson.M{}
		var lastMessageAt interface{}
		for _, msg := range s.MessagesByConversation[conv.ID] {
			sender, ok := s.UsersByID[msg.SenderID]
			if !ok {
				continue
			}
			createdAt := utcOrNil(msg.CreatedAt)
			messageEmbeds = append(messageEmbeds, bson.M{
				"sender_id":       idString(msg.SenderID),
				"sender_username": sender.Username,
				"body":            msg.Body,
				"is_read":         s.ReadMessageIDs[msg.ID],
				"created_at":      createdAt,
			})
			lastMessageAt = createdAt
		}

		upserts = append(upserts, DocumentUpsert{
			Collection: "conversations",
			Filter:     bson.M{"legacy_mysql_id": conv.ID},
			Set: bson.M{
				"legacy_mysql_id": conv.ID,
				"participants":    participantEmbeds,
				"product_id":      idStringOrNil(conv.ProductID),
				"messages":        messageEmbeds,
				"message_count":   len(messageEmbeds),
				"last_message_at": lastMessageAt,
				"created_at":      utcOrNil(conv.CreatedAt),
			},
			Upsert: true,
		})
		report.Conversations++
	}
	return upserts
}

// favoriteUpserts rebuilds each user's favorites list wholesale. These are
// update-only: a favorites row for a vanished user must not conjure a user
// document.
func favoriteUpserts(s *Snapshot, report *DocumentReport) []DocumentUpsert {
	var upserts []DocumentUpsert
	for _, u := range s.Users {
		favorites, ok := s.FavoritesByUser[u.ID]
		if !ok {
			continue
		}
		entries := make([]bson.M, 0, len(favorites))
		for _, f := range favorites {
			entries = append(entries, bson.M{
				"product_id": idString(f.ProductID),
				"created_at": utcOrNil(f.CreatedAt),
			})
		}
		upserts = append(upserts, DocumentUpsert{
			Collection: "users",
			Filter:     bson.M{"username": u.Username},
			Set: bson.M{
				"favorites":      entries,
				"favorite_count": len(entries),
			},
		})
		report.UsersWithFavorites++
	}
	return upserts
}

func categoryEmbed(s *Snapshot, categoryID *int64) bson.M {
	if categoryID == nil {
		return nil
	}
	cat, ok := s.CategoriesByID[*categoryID]
	if !ok {
		return nil
	}
	var parentName interface{}
	if cat.ParentID != nil {
		if parent, ok := s.CategoriesByID[*cat.ParentID]; ok {
			parentName = parent.Name
		}
	}
	return bson.M{"id": idString(cat.ID), "name": cat.Name, "parent_name": parentName}
}

func locationEmbed(s *Snapshot, locationID *int64) bson.M {
	if locationID == nil {
		return nil
	}
	loc, ok := s.LocationsByID[*locationID]
	if !ok {
		return nil
	}
	return bson.M{"city": loc.City, "postcode": loc.Postcode, "country": defaultCountry}
}

func priceHistoryEmbeds(rows []PriceHistoryRow) []bson.M {
	embeds := make([]bson.M, 0, len(rows))
	for _, row := range rows {
		embeds = append(embeds, bson.M{
			"amount":     floatOrZero(row.Amount),
			"currency":   fallback(row.Currency, defaultCurrency),
			"changed_at": utcOrNil(row.ChangedAt),
		})
	}
	return embeds
}

// recentViewEmbeds keeps only the most recent views; rows arrive already
// ordered newest first.
func recentViewEmbeds(rows []ItemViewRow) []bson.M {
	if len(rows) > recentViewsCap {
		rows = rows[:recentViewsCap]
	}
	embeds := make([]bson.M, 0, len(rows))
	for _, row := range rows {
		embeds = append(embeds, bson.M{
			"viewer_user_id": idStringOrNil(row.ViewerUserID),
			"viewed_at":      utcOrNil(row.ViewedAt),
		})
	}
	return embeds
}

// Legacy numeric ids become strings in both projections.
func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func idStringOrNil(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return idString(*id)
}

func fallback(value *string, alt string) string {
	if value != nil && *value != "" {
		return *value
	}
	return alt
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func intOrZero(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}

func utcOrNil(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return value.UTC()
}
