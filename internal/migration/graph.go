package migration

import (
	"time"
)

// viewEventCap bounds how many view events are projected into the graph;
// only the most recent ones survive.
const viewEventCap = 1000

// CypherOp is one parameterized statement against the graph store. Every
// op uses MERGE on natural keys, so re-running the whole batch is
// idempotent.
type CypherOp struct {
	Query  string
	Params map[string]interface{}
}

type GraphReport struct {
	Users                 int
	Products              int
	SkippedProducts       int
	Favorites             int
	SkippedFavorites      int
	Views                 int
	SkippedViews          int
	MessagedConversations int
	SkippedConversations  int
}

// BuildGraphOps projects the relational snapshot into graph ops. Pure:
// same snapshot, same ops in the same order.
func BuildGraphOps(s *Snapshot) ([]CypherOp, GraphReport) {
	var ops []CypherOp
	var report GraphReport

	ops = append(ops, graphUserOps(s, &report)...)
	ops = append(ops, graphProductOps(s, &report)...)
	ops = append(ops, graphFavoriteOps(s, &report)...)
	ops = append(ops, graphViewOps(s, &report)...)
	ops = append(ops, graphMessagedOps(s, &report)...)

	return ops, report
}

func graphUserOps(s *Snapshot, report *GraphReport) []CypherOp {
	var ops []CypherOp
	for _, u := range s.Users {
		var loc *LocationRow
		if u.LocationID != nil {
			if l, ok := s.LocationsByID[*u.LocationID]; ok {
				loc = &l
				ops = append(ops, CypherOp{
					Query: "MERGE (l:Location {postcode: $postcode, city: $city}) SET l.country = $country",
					Params: map[string]interface{}{
						"postcode": l.Postcode,
						"city":     l.City,
						"country":  defaultCountry,
					},
				})
			}
		}

		query := "MERGE (u:User {username: $username}) " +
			"SET u.email = $email, u.full_name = $full_name, u.is_active = $is_active"
		params := map[string]interface{}{
			"username":  u.Username,
			"email":     u.Email,
			"full_name": fallback(u.FullName, u.Username),
			"is_active": u.IsActive,
		}
		if loc != nil {
			query += " WITH u MATCH (l:Location {postcode: $postcode, city: $city}) MERGE (u)-[:LIVES_IN]->(l)"
			params["postcode"] = loc.Postcode
			params["city"] = loc.City
		}
		ops = append(ops, CypherOp{Query: query, Params: params})
		report.Users++
	}
	return ops
}

func graphProductOps(s *Snapshot, report *GraphReport) []CypherOp {
	var ops []CypherOp
	for _, p := range s.Products {
		seller, ok := s.UsersByID[p.SellerID]
		if !ok {
			report.SkippedProducts++
			continue
		}

		if p.CategoryID != nil {
			if cat, found := s.CategoriesByID[*p.CategoryID]; found {
				ops = append(ops, CypherOp{
					Query: "MERGE (c:Category {id: $id}) SET c.name = $name",
					Params: map[string]interface{}{
						"id":   idString(cat.ID),
						"name": cat.Name,
					},
				})
			}
		}
		var loc *LocationRow
		if p.LocationID != nil {
			if l, found := s.LocationsByID[*p.LocationID]; found {
				loc = &l
				ops = append(ops, CypherOp{
					Query: "MERGE (l:Location {postcode: $postcode, city: $city}) SET l.country = $country",
					Params: map[string]interface{}{
						"postcode": l.Postcode,
						"city":     l.City,
						"country":  defaultCountry,
					},
				})
			}
		}

		query := "MERGE (u:User {username: $username}) " +
			"MERGE (p:Product {id: $id}) " +
			"SET p.title = $title, p.description = $description, p.price_amount = $price_amount, " +
			"p.status = $status, p.view_count = coalesce($view_count, 0), " +
			"p.favorite_count = coalesce($favorite_count, 0), p.created_at = $created_at " +
			"MERGE (u)-[:CREATED]->(p)"
		params := map[string]interface{}{
			"username":       seller.Username,
			"id":             idString(p.ID),
			"title":          p.Title,
			"description":    stringOrEmpty(p.Description),
			"price_amount":   floatOrZero(p.PriceAmount),
			"status":         p.Status,
			"view_count":     intOrZero(p.ViewsCount),
			"favorite_count": intOrZero(p.LikesCount),
			"created_at":     rfc3339OrNil(p.CreatedAt),
		}
		if p.CategoryID != nil {
			if _, found := s.CategoriesByID[*p.CategoryID]; found {
				query += " WITH p MATCH (c:Category {id: $category_id}) MERGE (p)-[:IN_CATEGORY]->(c)"
				params["category_id"] = idString(*p.CategoryID)
			}
		}
		if loc != nil {
			query += " WITH p MATCH (l:Location {postcode: $postcode, city: $city}) MERGE (p)-[:LOCATED_IN]->(l)"
			params["postcode"] = loc.Postcode
			params["city"] = loc.City
		}
		ops = append(ops, CypherOp{Query: query, Params: params})
		report.Products++
	}
	return ops
}

// graphFavoriteOps matches both endpoints; a favorite row pointing at a
// vanished user or product produces nothing.
func graphFavoriteOps(s *Snapshot, report *GraphReport) []CypherOp {
	var ops []CypherOp
	for _, f := range s.Favorites {
		user, userOK := s.UsersByID[f.UserID]
		product, productOK := s.ProductsByID[f.ProductID]
		if !userOK || !productOK {
			report.SkippedFavorites++
			continue
		}
		ops = append(ops, CypherOp{
			Query: "MATCH (u:User {username: $username}), (p:Product {id: $product_id}) " +
				"MERGE (u)-[:FAVORITED]->(p)",
			Params: map[string]interface{}{
				"username":   user.Username,
				"product_id": idString(product.ID),
			},
		})
		report.Favorites++
	}
	return ops
}

// graphViewOps projects the most recent identified views only. The MERGE
// keeps one edge per (user, product); SET overwrites viewed_at, so the
// graph remembers only the latest view of each pair.
func graphViewOps(s *Snapshot, report *GraphReport) []CypherOp {
	var ops []CypherOp
	taken := 0
	for _, v := range s.Views {
		if v.ViewerUserID == nil {
			continue
		}
		if taken >= viewEventCap {
			break
		}
		taken++

		user, userOK := s.UsersByID[*v.ViewerUserID]
		product, productOK := s.ProductsByID[v.ProductID]
		if !userOK || !productOK {
			report.SkippedViews++
			continue
		}
		ops = append(ops, CypherOp{
			Query: "MATCH (u:User {username: $username}), (p:Product {id: $product_id}) " +
				"MERGE (u)-[r:VIEWED]->(p) SET r.viewed_at = $viewed_at",
			Params: map[string]interface{}{
				"username":   user.Username,
				"product_id": idString(product.ID),
				"viewed_at":  rfc3339OrNil(v.ViewedAt),
			},
		})
		report.Views++
	}
	return ops
}

// graphMessagedOps expands each conversation's participants into all
// unordered pairs and writes a MESSAGED edge in both directions carrying
// the conversation's message count. When two users share several
// conversations the last one processed wins.
func graphMessagedOps(s *Snapshot, report *GraphReport) []CypherOp {
	var ops []CypherOp
	for _, conv := range s.Conversations {
		participants := s.ParticipantsByConversation[conv.ID]
		if len(participants) < 2 {
			report.SkippedConversations++
			continue
		}

		var users []UserRow
		for _, part := range participants {
			if user, ok := s.UsersByID[part.UserID]; ok {
				users = append(users, user)
			}
		}
		if len(users) < 2 {
			report.SkippedConversations++
			continue
		}

		messageCount := len(s.MessagesByConversation[conv.ID])
		for i := 0; i < len(users); i++ {
			for j := i + 1; j < len(users); j++ {
				ops = append(ops, CypherOp{
					Query: "MATCH (u1:User {username: $user1}), (u2:User {username: $user2}) " +
						"MERGE (u1)-[r1:MESSAGED]->(u2) MERGE (u2)-[r2:MESSAGED]->(u1) " +
						"SET r1.message_count = $message_count, r2.message_count = $message_count, " +
						"r1.last_message_at = $created_at, r2.last_message_at = $created_at",
					Params: map[string]interface{}{
						"user1":         users[i].Username,
						"user2":         users[j].Username,
						"message_count": messageCount,
						"created_at":    rfc3339OrNil(conv.CreatedAt),
					},
				})
			}
		}
		report.MessagedConversations++
	}
	return ops
}

// DerivedEdgeOps runs after the base projection and computes edges from
// data already in the graph. Pair order is fixed lower-id-first so the
// undirected MERGE never doubles an edge.
func DerivedEdgeOps() []CypherOp {
	return []CypherOp{
		{
			Query: "MATCH (p1:Product)-[:IN_CATEGORY]->(c:Category)<-[:IN_CATEGORY]-(p2:Product) " +
				"WHERE p1.id < p2.id " +
				"MERGE (p1)-[r:SIMILAR_TO]-(p2) " +
				"SET r.reason = 'same_category' " +
				"RETURN count(r) AS count",
			Params: map[string]interface{}{},
		},
		{
			Query: "MATCH (u:User)-[:FAVORITED]->(p1:Product) " +
				"MATCH (u)-[:FAVORITED]->(p2:Product) " +
				"WHERE p1.id < p2.id " +
				"WITH p1, p2, count(u) AS shared_users " +
				"WHERE shared_users >= 2 " +
				"MERGE (p1)-[r:RELATED_TO]-(p2) " +
				"SET r.shared_favorite_count = shared_users " +
				"RETURN count(r) AS count",
			Params: map[string]interface{}{},
		},
	}
}

func rfc3339OrNil(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339)
}
