package migration

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphSnapshot() *Snapshot {
	t0 := baseTime()
	users := []UserRow{
		{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true},
		{ID: 2, Username: "bob", Email: "bob@example.com", IsActive: true},
		{ID: 3, Username: "carol", Email: "carol@example.com", IsActive: true},
	}
	products := []ProductRow{
		{ID: 10, SellerID: 1, Title: "Bike", PriceAmount: ptrFloat(500), Status: "active", CreatedAt: ptrTime(t0)},
		{ID: 11, SellerID: 99, Title: "Orphan", Status: "active"},
	}

	s := &Snapshot{
		Users:         users,
		Products:      products,
		Conversations: []ConversationRow{{ID: 20, CreatedAt: ptrTime(t0)}},
		Favorites: []FavoriteRow{
			{UserID: 1, ProductID: 10},
			{UserID: 2, ProductID: 999}, // dangling product
		},
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
	for _, u := range users {
		s.UsersByID[u.ID] = u
	}
	for _, p := range products {
		s.ProductsByID[p.ID] = p
	}

	s.Views = []ItemViewRow{
		{ID: 1, ProductID: 10, ViewerUserID: ptrInt64(2), ViewedAt: ptrTime(t0)},
		{ID: 2, ProductID: 10, ViewerUserID: nil, ViewedAt: ptrTime(t0)}, // anonymous, no edge
	}

	// Three-way conversation: C(3,2) = 3 MESSAGED pairs.
	s.ParticipantsByConversation[20] = []ParticipantRow{
		{ConversationID: 20, UserID: 1},
		{ConversationID: 20, UserID: 2},
		{ConversationID: 20, UserID: 3},
	}
	s.MessagesByConversation[20] = []MessageRow{
		{ID: 30, ConversationID: 20, SenderID: 1, Body: "hi"},
		{ID: 31, ConversationID: 20, SenderID: 2, Body: "yo"},
	}

	return s
}

func opsMatching(ops []CypherOp, fragment string) []CypherOp {
	var matched []CypherOp
	for _, op := range ops {
		if strings.Contains(op.Query, fragment) {
			matched = append(matched, op)
		}
	}
	return matched
}

func TestBuildGraphOpsUsesMergeEverywhere(t *testing.T) {
	ops, _ := BuildGraphOps(graphSnapshot())
	for _, op := range ops {
		assert.Contains(t, op.Query, "MERGE", "every projection op must be idempotent: %s", op.Query)
	}
}

func TestBuildGraphOpsSkipsDanglingSeller(t *testing.T) {
	ops, report := BuildGraphOps(graphSnapshot())

	assert.Equal(t, 1, report.Products)
	assert.Equal(t, 1, report.SkippedProducts)

	created := opsMatching(ops, "[:CREATED]")
	require.Len(t, created, 1)
	assert.Equal(t, "10", created[0].Params["id"])
	assert.Equal(t, "alice", created[0].Params["username"])
	assert.Equal(t, baseTime().Format(time.RFC3339), created[0].Params["created_at"])
}

func TestBuildGraphOpsFavoriteEdges(t *testing.T) {
	ops, report := BuildGraphOps(graphSnapshot())

	assert.Equal(t, 1, report.Favorites)
	assert.Equal(t, 1, report.SkippedFavorites)

	favorites := opsMatching(ops, "FAVORITED")
	require.Len(t, favorites, 1)
	assert.Equal(t, "alice", favorites[0].Params["username"])
	assert.Equal(t, "10", favorites[0].Params["product_id"])
}

func TestBuildGraphOpsViewedOverwrite(t *testing.T) {
	ops, report := BuildGraphOps(graphSnapshot())

	// Anonymous views never become edges.
	assert.Equal(t, 1, report.Views)

	views := opsMatching(ops, "VIEWED")
	require.Len(t, views, 1)
	// SET outside ON CREATE: a re-run overwrites viewed_at on the same edge.
	assert.Contains(t, views[0].Query, "MERGE (u)-[r:VIEWED]->(p) SET r.viewed_at")
	assert.Equal(t, "bob", views[0].Params["username"])
}

func TestBuildGraphOpsMessagedPairs(t *testing.T) {
	ops, report := BuildGraphOps(graphSnapshot())

	assert.Equal(t, 1, report.MessagedConversations)

	messaged := opsMatching(ops, "MESSAGED")
	require.Len(t, messaged, 3)

	for _, op := range messaged {
		assert.Equal(t, 2, op.Params["message_count"])
		assert.Contains(t, op.Query, "MERGE (u1)-[r1:MESSAGED]->(u2)")
		assert.Contains(t, op.Query, "MERGE (u2)-[r2:MESSAGED]->(u1)")
	}

	pairs := map[string]bool{}
	for _, op := range messaged {
		pairs[op.Params["user1"].(string)+"|"+op.Params["user2"].(string)] = true
	}
	assert.Equal(t, map[string]bool{
		"alice|bob":   true,
		"alice|carol": true,
		"bob|carol":   true,
	}, pairs)
}

func TestDerivedEdgeOps(t *testing.T) {
	ops := DerivedEdgeOps()
	require.Len(t, ops, 2)

	assert.Contains(t, ops[0].Query, "SIMILAR_TO")
	assert.Contains(t, ops[0].Query, "'same_category'")
	assert.Contains(t, ops[1].Query, "RELATED_TO")
	assert.Contains(t, ops[1].Query, "shared_users >= 2")

	// Lower-id-first ordering keeps the undirected MERGE from doubling
	// edges.
	for _, op := range ops {
		assert.Contains(t, op.Query, "p1.id < p2.id")
	}
}

func TestBuildGraphOpsViewCap(t *testing.T) {
	s := graphSnapshot()
	s.Views = nil
	t0 := baseTime()
	for i := 0; i < viewEventCap+50; i++ {
		s.Views = append(s.Views, ItemViewRow{
			ID:           int64(i),
			ProductID:    10,
			ViewerUserID: ptrInt64(2),
			ViewedAt:     ptrTime(t0.Add(-time.Duration(i) * time.Second)),
		})
	}

	_, report := BuildGraphOps(s)
	assert.Equal(t, viewEventCap, report.Views)
}
