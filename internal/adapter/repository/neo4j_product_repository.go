package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/infrastructure/graphdb"
	"fleamarkt/pkg/errors"
)

type neo4jProductRepository struct {
	runner graphdb.Runner
}

func NewNeo4jProductRepository(runner graphdb.Runner) repository.GraphProductRepository {
	return &neo4jProductRepository{runner: runner}
}

func (r *neo4jProductRepository) Create(ctx context.Context, sellerUsername string, product *entity.GraphProduct) (*entity.GraphProduct, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	query := "MERGE (u:User {username: $username}) " +
		"CREATE (p:Product {id: $id, title: $title, description: $description, " +
		"price_amount: $price_amount, status: 'active', view_count: 0, favorite_count: 0, " +
		"created_at: $created_at}) " +
		"MERGE (u)-[:CREATED {at: $created_at}]->(p) " +
		"RETURN p"

	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"username":     sellerUsername,
		"id":           product.ID,
		"title":        product.Title,
		"description":  product.Description,
		"price_amount": product.PriceAmount,
		"created_at":   createdAt,
	})
	if err != nil {
		return nil, errors.Internal("Failed to create product", err)
	}
	props := singleNodeProps(result, "p")
	if props == nil {
		return nil, errors.Internal("Failed to create product", nil)
	}
	return graphProductFromProps(props), nil
}

func (r *neo4jProductRepository) GetByID(ctx context.Context, id string) (*entity.GraphProduct, error) {
	result, err := r.runner.Run(ctx, "MATCH (p:Product {id: $id}) RETURN p", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, errors.Internal("Failed to get product", err)
	}
	props := singleNodeProps(result, "p")
	if props == nil {
		return nil, errors.NotFound("Product", nil)
	}
	return graphProductFromProps(props), nil
}

func (r *neo4jProductRepository) List(ctx context.Context, skip, limit int, status string) ([]*entity.GraphProduct, error) {
	query := "MATCH (p:Product) RETURN p ORDER BY p.created_at DESC SKIP $skip LIMIT $limit"
	params := map[string]interface{}{
		"skip":  int64(skip),
		"limit": int64(limit),
	}
	if status != "" {
		query = "MATCH (p:Product {status: $status}) RETURN p ORDER BY p.created_at DESC SKIP $skip LIMIT $limit"
		params["status"] = status
	}

	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, errors.Internal("Failed to list products", err)
	}
	return r.collectProducts(result.Records), nil
}

func (r *neo4jProductRepository) Popular(ctx context.Context, limit int) ([]*entity.GraphProduct, error) {
	query := "MATCH (p:Product) RETURN p ORDER BY p.view_count DESC LIMIT $limit"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"limit": int64(limit),
	})
	if err != nil {
		return nil, errors.Internal("Failed to list popular products", err)
	}
	return r.collectProducts(result.Records), nil
}

// SellerUsername resolves ownership purely from the CREATED edge; there
// is no separate ACL. An empty return means no owner edge exists.
func (r *neo4jProductRepository) SellerUsername(ctx context.Context, productID string) (string, error) {
	query := "MATCH (u:User)-[:CREATED]->(p:Product {id: $id}) RETURN u.username AS username"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"id": productID,
	})
	if err != nil {
		return "", errors.Internal("Failed to resolve product owner", err)
	}
	if len(result.Records) == 0 {
		return "", nil
	}
	value, ok := result.Records[0].Get("username")
	if !ok {
		return "", nil
	}
	username, _ := value.(string)
	return username, nil
}

func (r *neo4jProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.GraphProduct, error) {
	props := map[string]interface{}{}
	for key, value := range fields {
		if value != nil {
			props[key] = value
		}
	}
	if len(props) == 0 {
		return r.GetByID(ctx, id)
	}

	query := "MATCH (p:Product {id: $id}) SET p += $props RETURN p"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"id":    id,
		"props": props,
	})
	if err != nil {
		return nil, errors.Internal("Failed to update product", err)
	}
	nodeProps := singleNodeProps(result, "p")
	if nodeProps == nil {
		return nil, errors.NotFound("Product", nil)
	}
	return graphProductFromProps(nodeProps), nil
}

func (r *neo4jProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	// DETACH DELETE removes the node and every incident edge in one
	// operation, so no orphaned edges are left behind.
	query := "MATCH (p:Product {id: $id}) DETACH DELETE p RETURN count(p) AS deleted"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return false, errors.Internal("Failed to delete product", err)
	}
	if len(result.Records) == 0 {
		return false, nil
	}
	value, _ := result.Records[0].Get("deleted")
	deleted, _ := value.(int64)
	return deleted > 0, nil
}

func (r *neo4jProductRepository) SetStatus(ctx context.Context, id, status string) (*entity.GraphProduct, error) {
	query := "MATCH (p:Product {id: $id}) SET p.status = $status RETURN p"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"id":     id,
		"status": status,
	})
	if err != nil {
		return nil, errors.Internal("Failed to set product status", err)
	}
	props := singleNodeProps(result, "p")
	if props == nil {
		return nil, errors.NotFound("Product", nil)
	}
	return graphProductFromProps(props), nil
}

func (r *neo4jProductRepository) AddFavorite(ctx context.Context, username, productID string) error {
	// MERGE keeps the edge unique per (user, product); the counter moves
	// only when the edge is first created, so repeat favorites are no-ops.
	query := "MATCH (u:User {username: $username}), (p:Product {id: $product_id}) " +
		"MERGE (u)-[f:FAVORITED]->(p) " +
		"ON CREATE SET f.at = $now, p.favorite_count = coalesce(p.favorite_count, 0) + 1 " +
		"RETURN p"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"username":   username,
		"product_id": productID,
		"now":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Internal("Failed to favorite product", err)
	}
	if len(result.Records) == 0 {
		return errors.NotFound("Product", nil)
	}
	return nil
}

func (r *neo4jProductRepository) TrackView(ctx context.Context, productID, username string) error {
	if username == "" {
		// Anonymous views move the counter without an edge; the graph keeps
		// no per-viewer record for them.
		query := "MATCH (p:Product {id: $product_id}) " +
			"SET p.view_count = coalesce(p.view_count, 0) + 1 " +
			"RETURN p"
		result, err := r.runner.Run(ctx, query, map[string]interface{}{
			"product_id": productID,
		})
		if err != nil {
			return errors.Internal("Failed to track view", err)
		}
		if len(result.Records) == 0 {
			return errors.NotFound("Product", nil)
		}
		return nil
	}

	// Repeat views from the same user overwrite viewed_at instead of
	// creating parallel edges; only the latest view survives in the graph.
	query := "MATCH (u:User {username: $username}), (p:Product {id: $product_id}) " +
		"MERGE (u)-[r:VIEWED]->(p) " +
		"SET r.viewed_at = $now, p.view_count = coalesce(p.view_count, 0) + 1 " +
		"RETURN p"
	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"username":   username,
		"product_id": productID,
		"now":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Internal("Failed to track view", err)
	}
	if len(result.Records) == 0 {
		return errors.NotFound("Product", nil)
	}
	return nil
}

// Recommendations scores candidates by the number of distinct users who
// interacted (favorite or view, either direction counts once per user)
// with both the target and the candidate.
func (r *neo4jProductRepository) Recommendations(ctx context.Context, productID string, limit int) ([]*entity.RecommendedProduct, error) {
	query := "MATCH (target:Product {id: $id})<-[:FAVORITED|VIEWED]-(u:User)-[:FAVORITED|VIEWED]->(rec:Product) " +
		"WHERE rec.id <> $id " +
		"WITH rec, count(DISTINCT u) AS score " +
		"WHERE score > 0 " +
		"RETURN rec, score " +
		"ORDER BY score DESC, rec.created_at DESC " +
		"LIMIT $limit"

	result, err := r.runner.Run(ctx, query, map[string]interface{}{
		"id":    productID,
		"limit": int64(limit),
	})
	if err != nil {
		return nil, errors.Internal("Failed to compute recommendations", err)
	}

	recommendations := []*entity.RecommendedProduct{}
	for _, record := range result.Records {
		props := recordNodeProps(record, "rec")
		if props == nil {
			continue
		}
		scoreValue, _ := record.Get("score")
		score, _ := scoreValue.(int64)
		recommendations = append(recommendations, &entity.RecommendedProduct{
			GraphProduct: *graphProductFromProps(props),
			Score:        score,
		})
	}
	return recommendations, nil
}

func (r *neo4jProductRepository) collectProducts(records []*neo4j.Record) []*entity.GraphProduct {
	products := []*entity.GraphProduct{}
	for _, record := range records {
		if props := recordNodeProps(record, "p"); props != nil {
			products = append(products, graphProductFromProps(props))
		}
	}
	return products
}
