package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
)

const priceHistoryCap = 50

type mongoProductRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	categories *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) repository.ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
		users:      db.Collection("users"),
		categories: db.Collection("categories"),
	}
}

func (r *mongoProductRepository) Create(ctx context.Context, input repository.ProductCreate, sellerID string) (*entity.Product, error) {
	var seller entity.User
	err := r.users.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&seller)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Seller", err)
		}
		return nil, errors.Internal("Failed to resolve seller", err)
	}

	// Snapshot taken now; never refreshed if the seller's profile changes.
	sellerEmbedded := entity.SellerEmbedded{
		ID:       seller.ID,
		Username: seller.Username,
		FullName: seller.FullName,
	}

	var categoryEmbedded *entity.CategoryEmbedded
	if input.CategoryID != "" {
		var category entity.CategoryEmbedded
		if err := r.categories.FindOne(ctx, bson.M{"_id": input.CategoryID}).Decode(&category); err == nil {
			categoryEmbedded = &category
		}
	}

	now := time.Now().UTC()
	currency := input.PriceCurrency
	if currency == "" {
		currency = "DKK"
	}

	product := &entity.Product{
		ID:            bson.NewObjectID().Hex(),
		Title:         input.Title,
		Description:   input.Description,
		PriceAmount:   input.PriceAmount,
		PriceCurrency: currency,
		Condition:     input.Condition,
		Status:        entity.ProductStatusActive,
		Seller:        sellerEmbedded,
		Category:      categoryEmbedded,
		Details: entity.ProductDetails{
			Colors:    emptyIfNil(input.Colors),
			Materials: emptyIfNil(input.Materials),
			Tags:      emptyIfNil(input.Tags),
		},
		Images:    []entity.ProductImage{},
		Stats:     entity.ProductStats{ViewCount: 0, FavoriteCount: 0},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return nil, errors.Internal("Failed to create product", err)
	}

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": sellerID},
		bson.M{"$inc": bson.M{"product_count": 1}},
	)
	if err != nil {
		return nil, errors.Internal("Failed to increment seller product count", err)
	}

	return product, nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) GetAll(ctx context.Context, filter repository.ProductFilter, skip, limit int) ([]*entity.Product, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.SellerID != "" {
		query["seller.id"] = filter.SellerID
	}
	if filter.CategoryID != "" {
		query["category.id"] = filter.CategoryID
	}

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	return r.find(ctx, query, opts)
}

func (r *mongoProductRepository) Search(ctx context.Context, text string, skip, limit int) ([]*entity.Product, error) {
	query := bson.M{"$text": bson.M{"$search": text}}
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return r.find(ctx, query, opts)
}

func (r *mongoProductRepository) Filter(ctx context.Context, filter repository.SearchFilter, skip, limit int) ([]*entity.Product, error) {
	query := bson.M{}
	if filter.Text != "" {
		query["title"] = bson.M{"$regex": filter.Text, "$options": "i"}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price_amount"] = price
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.SellerUsername != "" {
		query["seller.username"] = filter.SellerUsername
	}
	if filter.Tag != "" {
		query["details.tags"] = filter.Tag
	}

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	return r.find(ctx, query, opts)
}

func (r *mongoProductRepository) find(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]*entity.Product, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Internal("Failed to query products", err)
	}
	defer cursor.Close(ctx)

	products := []*entity.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, errors.Internal("Failed to decode products", err)
	}
	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Product, error) {
	set := bson.M{}
	for key, value := range fields {
		if value != nil {
			set[key] = value
		}
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	update := bson.M{"$set": set}
	if amount, ok := set["price_amount"].(float64); ok {
		// Price changes append to the bounded history list; oldest entries
		// fall off past the cap.
		now := time.Now().UTC()
		update["$push"] = bson.M{
			"price_history": bson.M{
				"$each":  []entity.PriceHistoryEntry{{Amount: amount, Currency: "DKK", ChangedAt: &now}},
				"$slice": -priceHistoryCap,
			},
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product entity.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to update product", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	var product entity.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, errors.Internal("Failed to get product", err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, errors.Internal("Failed to delete product", err)
	}
	if result.DeletedCount == 0 {
		return false, nil
	}

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": product.Seller.ID},
		bson.M{"$inc": bson.M{"product_count": -1}},
	)
	if err != nil {
		return true, errors.Internal("Failed to decrement seller product count", err)
	}
	return true, nil
}

func (r *mongoProductRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stats.view_count": 1}},
	)
	if err != nil {
		return errors.Internal("Failed to increment view count", err)
	}
	return nil
}

func (r *mongoProductRepository) AdjustFavoriteCount(ctx context.Context, id string, delta int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stats.favorite_count": delta}},
	)
	if err != nil {
		return errors.Internal("Failed to adjust favorite count", err)
	}
	return nil
}

func (r *mongoProductRepository) GetPopular(ctx context.Context, limit int) ([]*entity.Product, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "stats.view_count", Value: -1}})
	return r.find(ctx, bson.M{"status": entity.ProductStatusActive}, opts)
}

func (r *mongoProductRepository) TopCategories(ctx context.Context, limit int) ([]entity.CategoryCount, error) {
	// Products without a category are excluded from the grouping.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":   entity.ProductStatusActive,
			"category": bson.M{"$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$category.name",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Internal("Failed to aggregate categories", err)
	}
	defer cursor.Close(ctx)

	counts := []entity.CategoryCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, errors.Internal("Failed to decode category counts", err)
	}
	return counts, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
