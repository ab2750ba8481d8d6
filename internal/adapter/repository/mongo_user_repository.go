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

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = bson.NewObjectID().Hex()
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Conflict("Username or email already registered")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) List(ctx context.Context, skip, limit int) ([]*entity.User, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, errors.Internal("Failed to count users", err)
	}

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, errors.Internal("Failed to decode users", err)
	}
	return users, total, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error) {
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

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user entity.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to update user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, errors.Internal("Failed to delete user", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, errors.Internal("Failed to check username", err)
	}
	return count > 0, nil
}

func (r *mongoUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, errors.Internal("Failed to check email", err)
	}
	return count > 0, nil
}

func (r *mongoUserRepository) AdjustProductCount(ctx context.Context, id string, delta int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"product_count": delta}},
	)
	if err != nil {
		return errors.Internal("Failed to adjust product count", err)
	}
	return nil
}

func (r *mongoUserRepository) AddFavorite(ctx context.Context, userID, productID string) (bool, error) {
	// The filter excludes users that already hold the entry, so the $push
	// and the $inc either both apply or neither does. ModifiedCount tells
	// the caller which of the two happened.
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "favorites.product_id": bson.M{"$ne": productID}},
		bson.M{
			"$push": bson.M{"favorites": bson.M{"product_id": productID, "created_at": time.Now().UTC()}},
			"$inc":  bson.M{"favorite_count": 1},
		},
	)
	if err != nil {
		return false, errors.Internal("Failed to add favorite", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *mongoUserRepository) RemoveFavorite(ctx context.Context, userID, productID string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "favorites.product_id": productID},
		bson.M{
			"$pull": bson.M{"favorites": bson.M{"product_id": productID}},
			"$inc":  bson.M{"favorite_count": -1},
		},
	)
	if err != nil {
		return false, errors.Internal("Failed to remove favorite", err)
	}
	return result.ModifiedCount > 0, nil
}
