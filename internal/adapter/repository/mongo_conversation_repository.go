package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
)

type mongoConversationRepository struct {
	collection *mongo.Collection
}

func NewMongoConversationRepository(db *mongo.Database) repository.ConversationRepository {
	return &mongoConversationRepository{
		collection: db.Collection("conversations"),
	}
}

func (r *mongoConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}
	return &conversation, nil
}

func (r *mongoConversationRepository) ListByUsername(ctx context.Context, username string, skip, limit int) ([]*entity.Conversation, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "last_message_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"participants.username": username}, opts)
	if err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}
	defer cursor.Close(ctx)

	conversations := []*entity.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, errors.Internal("Failed to decode conversations", err)
	}
	return conversations, nil
}

func (r *mongoConversationRepository) AppendMessage(ctx context.Context, id string, message entity.Message) (*entity.Conversation, error) {
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$inc":  bson.M{"message_count": 1},
		"$set":  bson.M{"last_message_at": message.CreatedAt},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conversation entity.Conversation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to append message", err)
	}
	return &conversation, nil
}
