package repository

import (
	"context"

	"fleamarkt/internal/domain/entity"
)

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUsername(ctx context.Context, username string, skip, limit int) ([]*entity.Conversation, error)

	// AppendMessage pushes onto the embedded messages list and updates the
	// derived message_count and last_message_at in the same write.
	AppendMessage(ctx context.Context, id string, message entity.Message) (*entity.Conversation, error)
}
