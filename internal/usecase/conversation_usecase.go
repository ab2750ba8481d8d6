package usecase

import (
	"context"
	"time"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
}

func NewConversationUseCase(conversationRepo repository.ConversationRepository, userRepo repository.UserRepository) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
	}
}

func (uc *ConversationUseCase) ListForUser(ctx context.Context, username string, skip, limit int) ([]*entity.Conversation, error) {
	return uc.conversationRepo.ListByUsername(ctx, username, skip, limit)
}

// GetByID returns a conversation only to its participants.
func (uc *ConversationUseCase) GetByID(ctx context.Context, id, username string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(conversation, username) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conversation, nil
}

// SendMessage appends a message with the sender snapshot taken at send
// time.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, id, username, body string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(conversation, username) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	sender, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := entity.Message{
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		Body:           body,
		IsRead:         false,
		CreatedAt:      &now,
	}
	return uc.conversationRepo.AppendMessage(ctx, id, message)
}

func isParticipant(conversation *entity.Conversation, username string) bool {
	for _, p := range conversation.Participants {
		if p.Username == username {
			return true
		}
	}
	return false
}
