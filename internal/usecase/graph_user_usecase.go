package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
)

type GraphUserUseCase struct {
	userRepo repository.GraphUserRepository
}

func NewGraphUserUseCase(userRepo repository.GraphUserRepository) *GraphUserUseCase {
	return &GraphUserUseCase{userRepo: userRepo}
}

// Upsert merges a user node on its username. Re-submitting the same
// username overwrites the profile fields; nothing is protected.
func (uc *GraphUserUseCase) Upsert(ctx context.Context, user *entity.GraphUser) (*entity.GraphUser, error) {
	return uc.userRepo.Upsert(ctx, user)
}

func (uc *GraphUserUseCase) GetByUsername(ctx context.Context, username string) (*entity.GraphUser, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

func (uc *GraphUserUseCase) List(ctx context.Context, skip, limit int) ([]*entity.GraphUser, error) {
	return uc.userRepo.List(ctx, skip, limit)
}
