package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

func (uc *UserUseCase) List(ctx context.Context, skip, limit int) ([]*entity.User, int64, error) {
	return uc.userRepo.List(ctx, skip, limit)
}

func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *UserUseCase) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile lets a user change their own mutable profile fields.
// Username, email and the denormalized counters are not updatable here.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, username string, fields map[string]interface{}) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.userRepo.Update(ctx, user.ID, fields)
}

// Delete removes a user account. Callers are expected to have already
// enforced the admin gate.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("User", nil)
	}
	return nil
}
