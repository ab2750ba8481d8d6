package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/domain/service"
	"fleamarkt/pkg/errors"
)

// GraphAuthUseCase is the graph-backed counterpart of AuthUseCase. Both
// issue tokens from the same AuthService, so a token minted against one
// backend is accepted by the other.
type GraphAuthUseCase struct {
	userRepo repository.GraphUserRepository
	auth     *service.AuthService
}

func NewGraphAuthUseCase(userRepo repository.GraphUserRepository, auth *service.AuthService) *GraphAuthUseCase {
	return &GraphAuthUseCase{
		userRepo: userRepo,
		auth:     auth,
	}
}

func (uc *GraphAuthUseCase) Register(ctx context.Context, input RegisterInput) (*TokenResult, error) {
	if _, err := uc.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, errors.Conflict("Username already registered")
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	hashed, err := uc.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.Register(ctx, &entity.GraphUser{
		Username:       input.Username,
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hashed,
	})
	if err != nil {
		return nil, err
	}
	return uc.issueToken(user)
}

func (uc *GraphAuthUseCase) Login(ctx context.Context, identifier, password string) (*TokenResult, error) {
	user, err := uc.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Incorrect username/email or password", nil)
		}
		return nil, err
	}

	if !uc.auth.VerifyPassword(password, user.HashedPassword) {
		return nil, errors.Unauthorized("Incorrect username/email or password", nil)
	}
	if !user.IsActive {
		return nil, errors.BadRequest("Inactive user account", nil)
	}

	return uc.issueToken(user)
}

func (uc *GraphAuthUseCase) issueToken(user *entity.GraphUser) (*TokenResult, error) {
	token, err := uc.auth.CreateAccessToken(user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(uc.auth.Expiry().Seconds()),
		User:        user,
	}, nil
}
