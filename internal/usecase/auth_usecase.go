package usecase

import (
	"context"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/domain/service"
	"fleamarkt/pkg/errors"
)

// AuthUseCase handles register/login against the document backend.
type AuthUseCase struct {
	userRepo repository.UserRepository
	auth     *service.AuthService
}

func NewAuthUseCase(userRepo repository.UserRepository, auth *service.AuthService) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		auth:     auth,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

type TokenResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        interface{} `json:"user"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*TokenResult, error) {
	exists, err := uc.userRepo.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Username already registered")
	}

	exists, err = uc.userRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Email already registered")
	}

	hashed, err := uc.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		FullName:       input.FullName,
		Phone:          input.Phone,
		IsActive:       true,
		IsAdmin:        false,
		ProductCount:   0,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return uc.issueToken(user)
}

// Login accepts a username or an email as identifier.
func (uc *AuthUseCase) Login(ctx context.Context, identifier, password string) (*TokenResult, error) {
	user, err := uc.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		user, err = uc.userRepo.GetByEmail(ctx, identifier)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return nil, errors.Unauthorized("Incorrect username/email or password", nil)
			}
			return nil, err
		}
	}

	if !uc.auth.VerifyPassword(password, user.HashedPassword) {
		return nil, errors.Unauthorized("Incorrect username/email or password", nil)
	}
	if !user.IsActive {
		return nil, errors.BadRequest("Inactive user account", nil)
	}

	return uc.issueToken(user)
}

func (uc *AuthUseCase) issueToken(user *entity.User) (*TokenResult, error) {
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
