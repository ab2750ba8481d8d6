package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fleamarkt/pkg/errors"
)

// AuthService handles password hashing and bearer token issuance for both
// backend families. Tokens carry the username as the subject claim.
type AuthService struct {
	secret []byte
	expiry time.Duration
}

func NewAuthService(secret string, expirySeconds int64) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		expiry: time.Duration(expirySeconds) * time.Second,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Internal("Failed to hash password", err)
	}
	return string(hashed), nil
}

func (s *AuthService) VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func (s *AuthService) Expiry() time.Duration {
	return s.expiry
}

func (s *AuthService) CreateAccessToken(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// VerifyToken validates the signature and expiry and returns the subject
// username.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.Unauthorized("Invalid token claims", nil)
	}
	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return "", errors.Unauthorized("Invalid token subject", err)
	}
	return username, nil
}
