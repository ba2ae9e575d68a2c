package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/repository"
	"github.com/JairoProDev/mitube-go/pkg/hash"
)

const tokenTTL = 7 * 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles signup, signin and token verification.
type AuthService struct {
	users  *repository.UserRepo
	secret []byte
}

func NewAuthService(users *repository.UserRepo, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

// SignUp creates a new account and returns it with a fresh token.
func (s *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	hashed, err := hash.Password(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hashed)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// SignIn verifies credentials and returns the user with a fresh token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthResponse, error) {
	user, err := s.users.FindByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// IssueToken signs an HS256 token carrying the user ID as subject.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses and validates a token, returning the user ID.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
