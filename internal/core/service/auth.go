package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/internal/core/util"
)

type AuthService struct {
	repo  port.UserRepository
	token port.TokenIssuer
}

func NewAuthService(repo port.UserRepository, token port.TokenIssuer) *AuthService {
	return &AuthService{repo: repo, token: token}
}

// normalizeEmail lowercases the address; email is the case-insensitive key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *AuthService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := as.repo.GetByEmail(ctx, email)

	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		slog.Error("Auth#Register", "generate_encrypt", err)
		return nil, err
	}

	now := time.Now().UTC()

	user := domain.User{
		UUID:              uuid.New(),
		Email:             email,
		EncryptedPassword: encrypted,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	saved, err := as.repo.Create(ctx, user)

	if err != nil {
		return nil, err
	}

	return as.authResponse(saved)
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	user, err := as.repo.GetByEmail(ctx, normalizeEmail(req.Email))

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same shape as a wrong password, so callers cannot probe
			// which emails are registered.
			return nil, domain.ErrInvalidCredentials
		}

		return nil, err
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	return as.authResponse(user)
}

// Verify resolves a token back to the live user record. The re-fetch is what
// makes deactivation take effect on the very next request, even while the
// token itself is still within its TTL.
func (as *AuthService) Verify(ctx context.Context, token string) (domain.User, error) {
	email, err := as.token.VerifyToken(token)

	if err != nil {
		return domain.User{}, err
	}

	user, err := as.repo.GetByEmail(ctx, email)

	if err != nil {
		return domain.User{}, err
	}

	if !user.IsActive {
		return domain.User{}, domain.ErrAccountInactive
	}

	return user, nil
}

func (as *AuthService) authResponse(user domain.User) (*response.AuthResponse, error) {
	accessToken, err := as.token.CreateToken(user.Email)

	if err != nil {
		slog.Error("Auth#authResponse", "create_token", err)
		return nil, err
	}

	return &response.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User: response.UserSummary{
			ID:       user.ID,
			Email:    user.Email,
			IsActive: user.IsActive,
		},
	}, nil
}
