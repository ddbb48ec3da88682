package port

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// Verify validates the token and re-fetches the live user record, so a
	// deactivated account is rejected even while its token is still
	// cryptographically valid.
	Verify(ctx context.Context, token string) (domain.User, error)
}

type TokenIssuer interface {
	CreateToken(email string) (string, error)
	VerifyToken(token string) (string, error)
}
