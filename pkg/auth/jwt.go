package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todoapi/internal/core/domain"
)

const DefaultTTL = 30 * time.Minute

// JWT signs and verifies compact HS256 identity claims. The subject is the
// user's email; the live user record is re-fetched on every verification, so
// the claim itself is never trusted for anything but identity.
type JWT struct {
	Secret string
	TTL    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &JWT{Secret: secret, TTL: ttl}
}

func (j *JWT) CreateToken(email string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(j.TTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

// VerifyToken returns the embedded email. Expired tokens map to
// domain.ErrTokenExpired; anything else malformed or tampered maps to
// domain.ErrTokenInvalid.
func (j *JWT) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}

		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	email, err := claims.GetSubject()

	if err != nil || email == "" {
		return "", domain.ErrTokenInvalid
	}

	return email, nil
}
