package services

import (
	"context"
	"time"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
)

// TokenSvcFacade handles JWT access tokens and opaque refresh tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user and returns its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a new opaque refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken checks a presented refresh token against the
	// stored hash and returns the owning user.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}

// GoogleAuthSvcFacade verifies Google ID tokens for OAuth sign-in.
type GoogleAuthSvcFacade interface {
	// ValidateIDToken verifies the ID token signature and audience and returns
	// the contained identity.
	ValidateIDToken(ctx context.Context, idToken string) (*domain.GoogleUserInfo, error)

	// ExchangeCodeForIDToken exchanges an OAuth authorization code for tokens
	// and returns the raw ID token from Google's response.
	ExchangeCodeForIDToken(ctx context.Context, code string) (string, error)
}
