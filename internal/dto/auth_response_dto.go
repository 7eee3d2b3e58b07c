package dto

import "time"

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignInRequest carries the ID token obtained by the frontend.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleExchangeCodeRequest carries the OAuth authorization code from Google.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned after a successful login, registration or refresh.
// The refresh token itself travels in an HttpOnly cookie, never in the body.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
