package domain

import "time"

// UserRole distinguishes regular users from administrators.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// SubscriptionStatus reflects the user's billing state as last reported by Stripe.
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
)

// User represents a dashboard account.
type User struct {
	UserID             string             `json:"userID"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	PasswordHash       string             `json:"-"`
	Role               UserRole           `json:"role"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	StripeCustomerID   string             `json:"-"`
	AuditFields
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPremiumAccess reports whether premium-gated features (exchange rates,
// conversion) are available: admins always pass, everyone else needs an
// active premium subscription.
func (u *User) HasPremiumAccess() bool {
	return u.IsAdmin() || u.SubscriptionStatus == SubscriptionPremium
}

// GoogleUserInfo holds the subset of the Google ID token payload we consume.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
