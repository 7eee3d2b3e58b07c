package dto

import (
	"time"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse defines the user data exposed over the API.
type UserResponse struct {
	UserID             string    `json:"userID"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	LastUpdatedAt      time.Time `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:             user.UserID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               string(user.Role),
		SubscriptionStatus: string(user.SubscriptionStatus),
		CreatedAt:          user.CreatedAt,
		LastUpdatedAt:      user.LastUpdatedAt,
	}
}

// ToListUserResponse converts domain users plus paging info to a ListUsersResponse DTO.
func ToListUserResponse(users []domain.User, page, limit, total int) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return ListUsersResponse{
		Users: userResponses,
		Pagination: PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
