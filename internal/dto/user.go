package dto

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name               *string `json:"name"`
	Role               *string `json:"role" binding:"omitempty,oneof=user admin"`
	SubscriptionStatus *string `json:"subscriptionStatus" binding:"omitempty,oneof=free premium"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search"`
}

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListUsersResponse wraps the list of users with pagination metadata.
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationMeta `json:"pagination"`
}
