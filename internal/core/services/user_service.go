package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	portsrepo "github.com/skyrates/skyrates_backend/internal/core/ports/repositories"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/dto"
	"github.com/skyrates/skyrates_backend/internal/utils"
)

// UserService implements user management on top of the user repository.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) *UserService {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser registers a new user with the default role and a free subscription.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user in service: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email '%s' is already registered", apperrors.ErrDuplicate, req.Email)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password in service: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:             newUserID,
		Email:              req.Email,
		Name:               req.Name,
		PasswordHash:       passwordHash,
		Role:               domain.RoleUser,
		SubscriptionStatus: domain.SubscriptionFree,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email in service: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// ListUsers retrieves a page of users plus the total match count.
func (s *UserService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	users, total, err := s.userRepo.FindUsers(ctx, limit, offset, params.Search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users in service: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

// UpdateUser applies the provided partial update to a user.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = domain.UserRole(*req.Role)
	}
	if req.SubscriptionStatus != nil {
		user.SubscriptionStatus = domain.SubscriptionStatus(*req.SubscriptionStatus)
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user in service: %w", err)
	}
	return user, nil
}

// UpdateRefreshToken stores the hashed refresh token for a user.
func (s *UserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token in service: %w", err)
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token for a user.
func (s *UserService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token in service: %w", err)
	}
	return nil
}

// SetStripeCustomerID records the Stripe customer backing this user.
func (s *UserService) SetStripeCustomerID(ctx context.Context, userID string, customerID string) error {
	if err := s.userRepo.SetStripeCustomerID(ctx, userID, customerID); err != nil {
		return fmt.Errorf("failed to set stripe customer in service: %w", err)
	}
	return nil
}

// SetSubscriptionStatusByCustomerID flips the subscription state of the user
// owning the given Stripe customer.
func (s *UserService) SetSubscriptionStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) error {
	if err := s.userRepo.UpdateSubscriptionByCustomerID(ctx, customerID, status); err != nil {
		return fmt.Errorf("failed to update subscription in service: %w", err)
	}
	return nil
}

// DeleteUser marks a user as deleted (soft delete).
func (s *UserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user in service: %w", err)
	}
	return nil
}

// AuthenticateUser verifies the email/password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to authenticate user in service: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves the account for a verified Google identity,
// creating it on first sign-in. Google accounts carry no local password.
func (s *UserService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	if info == nil || info.Email == "" {
		return nil, fmt.Errorf("%w: google identity is missing an email", apperrors.ErrValidation)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("%w: google email is not verified", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user in service: %w", err)
	}
	if user != nil {
		return user, nil
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:             newUserID,
		Email:              info.Email,
		Name:               info.Name,
		Role:               domain.RoleUser,
		SubscriptionStatus: domain.SubscriptionFree,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create google user in service: %w", err)
	}
	return &newUser, nil
}
