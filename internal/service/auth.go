// Package service contains the business logic between the HTTP handlers and
// the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leaflist/leaflist-server/internal/auth"
	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/email"
	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/id"
	"github.com/leaflist/leaflist-server/internal/store"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// AuthService handles registration, login and email verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	emailService email.Sender
	validator    *validation.Validator
	logger       *slog.Logger

	// baseURL is the externally reachable server URL used to compose
	// verification links.
	baseURL string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	emailService email.Sender,
	validator *validation.Validator,
	logger *slog.Logger,
	baseURL string,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		emailService: emailService,
		validator:    validator,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// RegisterRequest contains user registration data. Clients may send an
// isActive flag; it is accepted for compatibility but ignored, since every
// account starts inactive until email verification completes.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=30"`
	IsActive bool   `json:"isActive,omitempty"`
}

// LoginRequest contains local login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the bearer token and the authenticated user.
type LoginResponse struct {
	Token string    `json:"token"`
	User  *dto.User `json:"user"`
}

// UpdateUserRequest carries the mutable profile fields. Empty fields are
// left unchanged. Password length is checked in UpdateUser rather than by
// tag: an already-encoded hash is far longer than any allowed plaintext and
// must pass through untouched.
type UpdateUserRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=3,max=30"`
	Password string `json:"password,omitempty"`
}

// Register creates a new inactive account and sends the verification email.
// The account stays inactive until the emailed token is redeemed.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*dto.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Record: domain.Record{
			ID: userID,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsActive:     false,
		Role:         domain.RoleRegularUser,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Reported as a validation failure so registration answers
			// with 400, the same as any other bad input.
			return nil, domainerrors.Validation("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.SendVerification(ctx, user); err != nil {
		// The account exists; a failed send is recoverable via the resend
		// endpoint, so log and carry on.
		if s.logger != nil {
			s.logger.Warn("Failed to send verification email",
				"user_id", userID, "email", user.Email, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("User registered", "user_id", userID, "email", user.Email)
	}

	return dto.NewUser(user), nil
}

// Login verifies local credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasLocalPassword() {
		// Federated account with no local password set.
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if !user.IsActive {
		return nil, domainerrors.Forbidden("email address not verified")
	}

	token, err := s.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &LoginResponse{
		Token: token,
		User:  dto.NewUser(user),
	}, nil
}

// VerifyAccessToken validates a bearer token and loads the account it was
// issued to. Tokens for deactivated accounts are rejected.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	if !user.IsActive {
		return nil, nil, domainerrors.Forbidden("account is not active")
	}

	return user, claims, nil
}

// GetUser returns an account by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*dto.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return dto.NewUser(user), nil
}

// GetUsersByEmail returns the accounts matching an exact email address.
// The result is a slice for client convenience; emails are unique so it
// holds at most one user.
func (s *AuthService) GetUsersByEmail(ctx context.Context, emailAddr string) ([]*dto.User, error) {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return []*dto.User{dto.NewUser(user)}, nil
}

// UpdateUser applies profile changes to the caller's own account. A new
// password is hashed before storage; a value that is already an encoded hash
// is stored as-is rather than hashed twice.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*dto.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Password != "" {
		if auth.IsHashed(req.Password) {
			// Re-saving an already-hashed password is a no-op; never
			// hash a hash.
			user.PasswordHash = req.Password
		} else {
			if len(req.Password) < 6 || len(req.Password) > 30 {
				return nil, domainerrors.Validation("password must be between 6 and 30 characters")
			}
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User updated", "user_id", userID)
	}

	return dto.NewUser(user), nil
}

// SendVerification issues a fresh single-use verification token for the user,
// records its ID on the account, and emails the link. Re-sending invalidates
// any previously issued token.
func (s *AuthService) SendVerification(ctx context.Context, user *domain.User) error {
	if user.IsActive {
		return domainerrors.Conflict("email address already verified")
	}

	tokenID, err := id.Generate("vtok")
	if err != nil {
		return fmt.Errorf("generate token ID: %w", err)
	}

	token, err := s.tokenService.GenerateVerificationToken(user.ID, user.Email, tokenID)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	user.VerificationTokenID = tokenID
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("record verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/api/email/verify/%s", s.baseURL, token)
	return s.emailService.SendVerificationEmail(ctx, user.Email, user.Name, verifyURL)
}

// ResendVerification looks the user up by email and sends a fresh
// verification link.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.SendVerification(ctx, user)
}

// VerifyEmail redeems a verification token, activating the account. Each
// token redeems at most once: its ID must match the outstanding ID on the
// user record, which is cleared on success.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*dto.User, error) {
	claims, err := s.tokenService.VerifyVerificationToken(token)
	if err != nil {
		return nil, domainerrors.TokenExpired("verification link is invalid or expired")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.VerificationTokenID == "" || user.VerificationTokenID != claims.TokenID {
		return nil, domainerrors.TokenExpired("verification link has already been used")
	}

	user.IsActive = true
	user.VerificationTokenID = ""

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Email verified", "user_id", user.ID)
	}

	return dto.NewUser(user), nil
}
