package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/store"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// AdminService exposes moderation operations over the four record types.
// Every caller has already passed the admin-role gate in the API layer.
type AdminService struct {
	store     *store.Store
	enricher  *dto.Enricher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	store *store.Store,
	enricher *dto.Enricher,
	validator *validation.Validator,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		store:     store,
		enricher:  enricher,
		validator: validator,
		logger:    logger,
	}
}

// AdminUpdateUserRequest lets an admin flip account flags.
type AdminUpdateUserRequest struct {
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=regular_user manager admin"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]*dto.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return dto.NewUsers(users), nil
}

// UpdateUser applies role or activation changes to an account.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, req AdminUpdateUserRequest) (*dto.User, error) {
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

	if req.Role != "" {
		user.Role = domain.Role(req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User updated by admin", "user_id", userID)
	}

	return dto.NewUser(user), nil
}

// DeleteUser removes an account and everything it owns.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User deleted by admin", "user_id", userID)
	}
	return nil
}

// ListBookLists returns every list, public and private.
func (s *AdminService) ListBookLists(ctx context.Context) ([]*dto.BookList, error) {
	lists, err := s.store.ListBookLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list book lists: %w", err)
	}
	return s.enricher.EnrichBookLists(ctx, lists)
}

// GetBookList returns one expanded list, hidden reviews included.
func (s *AdminService) GetBookList(ctx context.Context, listID string) (*dto.BookList, error) {
	list, err := s.store.GetBookList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return nil, domainerrors.NotFound("book list not found")
		}
		return nil, fmt.Errorf("get book list: %w", err)
	}
	return s.enricher.EnrichBookList(ctx, list, true)
}

// DeleteBookList removes any list regardless of owner.
func (s *AdminService) DeleteBookList(ctx context.Context, listID string) error {
	if err := s.store.DeleteBookList(ctx, listID); err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return domainerrors.NotFound("book list not found")
		}
		return fmt.Errorf("delete book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book list deleted by admin", "list_id", listID)
	}
	return nil
}

// ListBooks returns the whole catalog.
func (s *AdminService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// DeleteBook removes a catalog record and detaches it from every list.
func (s *AdminService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book deleted by admin", "book_id", bookID)
	}
	return nil
}

// ListReviews returns every review on a list, hidden ones included.
func (s *AdminService) ListReviews(ctx context.Context, listID string) ([]*dto.Review, error) {
	reviews, err := s.store.ListReviewsByBookList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return nil, domainerrors.NotFound("book list not found")
		}
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return s.enricher.EnrichReviews(ctx, reviews)
}

// DeleteReview removes a review outright, unlike the user-facing hide.
func (s *AdminService) DeleteReview(ctx context.Context, reviewID string) error {
	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return domainerrors.NotFound("review not found")
		}
		return fmt.Errorf("delete review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review deleted by admin", "review_id", reviewID)
	}
	return nil
}
