package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/id"
	"github.com/leaflist/leaflist-server/internal/store"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// ReviewService handles posting and hiding reviews on booklists.
type ReviewService struct {
	store     *store.Store
	enricher  *dto.Enricher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	store *store.Store,
	enricher *dto.Enricher,
	validator *validation.Validator,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		store:     store,
		enricher:  enricher,
		validator: validator,
		logger:    logger,
	}
}

// CreateReviewRequest contains a new review for a public list.
type CreateReviewRequest struct {
	BookListID string `json:"booklist" validate:"required"`
	Body       string `json:"review" validate:"required,min=3"`
}

// UpdateReviewRequest hides the author's own review. Hiding is the only
// mutation: the record stays attached to the list, it just stops rendering.
type UpdateReviewRequest struct {
	ReviewID string `json:"reviewId" validate:"required"`
}

// Create posts a review against a public booklist.
func (s *ReviewService) Create(ctx context.Context, callerID string, req CreateReviewRequest) (*dto.Review, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	list, err := s.store.GetBookList(ctx, req.BookListID)
	if err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return nil, domainerrors.NotFound("book list not found")
		}
		return nil, fmt.Errorf("get book list: %w", err)
	}

	// Private lists are not reviewable by others, and their owner has no
	// audience to review for.
	if list.Visibility.IsPrivate() && list.OwnerID != callerID {
		return nil, domainerrors.NotFound("book list not found")
	}

	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	review := &domain.Review{
		ID:         reviewID,
		Body:       req.Body,
		Visibility: domain.ReviewVisibilityPublic,
		UserID:     callerID,
		BookListID: req.BookListID,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review posted",
			"review_id", reviewID, "list_id", req.BookListID, "user_id", callerID)
	}

	return s.enricher.EnrichReview(ctx, review)
}

// Hide marks the caller's review as hidden.
func (s *ReviewService) Hide(ctx context.Context, callerID string, req UpdateReviewRequest) (*dto.Review, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	review, err := s.store.GetReview(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, domainerrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	if review.UserID != callerID {
		return nil, domainerrors.Forbidden("not the author of this review")
	}

	review.Hide()

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Review hidden", "review_id", req.ReviewID)
	}

	return s.enricher.EnrichReview(ctx, review)
}

// ListPublic returns the visible reviews on a list, newest first, with
// reviewer identities attached.
func (s *ReviewService) ListPublic(ctx context.Context, listID string) ([]*dto.Review, error) {
	reviews, err := s.store.ListReviewsByBookList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return nil, domainerrors.NotFound("book list not found")
		}
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	visible := make([]*domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Visibility.IsVisible() {
			visible = append(visible, r)
		}
	}

	// Stored order is oldest first; clients want the newest on top.
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}

	return s.enricher.EnrichReviews(ctx, visible)
}
