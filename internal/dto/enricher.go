package dto

import (
	"context"
	"fmt"

	"github.com/leaflist/leaflist-server/internal/domain"
)

// Store defines the interface for fetching related entities during enrichment.
// This allows Enricher to remain testable and independent of concrete store implementation.
type Store interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error)
	ListReviewsByBookList(ctx context.Context, listID string) ([]*domain.Review, error)
}

// Enricher denormalizes domain models for client consumption.
//
// Design philosophy:
//   - Batch fetching: One query per entity type, not per list
//   - Graceful degradation: Missing data yields empty fields, not errors
//   - Idempotent: Safe to enrich the same record multiple times
type Enricher struct {
	store Store
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store) *Enricher {
	return &Enricher{store: store}
}

// EnrichBookList denormalizes a single list for client consumption: the
// owner's public identity, the full book records, and the list's reviews.
// Hidden reviews are included only when includeHidden is set.
func (e *Enricher) EnrichBookList(ctx context.Context, list *domain.BookList, includeHidden bool) (*BookList, error) {
	dto := &BookList{BookList: list}

	// Owner lookup failures are non-fatal, the identity just stays empty.
	if owner, err := e.store.GetUser(ctx, list.OwnerID); err == nil {
		dto.Owner = NewUserSummary(owner)
	}

	books, err := e.store.GetBooksByIDs(ctx, list.BookIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}
	dto.Books = books

	reviews, err := e.store.ListReviewsByBookList(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	visible := make([]*domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if includeHidden || r.Visibility.IsVisible() {
			visible = append(visible, r)
		}
	}

	dto.Reviews, err = e.EnrichReviews(ctx, visible)
	if err != nil {
		return nil, err
	}

	return dto, nil
}

// EnrichBookLists denormalizes multiple lists for index views. Owners are
// fetched once per unique user; each list's book records are expanded and
// its visible reviews attached, so index pages render without follow-up
// requests.
func (e *Enricher) EnrichBookLists(ctx context.Context, lists []*domain.BookList) ([]*BookList, error) {
	if len(lists) == 0 {
		return []*BookList{}, nil
	}

	owners := make(map[string]UserSummary)
	enriched := make([]*BookList, len(lists))

	for i, list := range lists {
		dto := &BookList{BookList: list}

		summary, ok := owners[list.OwnerID]
		if !ok {
			if owner, err := e.store.GetUser(ctx, list.OwnerID); err == nil {
				summary = NewUserSummary(owner)
			}
			owners[list.OwnerID] = summary
		}
		dto.Owner = summary

		books, err := e.store.GetBooksByIDs(ctx, list.BookIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch books for list %s: %w", list.ID, err)
		}
		dto.Books = books

		reviews, err := e.store.ListReviewsByBookList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch reviews for list %s: %w", list.ID, err)
		}

		visible := make([]*domain.Review, 0, len(reviews))
		for _, r := range reviews {
			if r.Visibility.IsVisible() {
				visible = append(visible, r)
			}
		}

		dto.Reviews, err = e.EnrichReviews(ctx, visible)
		if err != nil {
			return nil, err
		}

		enriched[i] = dto
	}

	return enriched, nil
}

// EnrichReview denormalizes a single review.
func (e *Enricher) EnrichReview(ctx context.Context, review *domain.Review) (*Review, error) {
	dto := &Review{Review: review}

	if user, err := e.store.GetUser(ctx, review.UserID); err == nil {
		dto.User = NewUserSummary(user)
	}

	return dto, nil
}

// EnrichReviews denormalizes multiple reviews, fetching each distinct author
// once.
func (e *Enricher) EnrichReviews(ctx context.Context, reviews []*domain.Review) ([]*Review, error) {
	if len(reviews) == 0 {
		return []*Review{}, nil
	}

	authors := make(map[string]UserSummary)
	enriched := make([]*Review, len(reviews))

	for i, review := range reviews {
		dto := &Review{Review: review}

		summary, ok := authors[review.UserID]
		if !ok {
			if user, err := e.store.GetUser(ctx, review.UserID); err == nil {
				summary = NewUserSummary(user)
			}
			authors[review.UserID] = summary
		}
		dto.User = summary

		enriched[i] = dto
	}

	return enriched, nil
}
