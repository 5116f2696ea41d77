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

// recentListLimit caps the public discovery feed.
const recentListLimit = 10

// BookListService handles creation and curation of booklists.
type BookListService struct {
	store     *store.Store
	enricher  *dto.Enricher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookListService creates a new booklist service.
func NewBookListService(
	store *store.Store,
	enricher *dto.Enricher,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookListService {
	return &BookListService{
		store:     store,
		enricher:  enricher,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookListRequest contains the fields for a new list.
type CreateBookListRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=30"`
	Description string `json:"description" validate:"required,min=3,max=30"`
	Visibility  string `json:"visibility" validate:"required,oneof=public private"`
}

// PatchBookListRequest carries partial updates. Empty fields are left
// unchanged.
type PatchBookListRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=3,max=30"`
	Description string `json:"description,omitempty" validate:"omitempty,min=3,max=30"`
	Visibility  string `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
}

// Create makes a new booklist owned by the caller.
func (s *BookListService) Create(ctx context.Context, ownerID string, req CreateBookListRequest) (*dto.BookList, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	listID, err := id.Generate("list")
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	now := time.Now()
	list := &domain.BookList{
		ID:          listID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  domain.Visibility(req.Visibility),
		OwnerID:     ownerID,
		CreatedAt:   now,
		LastEdited:  now,
	}

	if err := s.store.CreateBookList(ctx, list); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("owner not found")
		}
		return nil, fmt.Errorf("create book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book list created", "list_id", listID, "owner_id", ownerID)
	}

	return s.enricher.EnrichBookList(ctx, list, false)
}

// Get returns a single expanded list. Private lists are only visible to
// their owner; callerID is empty for anonymous requests.
func (s *BookListService) Get(ctx context.Context, listID, callerID string) (*dto.BookList, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.Visibility.IsPrivate() && list.OwnerID != callerID {
		return nil, domainerrors.NotFound("book list not found")
	}

	return s.enricher.EnrichBookList(ctx, list, false)
}

// ListPublic returns all public lists with owner summaries, most recently
// edited first.
func (s *BookListService) ListPublic(ctx context.Context) ([]*dto.BookList, error) {
	lists, err := s.store.ListRecentPublicBookLists(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list book lists: %w", err)
	}
	return s.enricher.EnrichBookLists(ctx, lists)
}

// ListRecentPublic returns the most recently edited public lists for the
// discovery feed, capped at ten.
func (s *BookListService) ListRecentPublic(ctx context.Context) ([]*dto.BookList, error) {
	lists, err := s.store.ListRecentPublicBookLists(ctx, recentListLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent public book lists: %w", err)
	}
	return s.enricher.EnrichBookLists(ctx, lists)
}

// ListByOwner returns the lists a user owns. Private lists are filtered out
// unless the owner is asking for their own.
func (s *BookListService) ListByOwner(ctx context.Context, ownerID, callerID string) ([]*dto.BookList, error) {
	lists, err := s.store.ListBookListsByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("list book lists by owner: %w", err)
	}

	if ownerID != callerID {
		visible := make([]*domain.BookList, 0, len(lists))
		for _, l := range lists {
			if l.Visibility.IsPublic() {
				visible = append(visible, l)
			}
		}
		lists = visible
	}

	return s.enricher.EnrichBookLists(ctx, lists)
}

// Patch applies partial changes to a list owned by the caller and refreshes
// its last_edited timestamp.
func (s *BookListService) Patch(ctx context.Context, listID, callerID string, req PatchBookListRequest) (*dto.BookList, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	list, err := s.getOwnedList(ctx, listID, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		list.Name = req.Name
	}
	if req.Description != "" {
		list.Description = req.Description
	}
	if req.Visibility != "" {
		list.Visibility = domain.Visibility(req.Visibility)
	}
	list.Touch()

	if err := s.store.UpdateBookList(ctx, list); err != nil {
		return nil, fmt.Errorf("update book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book list updated", "list_id", listID)
	}

	return s.enricher.EnrichBookList(ctx, list, false)
}

// Delete removes a list owned by the caller, along with its reviews and the
// owner's reference to it.
func (s *BookListService) Delete(ctx context.Context, listID, callerID string) error {
	if _, err := s.getOwnedList(ctx, listID, callerID); err != nil {
		return err
	}

	if err := s.store.DeleteBookList(ctx, listID); err != nil {
		return fmt.Errorf("delete book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book list deleted", "list_id", listID, "owner_id", callerID)
	}

	return nil
}

// getList fetches a list, translating store errors.
func (s *BookListService) getList(ctx context.Context, listID string) (*domain.BookList, error) {
	list, err := s.store.GetBookList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrBookListNotFound) {
			return nil, domainerrors.NotFound("book list not found")
		}
		return nil, fmt.Errorf("get book list: %w", err)
	}
	return list, nil
}

// getOwnedList fetches a list and checks the caller owns it.
func (s *BookListService) getOwnedList(ctx context.Context, listID, callerID string) (*domain.BookList, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != callerID {
		return nil, domainerrors.Forbidden("not the owner of this book list")
	}
	return list, nil
}
