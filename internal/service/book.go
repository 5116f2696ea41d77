package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/id"
	"github.com/leaflist/leaflist-server/internal/store"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// BookService handles the book catalog and list membership.
type BookService struct {
	store       *store.Store
	listService *BookListService
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	store *store.Store,
	listService *BookListService,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:       store,
		listService: listService,
		validator:   validator,
		logger:      logger,
	}
}

// BookPayload mirrors the volume shape clients pull from their book catalog
// provider. SelfLink identifies the volume; two posts of the same selfLink
// resolve to one stored record.
type BookPayload struct {
	Title         string         `json:"title" validate:"required"`
	Subtitle      string         `json:"sub_title,omitempty"`
	Authors       string         `json:"authors,omitempty"`
	Description   string         `json:"description,omitempty"`
	Categories    string         `json:"categories,omitempty"`
	Publisher     string         `json:"publisher,omitempty"`
	PublishedDate string         `json:"published_date,omitempty"`
	PageCount     string         `json:"page_count,omitempty"`
	Language      string         `json:"language,omitempty"`
	SalePrice     map[string]any `json:"sale_price,omitempty"`
	ImageURL      string         `json:"img_src,omitempty" validate:"omitempty,url"`
	SelfLink      string         `json:"self_link,omitempty" validate:"omitempty,url"`
}

// AddBookRequest attaches a book to a list.
type AddBookRequest struct {
	BookListID string      `json:"bookListId" validate:"required"`
	Book       BookPayload `json:"bookBody" validate:"required"`
}

// RemoveBookRequest detaches a book from a list.
type RemoveBookRequest struct {
	BookListID string `json:"bookListId" validate:"required"`
	BookID     string `json:"bookId" validate:"required"`
}

// ListAll returns the whole catalog.
func (s *BookService) ListAll(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// Get returns a single book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.Books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// AddToList resolves the payload to a catalog record (creating it on first
// reference) and appends it to the caller's list. Posting a book already on
// the list is a conflict and leaves the list untouched.
func (s *BookService) AddToList(ctx context.Context, callerID string, req AddBookRequest) (*dto.BookList, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	list, err := s.listService.getOwnedList(ctx, req.BookListID, callerID)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Record: domain.Record{
			ID: bookID,
		},
		Title:         req.Book.Title,
		Subtitle:      req.Book.Subtitle,
		Authors:       req.Book.Authors,
		Description:   req.Book.Description,
		Categories:    req.Book.Categories,
		Publisher:     req.Book.Publisher,
		PublishedDate: req.Book.PublishedDate,
		PageCount:     req.Book.PageCount,
		Language:      req.Book.Language,
		SalePrice:     req.Book.SalePrice,
		ImageURL:      req.Book.ImageURL,
		SelfLink:      req.Book.SelfLink,
	}
	book.InitTimestamps()

	stored, err := s.store.FindOrCreateBook(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("find or create book: %w", err)
	}

	if !list.AddBook(stored.ID) {
		return nil, domainerrors.Conflict("book is already in this list")
	}
	list.Touch()

	if err := s.store.UpdateBookList(ctx, list); err != nil {
		return nil, fmt.Errorf("update book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book added to list",
			"book_id", stored.ID, "list_id", list.ID)
	}

	return s.listService.enricher.EnrichBookList(ctx, list, false)
}

// RemoveFromList detaches a book from the caller's list. The catalog record
// itself stays; other lists may reference it.
func (s *BookService) RemoveFromList(ctx context.Context, callerID string, req RemoveBookRequest) (*dto.BookList, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	list, err := s.listService.getOwnedList(ctx, req.BookListID, callerID)
	if err != nil {
		return nil, err
	}

	if !list.RemoveBook(req.BookID) {
		return nil, domainerrors.Conflict("book is not in this list")
	}
	list.Touch()

	if err := s.store.UpdateBookList(ctx, list); err != nil {
		return nil, fmt.Errorf("update book list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book removed from list",
			"book_id", req.BookID, "list_id", list.ID)
	}

	return s.listService.enricher.EnrichBookList(ctx, list, false)
}
