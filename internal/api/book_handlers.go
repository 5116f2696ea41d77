package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAllBooks",
		Method:      http.MethodGet,
		Path:        "/api/book/all",
		Summary:     "List all books",
		Description: "Returns every record in the book catalog",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAllBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "postBookToList",
		Method:      http.MethodPost,
		Path:        "/api/book/post-book-to-list",
		Summary:     "Add a book to a booklist",
		Description: "Attaches a book to one of the caller's booklists, creating the catalog record on first reference",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePostBookToList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookFromList",
		Method:      http.MethodDelete,
		Path:        "/api/book/delete-book-from-list",
		Summary:     "Remove a book from a booklist",
		Description: "Detaches a book from one of the caller's booklists; the catalog record survives",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBookFromList)
}

// === DTOs ===

// ListAllBooksInput contains parameters for listing the catalog.
type ListAllBooksInput struct {
	Authorization string `header:"Authorization"`
}

// BooksOutput wraps the catalog listing for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// PostBookInput wraps the add-book request for Huma.
type PostBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.AddBookRequest
}

// DeleteBookInput wraps the remove-book request for Huma.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.RemoveBookRequest
}

// === Handlers ===

func (s *Server) handleListAllBooks(ctx context.Context, input *ListAllBooksInput) (*BooksOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	books, err := s.services.Books.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handlePostBookToList(ctx context.Context, input *PostBookInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Books.AddToList(ctx, userID, input.Body); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book added to the list successfully"}}, nil
}

func (s *Server) handleDeleteBookFromList(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Books.RemoveFromList(ctx, userID, input.Body); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book removed from the list successfully"}}, nil
}
