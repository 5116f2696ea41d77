package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leaflist/leaflist-server/internal/service"
)

func (s *Server) registerBookListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicBookLists",
		Method:      http.MethodGet,
		Path:        "/api/book-list/all",
		Summary:     "List public booklists",
		Description: "Returns every public booklist, most recently edited first, with owner details",
		Tags:        []string{"BookLists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPublicBookLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookList",
		Method:      http.MethodPost,
		Path:        "/api/book-list/new",
		Summary:     "Create a booklist",
		Description: "Creates a booklist owned by the caller",
		Tags:        []string{"BookLists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBookList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookListsByOwner",
		Method:      http.MethodGet,
		Path:        "/api/book-list/{userId}",
		Summary:     "List a user's booklists",
		Description: "Returns a user's booklists; private lists are visible to their owner only",
		Tags:        []string{"BookLists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookListsByOwner)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookList",
		Method:      http.MethodDelete,
		Path:        "/api/book-list/{bookListId}",
		Summary:     "Delete a booklist",
		Description: "Deletes one of the caller's booklists and detaches it from the owner",
		Tags:        []string{"BookLists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBookList)

	huma.Register(s.api, huma.Operation{
		OperationID: "patchBookList",
		Method:      http.MethodPatch,
		Path:        "/api/book-list/{bookListId}",
		Summary:     "Update a booklist",
		Description: "Applies partial changes to name, description or visibility",
		Tags:        []string{"BookLists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePatchBookList)
}

// === DTOs ===

// ListPublicBookListsInput contains parameters for the public listing.
type ListPublicBookListsInput struct {
	Authorization string `header:"Authorization"`
}

// CreateBookListInput wraps the create request for Huma.
type CreateBookListInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateBookListRequest
}

// ListBookListsByOwnerInput contains the owner path parameter.
type ListBookListsByOwnerInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `path:"userId" doc:"Owner user ID"`
}

// DeleteBookListInput contains the booklist ID path parameter.
type DeleteBookListInput struct {
	Authorization string `header:"Authorization"`
	BookListID    string `path:"bookListId" doc:"Booklist ID"`
}

// PatchBookListInput wraps the patch request for Huma.
type PatchBookListInput struct {
	Authorization string `header:"Authorization"`
	BookListID    string `path:"bookListId" doc:"Booklist ID"`
	Body          service.PatchBookListRequest
}

// === Handlers ===

func (s *Server) handleListPublicBookLists(ctx context.Context, input *ListPublicBookListsInput) (*BookListsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	lists, err := s.services.BookLists.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	return &BookListsOutput{Body: lists}, nil
}

func (s *Server) handleCreateBookList(ctx context.Context, input *CreateBookListInput) (*BookListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.BookLists.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: list}, nil
}

func (s *Server) handleListBookListsByOwner(ctx context.Context, input *ListBookListsByOwnerInput) (*BookListsOutput, error) {
	callerID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.BookLists.ListByOwner(ctx, input.UserID, callerID)
	if err != nil {
		return nil, err
	}

	return &BookListsOutput{Body: lists}, nil
}

func (s *Server) handleDeleteBookList(ctx context.Context, input *DeleteBookListInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.BookLists.Delete(ctx, input.BookListID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book list deleted"}}, nil
}

func (s *Server) handlePatchBookList(ctx context.Context, input *PatchBookListInput) (*BookListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.BookLists.Patch(ctx, input.BookListID, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: list}, nil
}
