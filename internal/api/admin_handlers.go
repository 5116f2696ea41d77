package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/service"
)

// Admin routes expose the four stores to the management panel. Every
// operation requires the admin role.
func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List all users",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminUpdateUser",
		Method:      http.MethodPatch,
		Path:        "/api/admin/users/{id}",
		Summary:     "Update a user's role or activation",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/admin/users/{id}",
		Summary:     "Delete a user",
		Description: "Deletes the account together with its booklists and their reviews",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListBookLists",
		Method:      http.MethodGet,
		Path:        "/api/admin/book-lists",
		Summary:     "List all booklists",
		Description: "Returns every booklist regardless of visibility",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListBookLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminGetBookList",
		Method:      http.MethodGet,
		Path:        "/api/admin/book-lists/{id}",
		Summary:     "Get a booklist",
		Description: "Returns a booklist with hidden reviews included",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminGetBookList)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteBookList",
		Method:      http.MethodDelete,
		Path:        "/api/admin/book-lists/{id}",
		Summary:     "Delete a booklist",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteBookList)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListBooks",
		Method:      http.MethodGet,
		Path:        "/api/admin/books",
		Summary:     "List the book catalog",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/admin/books/{id}",
		Summary:     "Delete a book",
		Description: "Removes a catalog record and detaches it from every booklist",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListReviews",
		Method:      http.MethodGet,
		Path:        "/api/admin/book-lists/{id}/reviews",
		Summary:     "List a booklist's reviews",
		Description: "Returns the booklist's reviews, hidden ones included",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/admin/reviews/{id}",
		Summary:     "Delete a review",
		Description: "Hard-deletes a review and detaches it from its booklist",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteReview)
}

// === DTOs ===

// AdminAuthInput contains only the Authorization header.
type AdminAuthInput struct {
	Authorization string `header:"Authorization"`
}

// AdminIDInput contains the Authorization header and a resource ID.
type AdminIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Resource ID"`
}

// AdminUpdateUserInput wraps the admin user update request for Huma.
type AdminUpdateUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          service.AdminUpdateUserRequest
}

// AdminUsersOutput wraps the account listing for Huma.
type AdminUsersOutput struct {
	Body []*dto.User
}

// AdminUserOutput wraps a single account for Huma.
type AdminUserOutput struct {
	Body *dto.User
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, input *AdminAuthInput) (*AdminUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminUsersOutput{Body: users}, nil
}

func (s *Server) handleAdminUpdateUser(ctx context.Context, input *AdminUpdateUserInput) (*AdminUserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Admin.UpdateUser(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &AdminUserOutput{Body: user}, nil
}

func (s *Server) handleAdminDeleteUser(ctx context.Context, input *AdminIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteUser(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted"}}, nil
}

func (s *Server) handleAdminListBookLists(ctx context.Context, input *AdminAuthInput) (*BookListsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	lists, err := s.services.Admin.ListBookLists(ctx)
	if err != nil {
		return nil, err
	}

	return &BookListsOutput{Body: lists}, nil
}

func (s *Server) handleAdminGetBookList(ctx context.Context, input *AdminIDInput) (*BookListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	list, err := s.services.Admin.GetBookList(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: list}, nil
}

func (s *Server) handleAdminDeleteBookList(ctx context.Context, input *AdminIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteBookList(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book list deleted"}}, nil
}

func (s *Server) handleAdminListBooks(ctx context.Context, input *AdminAuthInput) (*BooksOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	books, err := s.services.Admin.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleAdminDeleteBook(ctx context.Context, input *AdminIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleAdminListReviews(ctx context.Context, input *AdminIDInput) (*ReviewsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	reviews, err := s.services.Admin.ListReviews(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReviewsOutput{Body: reviews}, nil
}

func (s *Server) handleAdminDeleteReview(ctx context.Context, input *AdminIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteReview(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}
