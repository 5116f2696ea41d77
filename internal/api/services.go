package api

import (
	"github.com/leaflist/leaflist-server/internal/email"
	"github.com/leaflist/leaflist-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Books     *service.BookService
	BookLists *service.BookListService
	Reviews   *service.ReviewService
	Admin     *service.AdminService
	Email     email.Sender
}
