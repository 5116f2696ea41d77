package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new account and sends an email verification link. The account stays inactive until the link is opened.",
		Tags:        []string{"Auth", "Public"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "localLogin",
		Method:      http.MethodPost,
		Path:        "/api/auth/localLogin",
		Summary:     "User login",
		Description: "Authenticates with email and password and returns a bearer token",
		Tags:        []string{"Auth", "Public"},
	}, s.handleLocalLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPut,
		Path:        "/api/auth/users/{id}",
		Summary:     "Update a user by id",
		Description: "Updates the account's password (and optionally its name)",
		Tags:        []string{"Auth"},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUsersByEmail",
		Method:      http.MethodGet,
		Path:        "/api/auth/users/{email}",
		Summary:     "Get users by email",
		Description: "Returns the accounts matching an exact email address",
		Tags:        []string{"Auth", "Public"},
	}, s.handleGetUsersByEmail)

	huma.Register(s.api, huma.Operation{
		OperationID: "booklist10",
		Method:      http.MethodGet,
		Path:        "/api/auth/booklist10",
		Summary:     "Get 10 recent public booklists",
		Description: "Returns up to 10 public booklists, most recently edited first, with owner details",
		Tags:        []string{"BookLists", "Public"},
	}, s.handleBookList10)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicBook",
		Method:      http.MethodGet,
		Path:        "/api/auth/public/books/{id}",
		Summary:     "Get a book by ID",
		Tags:        []string{"Books", "Public"},
	}, s.handleGetPublicBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicReviews",
		Method:      http.MethodGet,
		Path:        "/api/auth/public/review/{booklistId}",
		Summary:     "Get public reviews for a booklist",
		Description: "Returns the visible reviews on a booklist, newest first",
		Tags:        []string{"Reviews", "Public"},
	}, s.handleGetPublicReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicBookList",
		Method:      http.MethodGet,
		Path:        "/api/auth/public/bookList/{bookListId}",
		Summary:     "Get a booklist by ID",
		Description: "Returns a booklist with its books and visible reviews expanded",
		Tags:        []string{"BookLists", "Public"},
	}, s.handleGetPublicBookList)
}

// === DTOs ===

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// RegisterResponse contains the result of a registration.
type RegisterResponse struct {
	Msg       string    `json:"msg" doc:"Status message"`
	SavedUser *dto.User `json:"savedUser" doc:"Created account"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// LoginResponse contains the bearer token and authenticated user.
type LoginResponse struct {
	Success bool      `json:"success" doc:"Always true on success"`
	Token   string    `json:"token" doc:"PASETO bearer token"`
	User    *dto.User `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// UpdateUserInput wraps the user update request for Huma.
type UpdateUserInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body service.UpdateUserRequest
}

// UserResponse contains a single account with a success flag.
type UserResponse struct {
	Success bool      `json:"success" doc:"Always true on success"`
	User    *dto.User `json:"user" doc:"Updated account"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetUsersByEmailInput contains the email path parameter.
type GetUsersByEmailInput struct {
	Email string `path:"email" doc:"Email address"`
}

// UsersResponse contains the matching accounts with a success flag.
type UsersResponse struct {
	Success bool        `json:"success" doc:"Always true on success"`
	Users   []*dto.User `json:"users" doc:"Matching accounts"`
}

// UsersOutput wraps the users response for Huma.
type UsersOutput struct {
	Body UsersResponse
}

// BookListsOutput wraps a list of expanded booklists for Huma.
type BookListsOutput struct {
	Body []*dto.BookList
}

// BookListOutput wraps a single expanded booklist for Huma.
type BookListOutput struct {
	Body *dto.BookList
}

// GetPublicBookInput contains the book ID path parameter.
type GetPublicBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single catalog record for Huma.
type BookOutput struct {
	Body *domain.Book
}

// GetPublicReviewsInput contains the booklist ID path parameter.
type GetPublicReviewsInput struct {
	BookListID string `path:"booklistId" doc:"Booklist ID"`
}

// ReviewsOutput wraps a list of reviews for Huma.
type ReviewsOutput struct {
	Body []*dto.Review
}

// GetPublicBookListInput contains the booklist ID path parameter.
type GetPublicBookListInput struct {
	BookListID string `path:"bookListId" doc:"Booklist ID"`
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	user, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			Msg:       "User registered successfully",
			SavedUser: user,
		},
	}, nil
}

func (s *Server) handleLocalLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Body: LoginResponse{
			Success: true,
			Token:   resp.Token,
			User:    resp.User,
		},
	}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	user, err := s.services.Auth.UpdateUser(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: UserResponse{Success: true, User: user}}, nil
}

func (s *Server) handleGetUsersByEmail(ctx context.Context, input *GetUsersByEmailInput) (*UsersOutput, error) {
	users, err := s.services.Auth.GetUsersByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	return &UsersOutput{Body: UsersResponse{Success: true, Users: users}}, nil
}

func (s *Server) handleBookList10(ctx context.Context, _ *struct{}) (*BookListsOutput, error) {
	lists, err := s.services.BookLists.ListRecentPublic(ctx)
	if err != nil {
		return nil, err
	}

	return &BookListsOutput{Body: lists}, nil
}

func (s *Server) handleGetPublicBook(ctx context.Context, input *GetPublicBookInput) (*BookOutput, error) {
	book, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetPublicReviews(ctx context.Context, input *GetPublicReviewsInput) (*ReviewsOutput, error) {
	reviews, err := s.services.Reviews.ListPublic(ctx, input.BookListID)
	if err != nil {
		return nil, err
	}

	return &ReviewsOutput{Body: reviews}, nil
}

func (s *Server) handleGetPublicBookList(ctx context.Context, input *GetPublicBookListInput) (*BookListOutput, error) {
	list, err := s.services.BookLists.Get(ctx, input.BookListID, "")
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: list}, nil
}
