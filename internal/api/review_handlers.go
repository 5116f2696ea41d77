package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/review/new",
		Summary:     "Post a review",
		Description: "Posts a review against a public booklist",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPut,
		Path:        "/api/review/update",
		Summary:     "Hide a review",
		Description: "Hides the caller's own review. The record stays attached to its booklist but stops rendering publicly.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)
}

// === DTOs ===

// CreateReviewInput wraps the create review request for Huma.
type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateReviewRequest
}

// UpdateReviewInput wraps the hide review request for Huma.
type UpdateReviewInput struct {
	Authorization string `header:"Authorization"`
	Body          service.UpdateReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body *dto.Review
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.Hide(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}
