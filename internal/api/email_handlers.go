package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
)

func (s *Server) registerEmailRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "sendEmail",
		Method:      http.MethodPost,
		Path:        "/api/email/send",
		Summary:     "Send an email",
		Description: "Sends an email with the provided subject and HTML body",
		Tags:        []string{"Email"},
	}, s.handleSendEmail)

	huma.Register(s.api, huma.Operation{
		OperationID: "verifyEmail",
		Method:      http.MethodGet,
		Path:        "/api/email/verify/{token}",
		Summary:     "Verify email with token",
		Description: "Redeems a verification token and activates the account",
		Tags:        []string{"Email"},
	}, s.handleVerifyEmail)
}

// === DTOs ===

// SendEmailRequest is the request body for sending an email.
type SendEmailRequest struct {
	To      string `json:"to" format:"email" doc:"Recipient address"`
	Subject string `json:"subject" doc:"Email subject"`
	HTML    string `json:"html" doc:"HTML body"`
}

// SendEmailInput wraps the send email request for Huma.
type SendEmailInput struct {
	Body SendEmailRequest
}

// VerifyEmailInput contains the verification token path parameter.
type VerifyEmailInput struct {
	Token string `path:"token" doc:"Verification token from the email link"`
}

// === Handlers ===

func (s *Server) handleSendEmail(ctx context.Context, input *SendEmailInput) (*MessageOutput, error) {
	if err := s.services.Email.Send(ctx, input.Body.To, input.Body.Subject, input.Body.HTML); err != nil {
		s.logger.Error("Failed to send email", "to", input.Body.To, "error", err)
		return nil, domainerrors.Internal("Error sending verification email.")
	}

	return &MessageOutput{Body: MessageResponse{Message: "Verification email sent successfully."}}, nil
}

func (s *Server) handleVerifyEmail(ctx context.Context, input *VerifyEmailInput) (*MessageOutput, error) {
	if _, err := s.services.Auth.VerifyEmail(ctx, input.Token); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Email verified successfully. You can now log in."}}, nil
}
