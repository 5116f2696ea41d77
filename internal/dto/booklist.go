package dto

import "github.com/leaflist/leaflist-server/internal/domain"

// Review is the client-facing representation of a review.
// The author's public identity is denormalized for immediate rendering.
type Review struct {
	*domain.Review

	// Populated by Enricher from the review's user reference.
	User UserSummary `json:"user_info"`
}

// BookList is the client-facing representation of a booklist.
//
// The list's book references are resolved into full book records and the
// owner into a public identity, so a client can render a list detail page
// from a single response.
type BookList struct {
	*domain.BookList

	Owner   UserSummary    `json:"owner,omitempty"`
	Books   []*domain.Book `json:"book_records,omitempty"`
	Reviews []*Review      `json:"review_records,omitempty"`
}
