package domain

import "time"

// ReviewVisibility controls whether a review appears in public listings.
type ReviewVisibility string

const (
	// ReviewVisibilityPublic makes the review appear in public listings.
	ReviewVisibilityPublic ReviewVisibility = "public"
	// ReviewVisibilityHidden removes the review from public listings without
	// deleting the document. This is the only "delete" path for reviews.
	ReviewVisibilityHidden ReviewVisibility = "hidden"
)

// IsVisible reports whether the review appears in public listings.
func (v ReviewVisibility) IsVisible() bool {
	return v == ReviewVisibilityPublic
}

// Review is a free-text review attached to one booklist by one user.
type Review struct {
	ID         string           `json:"id"`
	Body       string           `json:"review"`
	Visibility ReviewVisibility `json:"visibility"`
	UserID     string           `json:"user"`
	BookListID string           `json:"booklist"`
	CreatedAt  time.Time        `json:"date"`
}

// Hide sets the review's visibility to hidden.
func (r *Review) Hide() {
	r.Visibility = ReviewVisibilityHidden
}
