package domain

import (
	"slices"
	"time"
)

// Visibility controls whether a booklist is discoverable by non-owners.
type Visibility string

const (
	// VisibilityPublic makes the booklist discoverable by everyone.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate restricts the booklist to its owner.
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether the visibility is one of the known values.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// IsPublic reports whether the booklist is discoverable by non-owners.
func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic
}

// IsPrivate reports whether the booklist is restricted to its owner.
func (v Visibility) IsPrivate() bool {
	return v == VisibilityPrivate
}

// BookList is a named, owned, ordered collection of book references and
// review references.
//
// BookIDs contains no duplicates; the store rejects inserts of a book already
// present. Hiding a review does not detach it from ReviewIDs; only an admin
// deleting the review does.
type BookList struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility"`
	OwnerID     string     `json:"user"`
	BookIDs     []string   `json:"books"`
	ReviewIDs   []string   `json:"reviews"`
	CreatedAt   time.Time  `json:"created_at"`
	LastEdited  time.Time  `json:"last_edited"`
}

// Touch refreshes the LastEdited timestamp. Call on every mutation.
func (l *BookList) Touch() {
	l.LastEdited = time.Now()
}

// AddBook appends a book ID if not already present.
// Returns false if the book was already in the list.
func (l *BookList) AddBook(bookID string) bool {
	if slices.Contains(l.BookIDs, bookID) {
		return false
	}
	l.BookIDs = append(l.BookIDs, bookID)
	return true
}

// RemoveBook removes a book ID from the list.
// Returns false if the book was not in the list.
func (l *BookList) RemoveBook(bookID string) bool {
	for i, id := range l.BookIDs {
		if id == bookID {
			l.BookIDs = append(l.BookIDs[:i], l.BookIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsBook checks if a book ID is in this list.
func (l *BookList) ContainsBook(bookID string) bool {
	return slices.Contains(l.BookIDs, bookID)
}

// AddReview appends a review ID.
func (l *BookList) AddReview(reviewID string) {
	l.ReviewIDs = append(l.ReviewIDs, reviewID)
}

// RemoveReview drops a review ID from the list.
// Returns false if the review was not attached.
func (l *BookList) RemoveReview(reviewID string) bool {
	i := slices.Index(l.ReviewIDs, reviewID)
	if i < 0 {
		return false
	}
	l.ReviewIDs = slices.Delete(l.ReviewIDs, i, i+1)
	return true
}
