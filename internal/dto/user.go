// Package dto provides Data Transfer Objects for API responses.
//
// DTOs contain denormalized fields for immediate client rendering while
// preserving normalized IDs for relationships, and they never carry
// credentials: password hashes are stripped before anything leaves the
// server.
package dto

import (
	"time"

	"github.com/leaflist/leaflist-server/internal/color"
	"github.com/leaflist/leaflist-server/internal/domain"
)

// UserSummary is the public-facing identity attached to lists and reviews.
// AvatarColor is derived from the user ID so clients render consistent
// avatar placeholders without storing a preference.
type UserSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarColor string `json:"avatar_color"`
}

// User is the client-facing representation of an account. The fields are
// copied explicitly rather than embedding domain.User so credential and
// bookkeeping fields (password hash, verification token) can never reach a
// response body.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	IsActive    bool        `json:"is_active"`
	Role        domain.Role `json:"role"`
	FirebaseUID string      `json:"firebase_uid,omitempty"`
	BookListIDs []string    `json:"book_lists"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewUser projects a domain user for client consumption.
func NewUser(u *domain.User) *User {
	return &User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		IsActive:    u.IsActive,
		Role:        u.Role,
		FirebaseUID: u.FirebaseUID,
		BookListIDs: u.BookListIDs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUsers projects a slice of domain users for client consumption.
func NewUsers(users []*domain.User) []*User {
	out := make([]*User, len(users))
	for i, u := range users {
		out[i] = NewUser(u)
	}
	return out
}

// NewUserSummary builds the public identity for a user.
func NewUserSummary(u *domain.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Name: u.Name, AvatarColor: color.ForUser(u.ID)}
}
