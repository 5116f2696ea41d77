// Package domain contains the core business entities for the Leaflist server.
package domain

import "slices"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleRegularUser grants standard access.
	RoleRegularUser Role = "regular_user"
	// RoleManager grants content moderation access.
	RoleManager Role = "manager"
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleRegularUser || r == RoleManager || r == RoleAdmin
}

// IsRegularUser reports whether the role is the default member role.
func (r Role) IsRegularUser() bool {
	return r == RoleRegularUser
}

// IsManager reports whether the role grants moderation access.
func (r Role) IsManager() bool {
	return r == RoleManager
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents an account in the system.
//
// PasswordHash is empty for federated accounts (the user signed up through an
// external identity provider and never set a local password). IsActive flips
// to true once the email address is verified.
type User struct {
	Record
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filtered from API responses
	IsActive     bool   `json:"is_active"`
	Role         Role   `json:"role"`
	FirebaseUID  string `json:"firebase_uid,omitempty"` // Set for federated logins

	// BookListIDs is the ordered collection of booklists owned by this user.
	// Kept consistent with booklist creation/deletion by the store.
	BookListIDs []string `json:"book_lists"`

	// VerificationTokenID holds the jti of the outstanding email verification
	// token. Cleared when the token is redeemed, making it single-use.
	VerificationTokenID string `json:"verification_token_id,omitempty"`
}

// HasLocalPassword reports whether the user can authenticate with a password.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != ""
}

// AddBookList appends a booklist reference. Returns false if the list is
// already referenced.
func (u *User) AddBookList(listID string) bool {
	if slices.Contains(u.BookListIDs, listID) {
		return false
	}
	u.BookListIDs = append(u.BookListIDs, listID)
	return true
}

// RemoveBookList drops a booklist reference. Returns false if the list was
// not referenced.
func (u *User) RemoveBookList(listID string) bool {
	i := slices.Index(u.BookListIDs, listID)
	if i < 0 {
		return false
	}
	u.BookListIDs = slices.Delete(u.BookListIDs, i, i+1)
	return true
}
