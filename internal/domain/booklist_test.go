package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookList_AddBook(t *testing.T) {
	l := &BookList{ID: "list-1"}

	assert.True(t, l.AddBook("book-1"))
	assert.True(t, l.AddBook("book-2"))
	assert.Equal(t, []string{"book-1", "book-2"}, l.BookIDs)

	// Duplicate insert is rejected and leaves the list unchanged.
	assert.False(t, l.AddBook("book-1"))
	assert.Equal(t, []string{"book-1", "book-2"}, l.BookIDs)
}

func TestBookList_RemoveBook(t *testing.T) {
	l := &BookList{BookIDs: []string{"book-1", "book-2", "book-3"}}

	assert.True(t, l.RemoveBook("book-2"))
	assert.Equal(t, []string{"book-1", "book-3"}, l.BookIDs)

	assert.False(t, l.RemoveBook("book-2"))
	assert.False(t, l.RemoveBook("book-missing"))
}

func TestBookList_ContainsBook(t *testing.T) {
	l := &BookList{BookIDs: []string{"book-1"}}

	assert.True(t, l.ContainsBook("book-1"))
	assert.False(t, l.ContainsBook("book-2"))
}

func TestBookList_Touch(t *testing.T) {
	l := &BookList{LastEdited: time.Now().Add(-time.Hour)}
	before := l.LastEdited

	l.Touch()
	assert.True(t, l.LastEdited.After(before))
}

func TestVisibility(t *testing.T) {
	assert.True(t, VisibilityPublic.IsPublic())
	assert.True(t, VisibilityPrivate.IsPrivate())
	assert.False(t, VisibilityPrivate.IsPublic())

	assert.True(t, VisibilityPublic.IsValid())
	assert.True(t, VisibilityPrivate.IsValid())
	assert.False(t, Visibility("friends-only").IsValid())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleManager.IsManager())
	assert.True(t, RoleRegularUser.IsRegularUser())
	assert.False(t, RoleRegularUser.IsAdmin())
	assert.False(t, Role("superuser").IsValid())
}

func TestReview_Hide(t *testing.T) {
	r := &Review{Visibility: ReviewVisibilityPublic}
	assert.True(t, r.Visibility.IsVisible())

	r.Hide()
	assert.Equal(t, ReviewVisibilityHidden, r.Visibility)
	assert.False(t, r.Visibility.IsVisible())
}
