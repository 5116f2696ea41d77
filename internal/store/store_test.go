package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUser(id, email string) *domain.User {
	u := &domain.User{
		Name:     "Test User",
		Email:    email,
		IsActive: true,
		Role:     domain.RoleRegularUser,
	}
	u.ID = id
	u.InitTimestamps()
	return u
}

func newTestList(id, ownerID string) *domain.BookList {
	return &domain.BookList{
		ID:          id,
		Name:        "Reading List",
		Description: "Things to read",
		Visibility:  domain.VisibilityPublic,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
		LastEdited:  time.Now(),
	}
}

func TestCreateUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	// Same ID rejected.
	assert.ErrorIs(t, s.CreateUser(ctx, user), store.ErrUserExists)

	// Same email under a different ID rejected, case-insensitively.
	dup := newTestUser("user-2", "ALICE@example.com")
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrEmailExists)
}

func TestGetUserByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))

	got, err := s.GetUserByEmail(ctx, "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUpdateUserMovesEmailIndex(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "alice.new@example.com"
	require.NoError(t, s.UpdateUser(ctx, user))

	_, err := s.GetUserByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	got, err := s.GetUserByEmail(ctx, "alice.new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestCreateBookListLinksOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-1", "user-1")))

	owner, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"list-1"}, owner.BookListIDs)

	// Creating a list for a missing owner writes nothing.
	err = s.CreateBookList(ctx, newTestList("list-2", "user-ghost"))
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.GetBookList(ctx, "list-2")
	assert.ErrorIs(t, err, store.ErrBookListNotFound)
}

func TestDeleteBookListUnlinksOwnerAndReviews(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-1", "user-1")))

	review := &domain.Review{
		ID:         "review-1",
		Body:       "Loved it",
		Visibility: domain.ReviewVisibilityPublic,
		UserID:     "user-1",
		BookListID: "list-1",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateReview(ctx, review))

	require.NoError(t, s.DeleteBookList(ctx, "list-1"))

	_, err := s.GetBookList(ctx, "list-1")
	assert.ErrorIs(t, err, store.ErrBookListNotFound)

	_, err = s.GetReview(ctx, "review-1")
	assert.ErrorIs(t, err, store.ErrReviewNotFound)

	owner, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, owner.BookListIDs)
}

func TestListBookListsByOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateUser(ctx, newTestUser("user-2", "bob@example.com")))

	base := time.Now().Add(-time.Hour)
	first := newTestList("list-1", "user-1")
	first.LastEdited = base
	second := newTestList("list-2", "user-1")
	second.LastEdited = base.Add(time.Minute)
	require.NoError(t, s.CreateBookList(ctx, first))
	require.NoError(t, s.CreateBookList(ctx, second))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-3", "user-2")))

	lists, err := s.ListBookListsByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "list-2", lists[0].ID, "most recently edited first")
	assert.Equal(t, "list-1", lists[1].ID)
}

func TestListRecentPublicBookLists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"list-a", "list-b", "list-c"} {
		list := newTestList(id, "user-1")
		list.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		list.LastEdited = list.CreatedAt
		require.NoError(t, s.CreateBookList(ctx, list))
	}

	private := newTestList("list-d", "user-1")
	private.Visibility = domain.VisibilityPrivate
	require.NoError(t, s.CreateBookList(ctx, private))

	lists, err := s.ListRecentPublicBookLists(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "list-c", lists[0].ID)
	assert.Equal(t, "list-b", lists[1].ID)

	// Editing the oldest list moves it to the front; ordering follows
	// last_edited, not creation time.
	oldest, err := s.GetBookList(ctx, "list-a")
	require.NoError(t, err)
	oldest.Touch()
	require.NoError(t, s.UpdateBookList(ctx, oldest))

	lists, err = s.ListRecentPublicBookLists(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "list-a", lists[0].ID, "recently edited list sorts first")
	assert.Equal(t, "list-c", lists[1].ID)
}

func TestCreateReviewLinksBookList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-1", "user-1")))

	review := &domain.Review{
		ID:         "review-1",
		Body:       "Solid picks",
		Visibility: domain.ReviewVisibilityPublic,
		UserID:     "user-1",
		BookListID: "list-1",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateReview(ctx, review))

	list, err := s.GetBookList(ctx, "list-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"review-1"}, list.ReviewIDs)

	// A review against a missing list writes nothing.
	orphan := &domain.Review{ID: "review-2", Body: "x", BookListID: "list-ghost"}
	assert.ErrorIs(t, s.CreateReview(ctx, orphan), store.ErrBookListNotFound)
	_, err = s.GetReview(ctx, "review-2")
	assert.ErrorIs(t, err, store.ErrReviewNotFound)
}

func TestDeleteReviewUnlinksBookList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-1", "user-1")))

	review := &domain.Review{
		ID:         "review-1",
		Body:       "Solid picks",
		Visibility: domain.ReviewVisibilityPublic,
		UserID:     "user-1",
		BookListID: "list-1",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateReview(ctx, review))
	require.NoError(t, s.DeleteReview(ctx, "review-1"))

	list, err := s.GetBookList(ctx, "list-1")
	require.NoError(t, err)
	assert.Empty(t, list.ReviewIDs)
}

func TestFindOrCreateBookDedupesBySelfLink(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := &domain.Book{
		Title:    "Dune",
		Authors:  "Frank Herbert",
		SelfLink: "https://books.example.com/v1/volumes/dune",
	}
	book.ID = "book-1"
	book.InitTimestamps()

	created, err := s.FindOrCreateBook(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, "book-1", created.ID)

	dup := &domain.Book{
		Title:    "Dune (reissue)",
		SelfLink: "https://books.example.com/v1/volumes/dune",
	}
	dup.ID = "book-2"

	found, err := s.FindOrCreateBook(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, "book-1", found.ID, "same selfLink resolves to the existing record")

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestDeleteBookDetachesFromLists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))

	list := newTestList("list-1", "user-1")
	list.BookIDs = []string{"book-1", "book-2"}
	require.NoError(t, s.CreateBookList(ctx, list))

	book := &domain.Book{Title: "Dune", SelfLink: "https://books.example.com/v1/volumes/dune"}
	book.ID = "book-1"
	_, err := s.FindOrCreateBook(ctx, book)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBook(ctx, "book-1"))

	got, err := s.GetBookList(ctx, "list-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"book-2"}, got.BookIDs)

	// The selfLink is free for reuse again.
	again := &domain.Book{Title: "Dune", SelfLink: "https://books.example.com/v1/volumes/dune"}
	again.ID = "book-3"
	created, err := s.FindOrCreateBook(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, "book-3", created.ID)
}

func TestDeleteUserCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "alice@example.com")))
	require.NoError(t, s.CreateBookList(ctx, newTestList("list-1", "user-1")))

	review := &domain.Review{
		ID:         "review-1",
		Body:       "Great",
		UserID:     "user-1",
		BookListID: "list-1",
	}
	require.NoError(t, s.CreateReview(ctx, review))

	require.NoError(t, s.DeleteUser(ctx, "user-1"))

	_, err := s.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.GetBookList(ctx, "list-1")
	assert.ErrorIs(t, err, store.ErrBookListNotFound)
	_, err = s.GetReview(ctx, "review-1")
	assert.ErrorIs(t, err, store.ErrReviewNotFound)

	// Email is free for a new registration.
	require.NoError(t, s.CreateUser(ctx, newTestUser("user-9", "alice@example.com")))
}
