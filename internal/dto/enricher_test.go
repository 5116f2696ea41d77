package dto_test

import (
	"context"
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/store"
)

type fakeStore struct {
	users   map[string]*domain.User
	books   map[string]*domain.Book
	reviews map[string][]*domain.Review
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) GetBooksByIDs(_ context.Context, ids []string) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListReviewsByBookList(_ context.Context, listID string) ([]*domain.Review, error) {
	return f.reviews[listID], nil
}

func testFixture() *fakeStore {
	alice := &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "$argon2id$secret"}
	alice.ID = "user-1"

	dune := &domain.Book{Title: "Dune"}
	dune.ID = "book-1"

	return &fakeStore{
		users: map[string]*domain.User{"user-1": alice},
		books: map[string]*domain.Book{"book-1": dune},
		reviews: map[string][]*domain.Review{
			"list-1": {
				{ID: "review-1", Body: "Great list", UserID: "user-1", BookListID: "list-1", Visibility: domain.ReviewVisibilityPublic},
				{ID: "review-2", Body: "Hidden one", UserID: "user-1", BookListID: "list-1", Visibility: domain.ReviewVisibilityHidden},
			},
		},
	}
}

func testList() *domain.BookList {
	return &domain.BookList{
		ID:         "list-1",
		Name:       "Sci-Fi",
		Visibility: domain.VisibilityPublic,
		OwnerID:    "user-1",
		BookIDs:    []string{"book-1"},
		ReviewIDs:  []string{"review-1", "review-2"},
		CreatedAt:  time.Now(),
	}
}

func TestEnrichBookList(t *testing.T) {
	enricher := dto.NewEnricher(testFixture())

	got, err := enricher.EnrichBookList(context.Background(), testList(), false)
	require.NoError(t, err)

	assert.Equal(t, "Alice", got.Owner.Name)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Dune", got.Books[0].Title)

	// Hidden reviews are filtered unless requested.
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "review-1", got.Reviews[0].ID)
	assert.Equal(t, "Alice", got.Reviews[0].User.Name)
}

func TestEnrichBookListIncludeHidden(t *testing.T) {
	enricher := dto.NewEnricher(testFixture())

	got, err := enricher.EnrichBookList(context.Background(), testList(), true)
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 2)
}

func TestEnrichBookListMissingOwner(t *testing.T) {
	fixture := testFixture()
	list := testList()
	list.OwnerID = "user-ghost"

	enricher := dto.NewEnricher(fixture)
	got, err := enricher.EnrichBookList(context.Background(), list, false)
	require.NoError(t, err)
	assert.Empty(t, got.Owner.ID, "missing owner degrades to an empty identity")
}

func TestEnrichBookLists(t *testing.T) {
	enricher := dto.NewEnricher(testFixture())

	lists := []*domain.BookList{testList(), testList()}
	got, err := enricher.EnrichBookLists(context.Background(), lists)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, "Alice", l.Owner.Name)
		require.Len(t, l.Books, 1)
		assert.Equal(t, "Dune", l.Books[0].Title)
		require.Len(t, l.Reviews, 1, "hidden reviews stay off index views")
		assert.Equal(t, "review-1", l.Reviews[0].ID)
	}
}

func TestUserDTOHidesPasswordHash(t *testing.T) {
	alice := &domain.User{
		Name:                "Alice",
		Email:               "alice@example.com",
		PasswordHash:        "$argon2id$secret",
		VerificationTokenID: "token-jti-1",
	}
	alice.ID = "user-1"

	data, err := json.Marshal(dto.NewUser(alice))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "password_hash")
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "verification_token_id")
	assert.NotContains(t, string(data), "token-jti-1")
	assert.Contains(t, string(data), `"email":"alice@example.com"`)
	assert.Contains(t, string(data), `"id":"user-1"`)
}
