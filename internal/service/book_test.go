package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/service"
)

func dunePayload() service.BookPayload {
	return service.BookPayload{
		Title:    "Dune",
		Authors:  "Frank Herbert",
		SelfLink: "https://books.example.com/v1/volumes/dune",
	}
}

func TestAddBookToList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	list, err := env.books.AddToList(ctx, alice.ID, service.AddBookRequest{
		BookListID: listID,
		Book:       dunePayload(),
	})
	require.NoError(t, err)
	require.Len(t, list.BookIDs, 1)
	require.Len(t, list.Books, 1)
	assert.Equal(t, "Dune", list.Books[0].Title)
	assert.Equal(t, "Frank Herbert", list.Books[0].Authors)
}

func TestAddDuplicateBookRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	_, err := env.books.AddToList(ctx, alice.ID, service.AddBookRequest{
		BookListID: listID,
		Book:       dunePayload(),
	})
	require.NoError(t, err)

	// Same selfLink resolves to the same record, which is already present.
	_, err = env.books.AddToList(ctx, alice.ID, service.AddBookRequest{
		BookListID: listID,
		Book:       dunePayload(),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeConflict))

	list, err := env.store.GetBookList(ctx, listID)
	require.NoError(t, err)
	assert.Len(t, list.BookIDs, 1, "the list holds exactly one entry")

	books, err := env.books.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1, "the catalog holds exactly one record")
}

func TestSameBookOnTwoListsSharesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	first := newList(t, env, alice.ID, "Sci-Fi", "public")
	second := newList(t, env, alice.ID, "Favorites", "public")

	l1, err := env.books.AddToList(ctx, alice.ID, service.AddBookRequest{BookListID: first, Book: dunePayload()})
	require.NoError(t, err)
	l2, err := env.books.AddToList(ctx, alice.ID, service.AddBookRequest{BookListID: second, Book: dunePayload()})
	require.NoError(t, err)

	assert.Equal(t, l1.BookIDs[0], l2.BookIDs[0])

	books, err := env.books.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestRemoveBookFromList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	added, err := env.books.AddToList(ctx, alice.ID, service.AddBookRequest{
		BookListID: listID,
		Book:       dunePayload(),
	})
	require.NoError(t, err)
	bookID := added.BookIDs[0]

	removed, err := env.books.RemoveFromList(ctx, alice.ID, service.RemoveBookRequest{
		BookListID: listID,
		BookID:     bookID,
	})
	require.NoError(t, err)
	assert.Empty(t, removed.BookIDs)

	// Removing again is a conflict.
	_, err = env.books.RemoveFromList(ctx, alice.ID, service.RemoveBookRequest{
		BookListID: listID,
		BookID:     bookID,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeConflict))

	// The catalog record survives removal from a list.
	_, err = env.books.Get(ctx, bookID)
	require.NoError(t, err)
}

func TestAddBookRequiresListOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	_, err := env.books.AddToList(ctx, bob.ID, service.AddBookRequest{
		BookListID: listID,
		Book:       dunePayload(),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeForbidden))
}
