package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/service"
)

func newList(t *testing.T, env *testEnv, ownerID, name, visibility string) string {
	t.Helper()
	list, err := env.booklist.Create(context.Background(), ownerID, service.CreateBookListRequest{
		Name:        name,
		Description: "some reading",
		Visibility:  visibility,
	})
	require.NoError(t, err)
	return list.ID
}

func TestCreateBookList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")

	list, err := env.booklist.Create(ctx, alice.ID, service.CreateBookListRequest{
		Name:        "Sci-Fi",
		Description: "space operas",
		Visibility:  "public",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, list.OwnerID)
	assert.Equal(t, "Alice", list.Owner.Name)

	owner, err := env.store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Contains(t, owner.BookListIDs, list.ID)
}

func TestCreateBookListValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")

	_, err := env.booklist.Create(ctx, alice.ID, service.CreateBookListRequest{
		Name:        "ab", // too short
		Description: "space operas",
		Visibility:  "public",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidation))

	_, err = env.booklist.Create(ctx, alice.ID, service.CreateBookListRequest{
		Name:        "Sci-Fi",
		Description: "space operas",
		Visibility:  "friends-only",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidation))
}

func TestDeleteBookListRemovesOwnerReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	require.NoError(t, env.booklist.Delete(ctx, listID, alice.ID))

	_, err := env.booklist.Get(ctx, listID, alice.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))

	owner, err := env.store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotContains(t, owner.BookListIDs, listID)
}

func TestDeleteBookListRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	err := env.booklist.Delete(ctx, listID, bob.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeForbidden))
}

func TestPatchBookListRefreshesLastEdited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	before, err := env.store.GetBookList(ctx, listID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	patched, err := env.booklist.Patch(ctx, listID, alice.ID, service.PatchBookListRequest{
		Name:       "Hard Sci-Fi",
		Visibility: "private",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hard Sci-Fi", patched.Name)
	assert.Equal(t, "some reading", patched.Description, "untouched fields survive a patch")
	assert.True(t, patched.LastEdited.After(before.LastEdited))
}

func TestPrivateListHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Secret TBR", "private")

	// The owner sees it.
	got, err := env.booklist.Get(ctx, listID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, listID, got.ID)

	// Everyone else gets a 404, not a 403, to avoid leaking existence.
	_, err = env.booklist.Get(ctx, listID, bob.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))

	// Anonymous requests too.
	_, err = env.booklist.Get(ctx, listID, "")
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestListRecentPublicCapsAtTen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")

	for i := range 12 {
		name := "List Number " + string(rune('A'+i))
		newList(t, env, alice.ID, name, "public")
	}
	newList(t, env, alice.ID, "Private One", "private")

	lists, err := env.booklist.ListRecentPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 10)
	for _, l := range lists {
		assert.True(t, l.Visibility.IsPublic(), "private lists never leak into the feed")
	}
}

func TestListByOwnerFiltersPrivateForOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")

	newList(t, env, alice.ID, "Public One", "public")
	newList(t, env, alice.ID, "Private One", "private")

	own, err := env.booklist.ListByOwner(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	theirs, err := env.booklist.ListByOwner(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Public One", theirs[0].Name)
}
