package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/leaflist/leaflist-server/internal/errors"
	"github.com/leaflist/leaflist-server/internal/service"
)

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	review, err := env.reviews.Create(ctx, bob.ID, service.CreateReviewRequest{
		BookListID: listID,
		Body:       "Great picks, would read again",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", review.User.Name)

	list, err := env.store.GetBookList(ctx, listID)
	require.NoError(t, err)
	assert.Len(t, list.ReviewIDs, 1, "review ids grow by exactly one")

	public, err := env.reviews.ListPublic(ctx, listID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, review.ID, public[0].ID)
}

func TestReviewBodyTooShort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	_, err := env.reviews.Create(ctx, alice.ID, service.CreateReviewRequest{
		BookListID: listID,
		Body:       "ok",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidation))
}

func TestHideReviewOmitsButKeepsRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	review, err := env.reviews.Create(ctx, bob.ID, service.CreateReviewRequest{
		BookListID: listID,
		Body:       "Great picks",
	})
	require.NoError(t, err)

	_, err = env.reviews.Hide(ctx, bob.ID, service.UpdateReviewRequest{ReviewID: review.ID})
	require.NoError(t, err)

	// Hidden from the public listing.
	public, err := env.reviews.ListPublic(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, public)

	// But still stored and still attached to the list.
	stored, err := env.store.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.False(t, stored.Visibility.IsVisible())

	list, err := env.store.GetBookList(ctx, listID)
	require.NoError(t, err)
	assert.Contains(t, list.ReviewIDs, review.ID)
}

func TestHideReviewRequiresAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	bob := registerActiveUser(t, env, "Bob", "bob@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	review, err := env.reviews.Create(ctx, bob.ID, service.CreateReviewRequest{
		BookListID: listID,
		Body:       "Great picks",
	})
	require.NoError(t, err)

	_, err = env.reviews.Hide(ctx, alice.ID, service.UpdateReviewRequest{ReviewID: review.ID})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeForbidden))
}

func TestListPublicNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	first, err := env.reviews.Create(ctx, alice.ID, service.CreateReviewRequest{BookListID: listID, Body: "first impression"})
	require.NoError(t, err)
	second, err := env.reviews.Create(ctx, alice.ID, service.CreateReviewRequest{BookListID: listID, Body: "second impression"})
	require.NoError(t, err)

	public, err := env.reviews.ListPublic(ctx, listID)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, second.ID, public[0].ID)
	assert.Equal(t, first.ID, public[1].ID)
}

func TestAdminDeleteReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := registerActiveUser(t, env, "Alice", "alice@example.com", "hunter22")
	listID := newList(t, env, alice.ID, "Sci-Fi", "public")

	review, err := env.reviews.Create(ctx, alice.ID, service.CreateReviewRequest{BookListID: listID, Body: "soon gone"})
	require.NoError(t, err)

	require.NoError(t, env.admin.DeleteReview(ctx, review.ID))

	list, err := env.store.GetBookList(ctx, listID)
	require.NoError(t, err)
	assert.NotContains(t, list.ReviewIDs, review.ID)
}
