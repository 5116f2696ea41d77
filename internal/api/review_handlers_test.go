package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/dto"
)

func (ts *testServer) postReview(t *testing.T, token, listID, body string) *dto.Review {
	t.Helper()

	resp := ts.api.Post("/api/review/new", map[string]any{
		"booklist": listID,
		"review":   body,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	return decodeBody[*dto.Review](t, resp.Body.Bytes())
}

func TestCreateReview(t *testing.T) {
	ts := setupTestServer(t)

	_, aliceToken := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, aliceToken, "Sci-Fi", "public")

	bobID, bobToken := ts.createActiveUser(t, "Bobby", "bob@example.com", "secret123")

	review := ts.postReview(t, bobToken, list.ID, "Great picks, needs more Le Guin")
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, bobID, review.UserID)
	assert.Equal(t, list.ID, review.BookListID)

	resp := ts.api.Get("/api/auth/public/review/" + list.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	reviews := decodeBody[[]*dto.Review](t, resp.Body.Bytes())
	require.Len(t, reviews, 1)
	assert.Equal(t, "Bobby", reviews[0].User.Name)
}

func TestCreateReview_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/review/new", map[string]any{
		"booklist": "list-1",
		"review":   "drive-by opinion",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateReview_UnknownList(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")

	resp := ts.api.Post("/api/review/new", map[string]any{
		"booklist": "list-missing",
		"review":   "shouting into the void",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestHideReview(t *testing.T) {
	ts := setupTestServer(t)

	_, aliceToken := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, aliceToken, "Sci-Fi", "public")

	_, bobToken := ts.createActiveUser(t, "Bobby", "bob@example.com", "secret123")
	review := ts.postReview(t, bobToken, list.ID, "Posted in haste")

	resp := ts.api.Put("/api/review/update", map[string]any{
		"reviewId": review.ID,
	}, "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	hidden := decodeBody[*dto.Review](t, resp.Body.Bytes())
	assert.Equal(t, domain.ReviewVisibilityHidden, hidden.Visibility)

	// Off the public listing, but still attached to the list.
	public := ts.api.Get("/api/auth/public/review/" + list.ID)
	require.Equal(t, http.StatusOK, public.Code)
	assert.Empty(t, decodeBody[[]*dto.Review](t, public.Body.Bytes()))

	detail := ts.api.Get("/api/auth/public/bookList/" + list.ID)
	got := decodeBody[*dto.BookList](t, detail.Body.Bytes())
	assert.Contains(t, got.ReviewIDs, review.ID)
}

func TestHideReview_OnlyAuthor(t *testing.T) {
	ts := setupTestServer(t)

	_, aliceToken := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, aliceToken, "Sci-Fi", "public")

	_, bobToken := ts.createActiveUser(t, "Bobby", "bob@example.com", "secret123")
	review := ts.postReview(t, bobToken, list.ID, "Bobby's honest take")

	// The list owner cannot hide someone else's review.
	resp := ts.api.Put("/api/review/update", map[string]any{
		"reviewId": review.ID,
	}, "Authorization: Bearer "+aliceToken)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestPublicReviews_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, token, "Sci-Fi", "public")

	ts.postReview(t, token, list.ID, "First impressions")
	ts.postReview(t, token, list.ID, "Second thoughts")

	resp := ts.api.Get("/api/auth/public/review/" + list.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	reviews := decodeBody[[]*dto.Review](t, resp.Body.Bytes())
	require.Len(t, reviews, 2)
	assert.Equal(t, "Second thoughts", reviews[0].Body)
	assert.Equal(t, "First impressions", reviews[1].Body)
}
