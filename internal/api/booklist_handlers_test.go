package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/dto"
)

func (ts *testServer) createList(t *testing.T, token, name, visibility string) *dto.BookList {
	t.Helper()

	resp := ts.api.Post("/api/book-list/new", map[string]any{
		"name":        name,
		"description": "about " + name,
		"visibility":  visibility,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	return decodeBody[*dto.BookList](t, resp.Body.Bytes())
}

func TestCreateBookList_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/book-list/new", map[string]any{
		"name":        "Sci-Fi",
		"description": "space operas",
		"visibility":  "public",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestCreateBookList(t *testing.T) {
	ts := setupTestServer(t)

	userID, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")

	list := ts.createList(t, token, "Sci-Fi", "public")
	assert.NotEmpty(t, list.ID)
	assert.Equal(t, "Sci-Fi", list.Name)
	assert.Equal(t, userID, list.OwnerID)
	assert.Equal(t, "Alice", list.Owner.Name)
}

func TestCreateBookList_InvalidVisibility(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")

	resp := ts.api.Post("/api/book-list/new", map[string]any{
		"name":        "Sci-Fi",
		"description": "space operas",
		"visibility":  "friends-only",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestGetPublicBookList(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, token, "Sci-Fi", "public")

	resp := ts.api.Get("/api/auth/public/bookList/" + list.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	got := decodeBody[*dto.BookList](t, resp.Body.Bytes())
	assert.Equal(t, list.ID, got.ID)
	assert.Equal(t, "Alice", got.Owner.Name)
}

func TestGetPublicBookList_PrivateIsHidden(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, token, "Secret shelf", "private")

	resp := ts.api.Get("/api/auth/public/bookList/" + list.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code, "private lists do not leak")
}

func TestPatchBookList(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, token, "Sci-Fi", "public")

	resp := ts.api.Patch("/api/book-list/"+list.ID, map[string]any{
		"name": "Hard Sci-Fi",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	got := decodeBody[*dto.BookList](t, resp.Body.Bytes())
	assert.Equal(t, "Hard Sci-Fi", got.Name)
	assert.Equal(t, list.Description, got.Description, "untouched fields survive")
}

func TestPatchBookList_NotOwner(t *testing.T) {
	ts := setupTestServer(t)

	_, aliceToken := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, aliceToken, "Sci-Fi", "public")

	_, bobToken := ts.createActiveUser(t, "Bobby", "bob@example.com", "secret123")

	resp := ts.api.Patch("/api/book-list/"+list.ID, map[string]any{
		"name": "Hijacked",
	}, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestDeleteBookList(t *testing.T) {
	ts := setupTestServer(t)

	userID, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	list := ts.createList(t, token, "Sci-Fi", "public")

	resp := ts.api.Delete("/api/book-list/"+list.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The list is gone and the owner no longer references it.
	gone := ts.api.Get("/api/auth/public/bookList/" + list.ID)
	assert.Equal(t, http.StatusNotFound, gone.Code)

	owned := ts.api.Get("/api/book-list/"+userID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, owned.Code)
	lists := decodeBody[[]*dto.BookList](t, owned.Body.Bytes())
	assert.Empty(t, lists)
}

func TestListBookListsByOwner_PrivateVisibleToOwnerOnly(t *testing.T) {
	ts := setupTestServer(t)

	aliceID, aliceToken := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	ts.createList(t, aliceToken, "Sci-Fi", "public")
	ts.createList(t, aliceToken, "Secret shelf", "private")

	_, bobToken := ts.createActiveUser(t, "Bobby", "bob@example.com", "secret123")

	mine := ts.api.Get("/api/book-list/"+aliceID, "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, mine.Code)
	assert.Len(t, decodeBody[[]*dto.BookList](t, mine.Body.Bytes()), 2)

	theirs := ts.api.Get("/api/book-list/"+aliceID, "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, theirs.Code)
	visible := decodeBody[[]*dto.BookList](t, theirs.Body.Bytes())
	require.Len(t, visible, 1)
	assert.Equal(t, "Sci-Fi", visible[0].Name)
}

func TestListPublicBookLists(t *testing.T) {
	ts := setupTestServer(t)

	_, token := ts.createActiveUser(t, "Alice", "alice@example.com", "secret123")
	ts.createList(t, token, "Sci-Fi", "public")
	ts.createList(t, token, "Secret shelf", "private")

	resp := ts.api.Get("/api/book-list/all", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	lists := decodeBody[[]*dto.BookList](t, resp.Body.Bytes())
	require.Len(t, lists, 1)
	assert.Equal(t, "Sci-Fi", lists[0].Name)
}
