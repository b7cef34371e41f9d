package server

import (
	"fmt"
	"net/http"
	"testing"

	"shayarihub/internal/models"
	"shayarihub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShayariLifecycle(t *testing.T) {
	ts := newTestServer(t)
	author := testutil.CreateUser(t, ts.db, "author")
	reader := testutil.CreateUser(t, ts.db, "reader")
	authorToken, readerToken := ts.tokenFor(t, author), ts.tokenFor(t, reader)

	resp, body := ts.do(t, http.MethodPost, "/api/shayaris", map[string]string{
		"title": "  Chaand  ", "content": "Chaand raat ki baat",
	}, authorToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "Shayari created successfully", body["message"])
	created := body["shayari"].(map[string]any)
	assert.Equal(t, "Chaand", created["title"])
	assert.Equal(t, "public", created["visibility"])
	id := uint(created["id"].(float64))
	path := fmt.Sprintf("/api/shayaris/%d", id)

	resp, body = ts.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "author", body["shayari"].(map[string]any)["author"].(map[string]any)["username"])

	resp, body = ts.do(t, http.MethodPut, path, map[string]string{"title": "Hijack", "content": "x"}, readerToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Shayari not found or unauthorized", body["error"])

	resp, body = ts.do(t, http.MethodPut, path, map[string]string{
		"title": "Chaand", "content": "Badla hua", "visibility": "private",
	}, authorToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Shayari updated successfully", body["message"])

	// Private now: hidden from others, visible to the author.
	resp, _ = ts.do(t, http.MethodGet, path, nil, readerToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, path, nil, authorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, path+"/like", nil, readerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Cannot like private shayari", body["error"])

	resp, body = ts.do(t, http.MethodDelete, path, nil, readerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, body)

	resp, body = ts.do(t, http.MethodDelete, path, nil, authorToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Shayari deleted successfully", body["message"])
	assert.Zero(t, testutil.CountRows(t, ts.db, &models.Shayari{}, "id = ?", id))
}

func TestCreateShayariValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, testutil.CreateUser(t, ts.db, "poet"))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"content": "words"}},
		{"missing content", map[string]string{"title": "Title"}},
		{"unknown visibility", map[string]string{"title": "T", "content": "c", "visibility": "friends"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/api/shayaris", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, models.CodeValidation, body["code"])
		})
	}

	resp, _ := ts.do(t, http.MethodPost, "/api/shayaris", map[string]string{"title": "T", "content": "c"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestToggleLikeAndStatus(t *testing.T) {
	ts := newTestServer(t)
	author := testutil.CreateUser(t, ts.db, "author")
	fan := testutil.CreateUser(t, ts.db, "fan")
	sh := testutil.CreateShayari(t, ts.db, author.ID, "Baarish", "Baarish ki boondein")
	path := fmt.Sprintf("/api/shayaris/%d/like", sh.ID)
	fanToken := ts.tokenFor(t, fan)

	resp, body := ts.do(t, http.MethodPost, path, nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likesCount"])
	assert.Equal(t, "Shayari liked successfully", body["message"])

	resp, body = ts.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(1), body["likesCount"])

	resp, body = ts.do(t, http.MethodGet, path, nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])

	resp, body = ts.do(t, http.MethodPost, path, nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["likesCount"])
	assert.Equal(t, "Shayari unliked successfully", body["message"])

	resp, _ = ts.do(t, http.MethodPost, "/api/shayaris/9999/like", nil, fanToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportShayari(t *testing.T) {
	ts := newTestServer(t)
	author := testutil.CreateUser(t, ts.db, "author")
	reporter := testutil.CreateUser(t, ts.db, "reporter")
	sh := testutil.CreateShayari(t, ts.db, author.ID, "Tez", "Tez hawa")
	path := fmt.Sprintf("/api/shayaris/%d/report", sh.ID)
	token := ts.tokenFor(t, reporter)

	resp, body := ts.do(t, http.MethodPost, path, map[string]string{"reason": "spam", "description": "copied"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "Report submitted successfully", body["message"])

	resp, body = ts.do(t, http.MethodPost, path, map[string]string{"reason": "spam"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, body["code"])

	resp, body = ts.do(t, http.MethodPost, path, map[string]string{"reason": ""}, ts.tokenFor(t, author))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])
}

func TestListShayarisVisibility(t *testing.T) {
	ts := newTestServer(t)
	author := testutil.CreateUser(t, ts.db, "author")
	other := testutil.CreateUser(t, ts.db, "other")
	testutil.CreateShayari(t, ts.db, author.ID, "Khula", "sabke liye")
	testutil.CreateShayari(t, ts.db, author.ID, "Chhupa", "sirf mere liye", testutil.Private())
	testutil.CreateShayari(t, ts.db, other.ID, "Doosra", "kisi aur ka")

	titles := func(body map[string]any) []string {
		var out []string
		for _, s := range body["shayaris"].([]any) {
			out = append(out, s.(map[string]any)["title"].(string))
		}
		return out
	}

	_, body := ts.do(t, http.MethodGet, "/api/shayaris", nil, "")
	assert.ElementsMatch(t, []string{"Khula", "Doosra"}, titles(body))

	byAuthor := fmt.Sprintf("/api/shayaris?userId=%d&visibility=all", author.ID)
	_, body = ts.do(t, http.MethodGet, byAuthor, nil, ts.tokenFor(t, other))
	assert.Equal(t, []string{"Khula"}, titles(body))

	_, body = ts.do(t, http.MethodGet, byAuthor, nil, ts.tokenFor(t, author))
	assert.ElementsMatch(t, []string{"Khula", "Chhupa"}, titles(body))
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["total"])

	resp, body := ts.do(t, http.MethodGet, "/api/shayaris?userId=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user ID", body["error"])
}

func TestInvalidShayariID(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/shayaris/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", body["error"])
}
