package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shayarihub/internal/audit"
	"shayarihub/internal/config"
	"shayarihub/internal/models"
	"shayarihub/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "server-test-secret-long-enough-for-hs256"

type testServer struct {
	srv   *Server
	app   *fiber.App
	db    *gorm.DB
	mr    *miniredis.Miniredis
	audit *audit.MemoryRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      testSecret,
		TokenTTLHours:  1,
		AllowedOrigins: "http://localhost:3000",
		RateLimitRPM:   1000,
		UploadDir:      t.TempDir(),
		PublicMediaURL: "/media",
		MaxUploadMB:    1,
	}
	recorder := audit.NewMemoryRecorder(100)
	srv, err := NewServerWithDeps(cfg, db, rdb, Deps{Audit: recorder})
	require.NoError(t, err)

	app := srv.NewApp()
	t.Cleanup(srv.shutdownFn)

	return &testServer{srv: srv, app: app, db: db, mr: mr, audit: recorder}
}

// tokenFor issues a session token without going through the login limiter.
func (ts *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	session, err := ts.srv.authService.IssueToken(u.ID)
	require.NoError(t, err)
	return session.Token
}

// do sends a JSON request and decodes the JSON response into a map.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", body["status"])

	resp, body = ts.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"database": "healthy", "redis": "healthy"}, body["checks"])

	ts.mr.Close()
	resp, body = ts.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	admin := testutil.CreateUser(t, ts.db, "mod", testutil.WithRole(models.RoleAdmin))
	target := testutil.CreateUser(t, ts.db, "troll")

	ts.do(t, http.MethodGet, "/api/search?q=dil", nil, "")
	resp, body := ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", target.ID),
		map[string]string{"action": "ban"}, ts.tokenFor(t, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, series := range []string{
		"http_requests_total",
		"shayarihub_search_requests_total",
		`shayarihub_moderation_actions_total{action="ban"`,
	} {
		assert.Contains(t, string(raw), series)
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "Cannot GET /api/nope")
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/health/live", nil, "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
}
