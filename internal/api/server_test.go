package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanverite/blog-api/internal/api"
	"github.com/sanverite/blog-api/internal/post"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func init() {
	api.TimeNow = func() time.Time { return fixedNow }
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, seed ...post.Post) (http.Handler, *post.Store) {
	t.Helper()
	store := post.NewStore(seed...)
	srv := api.NewServer(store, api.ServerOptions{Logger: quietLogger()})
	return srv.Handler(), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v\nbody: %s", v, err, rec.Body.String())
	}
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decode[map[string]string](t, rec)
	if got["status"] != "ok" || got["timestamp"] != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestStatus(t *testing.T) {
	h, _ := newTestServer(t, post.Seed()...)
	rec := do(t, h, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decode[api.StatusResponse](t, rec)
	if got.Posts != 2 || got.NextID != 3 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.StartedAt != "" {
		t.Fatalf("server not started, want empty started_at, got %q", got.StartedAt)
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := api.NewServer(post.NewStore(), api.ServerOptions{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Logger:          quietLogger(),
	})
	srv.Start()
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestUnknownRoute_APIErrorShape(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decode[api.APIError](t, rec)
	if got.Error == "" || got.Timestamp != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t, post.Seed()...)
	rec := do(t, h, http.MethodPatch, "/api/posts", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	h, _ := newTestServer(t, post.Seed()...)
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set(echo.HeaderOrigin, "https://frontend.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin: got %q want *", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h, _ := newTestServer(t, post.Seed()...)
	req := httptest.NewRequest(http.MethodOptions, "/api/posts/1", nil)
	req.Header.Set(echo.HeaderOrigin, "https://frontend.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPut) {
		t.Fatalf("allow methods: %q", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	}
}

func TestRequestID_Set(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/healthz", "")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected X-Request-Id header")
	}
}

func TestRateLimit_DeniesBurstOverflow(t *testing.T) {
	srv := api.NewServer(post.NewStore(), api.ServerOptions{
		Logger:    quietLogger(),
		RateLimit: 1,
		RateBurst: 1,
	})
	h := srv.Handler()

	if rec := do(t, h, http.MethodGet, "/api/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/healthz", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d want 429", rec.Code)
	}
}

func TestDocs(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, api.SpecPath, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("spec status: got %d", rec.Code)
	}
	spec := decode[map[string]any](t, rec)
	if spec["swagger"] != "2.0" {
		t.Fatalf("unexpected spec version: %v", spec["swagger"])
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range []string{"/posts", "/posts/{id}", "/posts/search"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("spec missing path %s", p)
		}
	}

	rec = do(t, h, http.MethodGet, api.DocsPath, "")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("docs redirect: got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != api.DocsPath+"/index.html" {
		t.Fatalf("docs redirect location: %q", loc)
	}

	rec = do(t, h, http.MethodGet, api.DocsPath+"/index.html", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("docs UI: got %d", rec.Code)
	}
}
