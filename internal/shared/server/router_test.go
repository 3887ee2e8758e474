package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"a11y-backend/internal/shared/config"
	"a11y-backend/internal/shared/metrics"
	"a11y-backend/internal/shared/server/middleware"
)

func newTestRouter(rps float64, burst int) *gin.Engine {
	r := NewRouter(RouterDeps{
		Config:  config.Config{Env: "dev", RateLimitRPS: rps, RateLimitBurst: burst},
		Metrics: metrics.New(),
	})
	gin.SetMode(gin.TestMode)
	return r
}

func TestRouterServesIndexHealthAndMetrics(t *testing.T) {
	r := newTestRouter(1, 1)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "<html") {
		t.Fatalf("expected index page, got %d", resp.Code)
	}
	if resp.Header().Get(middleware.SessionHeader) == "" {
		t.Fatal("expected a minted session id")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected healthz response %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "a11y_http_requests_total") {
		t.Fatalf("unexpected metrics response %d", resp.Code)
	}
}

func TestRouterUnknownRouteUsesEnvelope(t *testing.T) {
	r := newTestRouter(1, 1)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if resp.Code != http.StatusNotFound || !strings.Contains(resp.Body.String(), `"code":"not_found"`) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestRouterRateLimitsPostsPerSession(t *testing.T) {
	r := newTestRouter(0.001, 1)

	post := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/nope", nil)
		req.Header.Set(middleware.SessionHeader, session)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}
	if code := post("a"); code == http.StatusTooManyRequests {
		t.Fatal("first request should pass")
	}
	if code := post("a"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := post("b"); code == http.StatusTooManyRequests {
		t.Fatal("other sessions keep their own budget")
	}

	// GETs are not limited.
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(middleware.SessionHeader, "a")
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHealthzReportsDatabase(t *testing.T) {
	pool, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer pool.Close()
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	r := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}, DB: pool})
	gin.SetMode(gin.TestMode)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"max_open"`) {
		t.Fatalf("unexpected healthy response %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusServiceUnavailable || !strings.Contains(resp.Body.String(), `"code":"service_unavailable"`) {
		t.Fatalf("unexpected unhealthy response %d %s", resp.Code, resp.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
