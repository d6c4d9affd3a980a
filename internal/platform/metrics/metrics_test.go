package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter(m *HTTP) chi.Router {
	router := chi.NewRouter()
	router.Use(m.Middleware())
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Get("/empty", func(w http.ResponseWriter, r *http.Request) {})
	router.Method(http.MethodGet, "/metrics", m.Handler())
	return router
}

func serve(router http.Handler, path string) {
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestMiddlewareCountsByRouteAndStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())
	router := newTestRouter(m)

	serve(router, "/")
	serve(router, "/")
	serve(router, "/teapot")
	serve(router, "/empty")

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/", "200")); got != 2 {
		t.Fatalf("expected 2 requests for /, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/teapot", "418")); got != 1 {
		t.Fatalf("expected 1 teapot request, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/empty", "200")); got != 1 {
		t.Fatalf("expected implicit 200 for empty handler, got %v", got)
	}
}

func TestMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	router := newTestRouter(m)

	serve(router, "/does-not-exist")
	serve(router, "/another/missing/path")

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")); got != 2 {
		t.Fatalf("expected 2 unmatched requests, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	router := newTestRouter(m)
	serve(router, "/")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`http_requests_total{code="200",method="GET",route="/"} 1`,
		"http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
