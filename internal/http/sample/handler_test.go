package sample

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applog "github.com/janisto/sampleapp/internal/platform/logging"
	appmiddleware "github.com/janisto/sampleapp/internal/platform/middleware"
	"github.com/janisto/sampleapp/internal/platform/respond"
)

// newTestRouter mounts the sample route behind a middleware that routes every
// request-scoped log entry into the returned observer.
func newTestRouter() (chi.Router, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(applog.WithLogger(r.Context(), logger)))
			})
		},
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("SampleTest", "test"))
	Register(api)
	return router, recorded
}

func TestGetReturnsGreeting(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "sample-get")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "Hello World!" {
		t.Fatalf("expected body 'Hello World!', got %q", body)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected text/plain; charset=utf-8, got %q", ct)
	}
}

func TestGetLogsOncePerInvocation(t *testing.T) {
	router, recorded := newTestRouter()

	for i := range 3 {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		entries := recorded.FilterMessage("This instance was used!").All()
		if len(entries) != i+1 {
			t.Fatalf("after %d requests expected %d log entries, got %d", i+1, i+1, len(entries))
		}
	}

	entry := recorded.FilterMessage("This instance was used!").All()[0]
	if entry.Level != zapcore.InfoLevel {
		t.Errorf("expected info level, got %v", entry.Level)
	}
	if entry.LoggerName != "SampleController" {
		t.Errorf("expected logger name SampleController, got %q", entry.LoggerName)
	}
	if len(entry.Context) != 0 {
		t.Errorf("expected no handler fields, got %+v", entry.ContextMap())
	}
}

func TestGetIgnoresQueryHeadersAndBody(t *testing.T) {
	router, recorded := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/?name=ignored&x=1", nil)
	req.Header.Set("Accept", "application/cbor")
	req.Header.Set("X-Custom", "value")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != Greeting {
		t.Fatalf("expected 200 %q, got %d %q", Greeting, resp.Code, resp.Body.String())
	}
	if n := recorded.FilterMessage(UsedMessage).Len(); n != 1 {
		t.Fatalf("expected 1 log entry, got %d", n)
	}
}

func TestGetIsIdempotent(t *testing.T) {
	router, _ := newTestRouter()

	var first string
	for i := range 10 {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		if i == 0 {
			first = resp.Body.String()
			continue
		}
		if resp.Body.String() != first {
			t.Fatalf("request %d returned %q, first returned %q", i, resp.Body.String(), first)
		}
	}
}

func TestGetConcurrentRequests(t *testing.T) {
	router, recorded := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	const n = 100
	var wg sync.WaitGroup
	bodies := make([]string, n)
	codes := make([]int, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Get(srv.URL + "/")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			errs[i] = err
			codes[i] = resp.StatusCode
			bodies[i] = string(b)
		}(i)
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("request %d failed: %v", i, errs[i])
		}
		if codes[i] != http.StatusOK || bodies[i] != Greeting {
			t.Fatalf("request %d: got %d %q", i, codes[i], bodies[i])
		}
	}
	if got := recorded.FilterMessage(UsedMessage).Len(); got != n {
		t.Fatalf("expected %d log entries, got %d", n, got)
	}
}

func TestOpenAPIDocumentsTextResponse(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("SampleTest", "test"))
	Register(api)

	op := api.OpenAPI().Paths["/"].Get
	if op == nil {
		t.Fatal("expected GET / to be documented")
	}
	if op.OperationID != "get-sample" {
		t.Errorf("unexpected operation ID %q", op.OperationID)
	}
	if _, ok := op.Responses["200"].Content["text/plain"]; !ok {
		t.Errorf("expected text/plain response content, got %+v", op.Responses["200"].Content)
	}
}
