package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type observation struct {
	method, route, status string
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveHTTP(method, route, status string, _ time.Duration) {
	o.seen = append(o.seen, observation{method, route, status})
}

func TestLoggingObservesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Logging(nil, obs))
	r.Get("/api/v1/products/{productId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil))

	if len(obs.seen) != 1 {
		t.Fatalf("expected one observation, got %d", len(obs.seen))
	}
	got := obs.seen[0]
	if got.route != "/api/v1/products/{productId}" || got.status != "418" || got.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", got)
	}
}

func TestStatusRecorderDefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _ = rec.Write([]byte("ok"))
	if rec.status != http.StatusOK || rec.bytes != 2 {
		t.Fatalf("unexpected recorder state %+v", rec)
	}
}

func TestRequestIDPropagatesHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("expected request id echoed, got %q", rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestRecovererReturns500(t *testing.T) {
	rec := httptest.NewRecorder()
	Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"INTERNAL_ERROR"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestRecovererKeepsResponseAlreadyStarted(t *testing.T) {
	rec := httptest.NewRecorder()
	Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusAccepted || rec.Body.String() != "partial" {
		t.Fatalf("expected started response untouched, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
