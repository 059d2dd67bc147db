package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func checkoutRequest(session, key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req.WithContext(WithSessionID(req.Context(), session))
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "", ""))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "", ""))

	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be recorded without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"checkout_url":"https://x"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("s1", "abc", ""))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, checkoutRequest("s1", "abc", ""))
	if replay.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", replay.Code)
	}
	if replay.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if replay.Header().Get(replayedHeader) != "true" {
		t.Fatalf("expected replay marker header")
	}
	if strings.TrimSpace(replay.Body.String()) != `{"data":{"checkout_url":"https://x"}}` {
		t.Fatalf("expected stored body got %s", replay.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
	for _, ttl := range store.ttls {
		if ttl != time.Hour {
			t.Fatalf("expected configured ttl, got %v", ttl)
		}
	}
}

func TestIdempotencyReplaysRedirect(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://shop.example/c/1", http.StatusSeeOther)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "k", ""))
	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, checkoutRequest("s1", "k", ""))

	if replay.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", replay.Code)
	}
	if replay.Header().Get("Location") != "https://shop.example/c/1" {
		t.Fatalf("expected location preserved, got %q", replay.Header().Get("Location"))
	}
}

func TestIdempotencyKeysAreScopedBySession(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "same", ""))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s2", "same", ""))

	if calls != 2 {
		t.Fatalf("different sessions must not share a key, handler ran %d times", calls)
	}
}

func TestIdempotencyDoesNotRecordFailures(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "retry", ""))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "retry", ""))

	if calls != 2 {
		t.Fatalf("failed responses must allow a retry, handler ran %d times", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected failed attempts to release the key, found %v", store.data)
	}
}

func TestIdempotencyRejectsDuplicateWhileInFlight(t *testing.T) {
	store := newFakeStore()
	calls := 0
	var inner *httptest.ResponseRecorder
	var handler http.Handler
	handler = Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			inner = httptest.NewRecorder()
			handler.ServeHTTP(inner, checkoutRequest("s1", "dup", ""))
		}
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("s1", "dup", ""))

	if calls != 1 {
		t.Fatalf("duplicate must not reach the handler, ran %d times", calls)
	}
	if inner.Code != http.StatusConflict {
		t.Fatalf("expected in-flight duplicate to get 409, got %d", inner.Code)
	}
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, checkoutRequest("s1", "dup", ""))
	if replay.Code != http.StatusCreated || replay.Header().Get(replayedHeader) != "true" {
		t.Fatalf("expected finished request to replay, got %d", replay.Code)
	}
}

func TestIdempotencyPendingClaimIsShortLived(t *testing.T) {
	if got := pendingTTL(24 * time.Hour); got != maxPendingTTL {
		t.Fatalf("expected pending ttl capped at %v, got %v", maxPendingTTL, got)
	}
	if got := pendingTTL(time.Second); got != time.Second {
		t.Fatalf("expected short ttl kept, got %v", got)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("s1", "xyz", `{"a":1}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest("s1", "xyz", `{"a":2}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
