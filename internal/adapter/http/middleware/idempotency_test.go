package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/goodsteward/ledger/internal/adapter/http/middleware"
	"github.com/goodsteward/ledger/internal/usecase/mocks"
)

func TestIdempotencyMiddleware_FirstRequestStoresResponse(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", gomock.Any(), gomock.Any()).
		Return(false, nil, nil)
	store.EXPECT().
		Update(gomock.Any(), "key-1", []byte(`{"id":"txn-1"}`), gomock.Any()).
		Return(nil)

	var handlerCalls int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"txn-1"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{}"))
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	middleware.NewIdempotencyMiddleware(store).Wrap(next).ServeHTTP(rec, req)

	assert.Equal(t, 1, handlerCalls)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", gomock.Any(), gomock.Any()).
		Return(true, []byte(`{"id":"txn-1"}`), nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on a replayed request")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{}"))
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	middleware.NewIdempotencyMiddleware(store).Wrap(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Idempotency-Replay"))
	assert.JSONEq(t, `{"id":"txn-1"}`, rec.Body.String())
}

func TestIdempotencyMiddleware_PassthroughWithoutKey(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No store interaction at all without the header.
	store := mocks.NewMockIdempotencyStore(ctrl)

	var handlerCalls int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	middleware.NewIdempotencyMiddleware(store).Wrap(next).ServeHTTP(rec, req)

	assert.Equal(t, 1, handlerCalls)
}

func TestIdempotencyMiddleware_IgnoresReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	var handlerCalls int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/txn-1", nil)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	middleware.NewIdempotencyMiddleware(store).Wrap(next).ServeHTTP(rec, req)

	assert.Equal(t, 1, handlerCalls)
}
