package main

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

// TestMiddlewaresStacks ensures we have the exact number of middlewares per stack.
func TestMiddlewaresStacks(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	pub, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, ch bool
	queue := make(chan int, 3)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 3
		ch = true
	}

	stack := Middlewares{middlewareA, middlewareB}
	chained := stack.Chain(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	chained(httptest.NewRecorder(), req, httprouter.Params{})
	close(queue)

	assert.True(t, ca)
	assert.True(t, cb)
	assert.True(t, ch)

	order := []int{}
	for v := range queue {
		order = append(order, v)
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

// TestRequestsCounterMiddleware ensures each request bumps the stats counter
// and exposes its number through the context.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	var gotNumber uint64
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gotNumber = GetRequestNumberFromContext(r.Context())
	}
	wrapped := api.RequestsCounterMiddleware(handler)

	wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})
	assert.Equal(t, uint64(1), gotNumber)
	wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})
	assert.Equal(t, uint64(2), gotNumber)
	assert.Equal(t, uint64(2), atomic.LoadUint64(&api.stats.called))
}

// TestRequestIDMiddleware ensures a request id lands into the context.
func TestRequestIDMiddleware(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	var gotID string
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gotID = GetValueFromContext(r.Context(), RequestIDContextKey)
	}
	api.RequestIDMiddleware(handler)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})
	assert.Equal(t, "r:cb8f2136-fae4-4200-85d9-3533c7f8c70d", gotID)
}

// TestMaintenanceMiddleware ensures public requests are short-circuited
// with 503 while the maintenance mode is on.
func TestMaintenanceMiddleware(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	var called bool
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.MaintenanceMiddleware(handler)

	api.mode.enabled.Store(true)
	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest(http.MethodGet, "/api/books", nil), httprouter.Params{})
	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	api.mode.enabled.Store(false)
	wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/books", nil), httprouter.Params{})
	assert.True(t, called)
}

// TestPanicRecoveryMiddleware ensures a panicking handler renders the
// uniform error body with 500.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		panic("boom")
	}
	w := httptest.NewRecorder()
	api.PanicRecoveryMiddleware(handler)(w, httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"errors":["failed to process the request."]}`, w.Body.String())
}

// TestCoreMiddleware ensures the response status lands into the statistics.
func TestCoreMiddleware(t *testing.T) {
	api := newTestAPIHandler(nil, nil)
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	}
	api.CoreMiddleware(handler)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), httprouter.Params{})

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(1), api.stats.status[http.StatusTeapot])
}
