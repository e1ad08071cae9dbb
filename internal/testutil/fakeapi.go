// Package testutil holds an in-process stand-in for the restaurant API used by
// service and handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type call struct {
	auth string
	body []byte
}

// FakeAPI routes on "METHOD /api/path" keys and records every request it
// receives. Unregistered routes answer 404 with a DRF style detail body.
type FakeAPI struct {
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string][]call
	total    int
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		handlers: map[string]http.HandlerFunc{},
		calls:    map[string][]call{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *FakeAPI) BaseURL() string {
	return f.srv.URL + "/api/"
}

func (f *FakeAPI) Handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[route] = h
}

// JSON registers a route that always answers status with body encoded as JSON.
func (f *FakeAPI) JSON(route string, status int, body any) {
	f.Handle(route, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

func (f *FakeAPI) Hits(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls[route])
}

func (f *FakeAPI) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *FakeAPI) LastAuth(route string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cs := f.calls[route]; len(cs) > 0 {
		return cs[len(cs)-1].auth
	}
	return ""
}

// LastJSON decodes the body of the most recent request to route into v.
func (f *FakeAPI) LastJSON(t *testing.T, route string, v any) {
	t.Helper()
	f.mu.Lock()
	cs := f.calls[route]
	f.mu.Unlock()
	if len(cs) == 0 {
		t.Fatalf("no request recorded for %s", route)
	}
	if err := json.Unmarshal(cs[len(cs)-1].body, v); err != nil {
		t.Fatalf("decode body of %s: %v", route, err)
	}
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.calls[route] = append(f.calls[route], call{auth: r.Header.Get("Authorization"), body: body})
	f.total++
	h := f.handlers[route]
	f.mu.Unlock()

	if h == nil {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h(w, r)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
