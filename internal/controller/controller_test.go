package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/log"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// request is one call seen by the fake server.
type request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeServer records every request before handing it to the mux.
type fakeServer struct {
	mux *http.ServeMux

	mu       sync.Mutex
	requests []request
}

func newFakeServer() *fakeServer {
	return &fakeServer{mux: http.NewServeMux()}
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
	f.mu.Lock()
	f.requests = append(f.requests, request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	f.mux.ServeHTTP(w, r)
}

func (f *fakeServer) handle(pattern string, fn http.HandlerFunc) {
	f.mux.HandleFunc(pattern, fn)
}

// calls returns the recorded requests for path.
func (f *fakeServer) calls(path string) []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []request
	for _, r := range f.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeServer) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test server
}

// newClient returns an API client for srv using the portal routes.
func newClient(t *testing.T, srv *fakeServer) *api.Client {
	t.Helper()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	routes, err := config.RoutesForProfile(config.ProfilePortal)
	if err != nil {
		t.Fatal(err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := api.New(ts.URL, routes,
		api.WithHTTPClient(&http.Client{Jar: jar, Timeout: 5 * time.Second}),
		api.WithLogger(log.Discard()),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// newTestController wires a controller with the HTML renderer to client.
func newTestController(t *testing.T, client API, opts ...Option) (*Controller, *view.View) {
	t.Helper()

	v := view.New()
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	return New(client, v, render.NewHTML(), opts...), v
}

// countElements parses an HTML fragment and counts its element nodes by tag.
func countElements(t *testing.T, fragment, tag string) int {
	t.Helper()

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div})
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (tag == "" || n.Data == tag) {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return count
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("invalid JSON body %q: %v", body, err)
	}
	return m
}

func emptyHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, []any{})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
