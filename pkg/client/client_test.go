package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeServer answers a handful of routes with canned JSON and records the
// last request it saw.
type fakeServer struct {
	mu   sync.Mutex
	last request
}

type request struct {
	path  string
	query string
	auth  string
	body  map[string]any
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = request{path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&f.last.body)
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/stats":
		w.Write([]byte(`{"nodes": 9, "edges": 12}`))
	case r.URL.Path == "/nodes" && r.Method == http.MethodPost:
		if f.last.body["name"] == "John" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error": "node name already in use: John"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "abc", "name": "Dune", "category": "Movie", "properties": {"year": 2021}}`))
	case r.URL.Path == "/nodes":
		w.Write([]byte(`{"nodes": [{"id": "1", "name": "Interstellar", "category": "Movie"}]}`))
	case strings.HasSuffix(r.URL.Path, "/adjacent"), strings.HasSuffix(r.URL.Path, "/recommendations"):
		w.Write([]byte(`{"nodes": [{"id": "2", "name": "Reuben", "category": "Person"}, {"id": "3", "name": "Laney", "category": "Person"}]}`))
	case r.URL.Path == "/subgraph", r.URL.Path == "/edges":
		w.Write([]byte(`{"edges": [{"source": "John", "target": "Laney", "category": "Knows"}]}`))
	case r.URL.Path == "/relationships" && r.Method == http.MethodGet:
		w.Write([]byte(`{"source": "Reuben", "target": "Interstellar", "category": "Watched", "properties": {"rating": 5}}`))
	case r.URL.Path == "/relationships" && r.Method == http.MethodPatch:
		w.Write([]byte(`{"source": "Reuben", "target": "Interstellar", "category": "Watched", "properties": {"rating": 4}}`))
	case r.URL.Path == "/relationships":
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "source node not found: X"}`))
	case r.URL.Path == "/export/table":
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("n,m\nJohn,Laney\n"))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not json"))
	}
}

func (f *fakeServer) lastRequest() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	f := &fakeServer{}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return NewWithURL(ts.URL), f
}

func TestClientQueries(t *testing.T) {
	c, srv := newClient(t)
	c.WithToken("secret")

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Nodes != 9 || stats.Edges != 12 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if got := srv.lastRequest().auth; got != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", got)
	}

	nodes, err := c.FindNodes(Query{Category: "Movie", Key: "year", Value: "2014"})
	if err != nil {
		t.Fatalf("FindNodes failed: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "Interstellar" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
	if got := srv.lastRequest().query; got != "category=Movie&key=year&value=2014" {
		t.Errorf("unexpected query string %q", got)
	}

	adj, err := c.Adjacent("John", "Person", "Knows")
	if err != nil {
		t.Fatalf("Adjacent failed: %v", err)
	}
	if len(adj) != 2 || adj[0].Name != "Reuben" {
		t.Errorf("unexpected adjacent nodes: %+v", adj)
	}
	if req := srv.lastRequest(); req.path != "/nodes/John/adjacent" || req.query != "node_category=Person&rel_category=Knows" {
		t.Errorf("unexpected request %s?%s", req.path, req.query)
	}

	edges, err := c.Subgraph([]string{"John", "Laney"})
	if err != nil {
		t.Fatalf("Subgraph failed: %v", err)
	}
	if len(edges) != 1 || edges[0].Category != "Knows" {
		t.Errorf("unexpected edges: %+v", edges)
	}
	if body := srv.lastRequest().body; !hasNames(body, 2) {
		t.Errorf("subgraph body not sent: %+v", body)
	}

	csv, err := c.ExportTable("", "")
	if err != nil {
		t.Fatalf("ExportTable failed: %v", err)
	}
	if string(csv) != "n,m\nJohn,Laney\n" {
		t.Errorf("unexpected CSV %q", csv)
	}
}

func TestClientErrors(t *testing.T) {
	c, _ := newClient(t)

	created, err := c.AddNode(Node{Name: "Dune", Category: "Movie", Properties: map[string]any{"year": 2021}})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if created.ID != "abc" {
		t.Errorf("expected server-assigned id, got %+v", created)
	}

	_, err = c.AddNode(Node{Name: "John", Category: "Person"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if apiErr.Message != "node name already in use: John" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}

	err = c.AddRelationship(Edge{Source: "X", Target: "Dune", Category: "Watched"})
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}

	_, err = c.GetNode("missing/odd")
	if !errors.As(err, &apiErr) || apiErr.Message != "not json" {
		t.Errorf("non-JSON error body should be kept verbatim, got %v", err)
	}
}

func TestClientRelationships(t *testing.T) {
	c, srv := newClient(t)

	e, err := c.GetRelationship("Reuben", "Interstellar")
	if err != nil {
		t.Fatalf("GetRelationship failed: %v", err)
	}
	if e.Category != "Watched" || e.Properties["rating"] != float64(5) {
		t.Errorf("unexpected edge: %+v", e)
	}
	if got := srv.lastRequest().query; got != "source=Reuben&target=Interstellar" {
		t.Errorf("unexpected query string %q", got)
	}

	e, err = c.SetRelationshipProperties("Reuben", "Interstellar", map[string]any{"rating": 4, "note": nil})
	if err != nil {
		t.Fatalf("SetRelationshipProperties failed: %v", err)
	}
	if e.Properties["rating"] != float64(4) {
		t.Errorf("unexpected edge: %+v", e)
	}
	body := srv.lastRequest().body
	props, _ := body["properties"].(map[string]any)
	if body["source"] != "Reuben" || body["target"] != "Interstellar" || props["rating"] != float64(4) {
		t.Errorf("unexpected PATCH body: %+v", body)
	}
	if v, ok := props["note"]; !ok || v != nil {
		t.Errorf("nil property should be sent as null: %+v", props)
	}
}

func hasNames(body map[string]any, n int) bool {
	names, ok := body["names"].([]any)
	return ok && len(names) == n
}
