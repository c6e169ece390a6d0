package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/sanonone/propgraph/pkg/export"
	"github.com/sanonone/propgraph/pkg/graph"
	"github.com/sanonone/propgraph/pkg/recommend"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Stats())
}

// handleFindNodes maps ?name=&category=&key=&value= onto FindNodes. With no
// parameters the result is empty, like FindNodes itself.
func (s *Server) handleFindNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filters []graph.NodeFilter
	if name := q.Get("name"); name != "" {
		filters = append(filters, graph.WithName(name))
	}
	if category := q.Get("category"); category != "" {
		filters = append(filters, graph.WithCategory(category))
	}
	key, value, ok, err := propertyParam(q, "key", "value")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ok {
		filters = append(filters, graph.WithProperty(key, value))
	}

	found := s.Engine.FindNodes(filters...)
	s.writeLocked(w, http.StatusOK, func() any { return toNodesResponse(found) })
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Name == "" || req.Category == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "'name' and 'category' are required")
		return
	}
	var n *graph.Node
	if req.ID != "" {
		n = graph.NewNodeWithID(req.ID, req.Name, req.Category, req.Properties)
	} else {
		n = graph.NewNode(req.Name, req.Category, req.Properties)
	}
	// Names address nodes over HTTP, so they must stay unique.
	if !s.Engine.AddUniqueNode(n) {
		s.writeHTTPError(w, http.StatusConflict, "node name already in use: "+req.Name)
		return
	}
	s.writeLocked(w, http.StatusCreated, func() any { return toNodeResponse(n) })
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	n, ok := s.Engine.NodeByName(name)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "node not found: "+name)
		return
	}
	s.writeLocked(w, http.StatusOK, func() any { return toNodeResponse(n) })
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var req PropertiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	name := chi.URLParam(r, "name")
	n, ok := s.Engine.NodeByName(name)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "node not found: "+name)
		return
	}
	for key, value := range req.Properties {
		s.Engine.SetNodeProperty(n, key, value)
	}
	s.writeLocked(w, http.StatusOK, func() any { return toNodeResponse(n) })
}

// handleAdjacent maps ?node_category=&rel_category= plus the optional
// key/value (target property) and rel_key/rel_value (relationship property)
// pairs onto AdjacentWhere. Unknown nodes yield an empty list rather than
// 404, matching Adjacent's empty-instead-of-error policy.
func (s *Server) handleAdjacent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var preds []graph.EdgePredicate
	if c := q.Get("node_category"); c != "" {
		preds = append(preds, graph.TargetCategory(c))
	}
	if c := q.Get("rel_category"); c != "" {
		preds = append(preds, graph.RelationshipCategory(c))
	}
	key, value, ok, err := propertyParam(q, "key", "value")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ok {
		preds = append(preds, graph.TargetProperty(key, value))
	}
	key, value, ok, err = propertyParam(q, "rel_key", "rel_value")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ok {
		preds = append(preds, graph.RelationshipProperty(key, value))
	}

	n, ok := s.Engine.NodeByName(chi.URLParam(r, "name"))
	if !ok {
		s.writeHTTPResponse(w, http.StatusOK, toNodesResponse(nil))
		return
	}
	adj := s.Engine.AdjacentWhere(n, preds...)
	s.writeLocked(w, http.StatusOK, func() any { return toNodesResponse(adj) })
}

// propertyParam reads a key/value query pair. Both or neither must be
// present; an empty value is the empty string.
func propertyParam(q url.Values, keyParam, valueParam string) (string, graph.Value, bool, error) {
	key, hasValue := q.Get(keyParam), q.Has(valueParam)
	switch {
	case key != "" && hasValue:
		return key, graph.ParseValue(q.Get(valueParam)), true, nil
	case key != "" || hasValue:
		return "", graph.Absent, false, fmt.Errorf("'%s' and '%s' must be supplied together", keyParam, valueParam)
	}
	return "", graph.Absent, false, nil
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	n, ok := s.Engine.NodeByName(chi.URLParam(r, "name"))
	if !ok {
		s.writeHTTPResponse(w, http.StatusOK, toNodesResponse(nil))
		return
	}
	items := recommend.Items(s.Engine, n, s.rules)
	s.writeLocked(w, http.StatusOK, func() any { return toNodesResponse(items) })
}

func (s *Server) handleAddRelationship(w http.ResponseWriter, r *http.Request) {
	var req RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Category == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "'category' is required")
		return
	}
	src, ok := s.Engine.NodeByName(req.Source)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "source node not found: "+req.Source)
		return
	}
	dst, ok := s.Engine.NodeByName(req.Target)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "target node not found: "+req.Target)
		return
	}

	rel := graph.NewRelationship(req.Category, req.Properties)
	s.Engine.AddRelationship(src, dst, rel)
	edges := []graph.Edge{{Source: src, Target: dst, Relationship: rel}}
	s.writeLocked(w, http.StatusCreated, func() any { return toEdgesResponse(edges) })
}

// handleGetRelationship looks up the edge ?source=&target= by node names.
func (s *Server) handleGetRelationship(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	edge, ok := s.lookupEdge(w, q.Get("source"), q.Get("target"))
	if !ok {
		return
	}
	s.writeLocked(w, http.StatusOK, func() any { return toEdgeResponse(edge) })
}

// handleUpdateRelationship sets properties on an existing edge in place.
func (s *Server) handleUpdateRelationship(w http.ResponseWriter, r *http.Request) {
	var req PropertiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	edge, ok := s.lookupEdge(w, req.Source, req.Target)
	if !ok {
		return
	}
	for key, value := range req.Properties {
		s.Engine.SetRelationshipProperty(edge.Relationship, key, value)
	}
	s.writeLocked(w, http.StatusOK, func() any { return toEdgeResponse(edge) })
}

// lookupEdge resolves source -> target, writing a 404 when either node or
// the edge itself does not exist.
func (s *Server) lookupEdge(w http.ResponseWriter, source, target string) (graph.Edge, bool) {
	src, ok := s.Engine.NodeByName(source)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "source node not found: "+source)
		return graph.Edge{}, false
	}
	dst, ok := s.Engine.NodeByName(target)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "target node not found: "+target)
		return graph.Edge{}, false
	}
	rel, ok := s.Engine.Relationship(src, dst)
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, fmt.Sprintf("no relationship from %s to %s", source, target))
		return graph.Edge{}, false
	}
	return graph.Edge{Source: src, Target: dst, Relationship: rel}, true
}

// handleSubgraph ignores unknown names: they cannot contribute edges.
func (s *Server) handleSubgraph(w http.ResponseWriter, r *http.Request) {
	var req SubgraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	nodes := make([]*graph.Node, 0, len(req.Names))
	for _, name := range req.Names {
		if n, ok := s.Engine.NodeByName(name); ok {
			nodes = append(nodes, n)
		}
	}
	edges := slices.Collect(s.Engine.Subgraph(nodes).Edges())
	s.writeLocked(w, http.StatusOK, func() any { return toEdgesResponse(edges) })
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	edges := s.Engine.Edges()
	s.writeLocked(w, http.StatusOK, func() any { return toEdgesResponse(edges) })
}

func (s *Server) handleExportTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var columns []string
	if src, dst := q.Get("source_column"), q.Get("target_column"); src != "" || dst != "" {
		columns = []string{src, dst}
	}

	table, err := export.NewTable(slices.Values(s.Engine.Edges()), columns...)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleExportDOT(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "propgraph"
	}
	out, err := export.DOT(slices.Values(s.Engine.Edges()), name, nil)
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// --- Response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeLocked builds the payload under the engine's read lock, since PATCH
// handlers mutate node and relationship properties in place. build must not
// call back into the engine.
func (s *Server) writeLocked(w http.ResponseWriter, statusCode int, build func() any) {
	var payload any
	s.Engine.View(func(*graph.PropertyGraph) { payload = build() })
	s.writeHTTPResponse(w, statusCode, payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
