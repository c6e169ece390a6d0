// Package client provides a Go client for the propgraph HTTP API.
//
// It covers node and relationship creation, relationship lookup and updates,
// the adjacency and subgraph queries, recommendations and the table/DOT
// exports. Errors returned by the server (status >= 400) surface as *APIError.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Custom Errors ---

// APIError represents an error returned by the propgraph API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Structs ---

// Node mirrors the server's node representation. Property values are plain
// JSON scalars (string, float64 or bool after decoding).
type Node struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is one adjacency entry, endpoints given by name.
type Edge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Category   string         `json:"category"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Stats reports the graph size.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Query selects nodes for FindNodes. Empty fields are not applied. Key and
// Value must be set together.
type Query struct {
	Name     string
	Category string
	Key      string
	Value    string
}

type nodesResponse struct {
	Nodes []Node `json:"nodes"`
}

type edgesResponse struct {
	Edges []Edge `json:"edges"`
}

// --- Client ---

// Client talks to a propgraph server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the server at host:port.
func New(host string, port int) *Client {
	return NewWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewWithURL creates a client for an explicit base URL.
func NewWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken sets the bearer token sent with every request.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// do executes a request and returns the raw body.
// It handles JSON serialization, HTTP calls, and error management.
func (c *Client) do(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) jsonRequest(method, endpoint string, payload, out any) error {
	body, err := c.do(method, endpoint, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid JSON response for %s %s: %w", method, endpoint, err)
	}
	return nil
}

// --- Graph Methods ---

// Stats returns the node and edge counts.
func (c *Client) Stats() (*Stats, error) {
	var s Stats
	if err := c.jsonRequest(http.MethodGet, "/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddNode creates a node. The server assigns an ID when n.ID is empty and
// rejects names already in use with 409.
func (c *Client) AddNode(n Node) (*Node, error) {
	var created Node
	if err := c.jsonRequest(http.MethodPost, "/nodes", n, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetNode fetches a node by name.
func (c *Client) GetNode(name string) (*Node, error) {
	var n Node
	if err := c.jsonRequest(http.MethodGet, "/nodes/"+url.PathEscape(name), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// FindNodes returns the nodes matching every non-empty field of q.
func (c *Client) FindNodes(q Query) ([]Node, error) {
	params := url.Values{}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Key != "" {
		params.Set("key", q.Key)
		params.Set("value", q.Value)
	}
	var resp nodesResponse
	if err := c.jsonRequest(http.MethodGet, "/nodes?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// AddRelationship links two existing nodes by name.
func (c *Client) AddRelationship(e Edge) error {
	_, err := c.do(http.MethodPost, "/relationships", e)
	return err
}

// GetRelationship fetches the edge source -> target, endpoints given by name.
func (c *Client) GetRelationship(source, target string) (*Edge, error) {
	params := url.Values{}
	params.Set("source", source)
	params.Set("target", target)
	var e Edge
	if err := c.jsonRequest(http.MethodGet, "/relationships?"+params.Encode(), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// SetRelationshipProperties updates properties of an existing edge in place.
// A nil value removes the property.
func (c *Client) SetRelationshipProperties(source, target string, props map[string]any) (*Edge, error) {
	payload := map[string]any{"source": source, "target": target, "properties": props}
	var e Edge
	if err := c.jsonRequest(http.MethodPatch, "/relationships", payload, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Adjacent lists the successors of the named node. Empty categories match
// anything.
func (c *Client) Adjacent(name, nodeCategory, relCategory string) ([]Node, error) {
	params := url.Values{}
	if nodeCategory != "" {
		params.Set("node_category", nodeCategory)
	}
	if relCategory != "" {
		params.Set("rel_category", relCategory)
	}
	endpoint := "/nodes/" + url.PathEscape(name) + "/adjacent"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var resp nodesResponse
	if err := c.jsonRequest(http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// Recommendations returns what the named person's acquaintances consumed
// and the person has not.
func (c *Client) Recommendations(name string) ([]Node, error) {
	var resp nodesResponse
	if err := c.jsonRequest(http.MethodGet, "/nodes/"+url.PathEscape(name)+"/recommendations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// Subgraph returns the edges whose endpoints are both among names.
func (c *Client) Subgraph(names []string) ([]Edge, error) {
	var resp edgesResponse
	if err := c.jsonRequest(http.MethodPost, "/subgraph", map[string]any{"names": names}, &resp); err != nil {
		return nil, err
	}
	return resp.Edges, nil
}

// Edges returns every adjacency entry in insertion order.
func (c *Client) Edges() ([]Edge, error) {
	var resp edgesResponse
	if err := c.jsonRequest(http.MethodGet, "/edges", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Edges, nil
}

// --- Export Methods ---

// ExportTable returns the two-column CSV export. When both column names are
// empty the server defaults ("n", "m") apply.
func (c *Client) ExportTable(sourceColumn, targetColumn string) ([]byte, error) {
	endpoint := "/export/table"
	if sourceColumn != "" || targetColumn != "" {
		params := url.Values{}
		params.Set("source_column", sourceColumn)
		params.Set("target_column", targetColumn)
		endpoint += "?" + params.Encode()
	}
	return c.do(http.MethodGet, endpoint, nil)
}

// ExportDOT returns the Graphviz rendering of the graph.
func (c *Client) ExportDOT(name string) ([]byte, error) {
	endpoint := "/export/dot"
	if name != "" {
		endpoint += "?name=" + url.QueryEscape(name)
	}
	return c.do(http.MethodGet, endpoint, nil)
}
