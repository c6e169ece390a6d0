package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global metrics, registered on the default registry through promauto.

var (
	// HttpRequestsTotal counts HTTP requests by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propgraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	// GraphNodes tracks the number of member nodes.
	GraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "propgraph_nodes_total",
			Help: "Number of nodes in the graph",
		},
	)

	// GraphEdges tracks the number of adjacency index entries.
	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "propgraph_edges_total",
			Help: "Number of edges in the adjacency index",
		},
	)

	// GraphOperationsTotal counts engine operations (add_node, find_nodes, ...).
	GraphOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propgraph_operations_total",
			Help: "Total number of graph operations by kind",
		},
		[]string{"op"},
	)
)
