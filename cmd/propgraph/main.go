package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	pgmcp "github.com/sanonone/propgraph/internal/mcp"
	"github.com/sanonone/propgraph/internal/server"
	"github.com/sanonone/propgraph/pkg/config"
	"github.com/sanonone/propgraph/pkg/dataset"
	"github.com/sanonone/propgraph/pkg/engine"
	"github.com/sanonone/propgraph/pkg/export"
	"github.com/sanonone/propgraph/pkg/graph"
	"github.com/sanonone/propgraph/pkg/recommend"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	datasetPath := flag.String("dataset", "", "Path to a YAML graph dataset (overrides dataset_path; default: bundled movies)")
	httpAddr := flag.String("http-addr", "", "Address for the REST API (overrides http_addr, e.g. :9093)")
	authToken := flag.String("auth-token", "", "Bearer token required by the REST API (overrides auth_token)")
	mcpMode := flag.Bool("mcp", false, "Serve the graph as MCP tools over stdio instead of HTTP")
	printMode := flag.Bool("print", false, "Print the graph, recommendations and edge table, then exit")
	common := flag.String("common", "John,Laney", "With -print: two comma-separated person names to compare")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *datasetPath != "" {
		cfg.DatasetPath = *datasetPath
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *authToken != "" {
		cfg.AuthToken = *authToken
	}

	// stdout carries the MCP protocol, so logs always go to stderr.
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	g, err := loadGraph(cfg.DatasetPath)
	if err != nil {
		slog.Error("Failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	eng := engine.New(g)
	stats := eng.Stats()
	slog.Info("Graph loaded", "nodes", stats.Nodes, "edges", stats.Edges)

	switch {
	case *printMode:
		if err := printReport(os.Stdout, eng, cfg.Recommend, *common); err != nil {
			slog.Error("Report failed", "error", err)
			os.Exit(1)
		}
	case *mcpMode:
		runMCP(eng, cfg.Recommend)
	default:
		runHTTP(eng, cfg)
	}
}

func loadGraph(path string) (*graph.PropertyGraph, error) {
	if path == "" {
		return dataset.Movies()
	}
	return dataset.LoadFile(path)
}

func runHTTP(eng *engine.Engine, cfg config.Config) {
	if cfg.HTTPAddr == "" {
		slog.Error("No HTTP address configured (http_addr or -http-addr)")
		os.Exit(1)
	}

	srv := server.NewServer(eng, server.Options{
		Addr:         cfg.HTTPAddr,
		AuthToken:    cfg.AuthToken,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Metrics:      cfg.MetricsEnabled,
		Rules:        cfg.Recommend,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownChan
	srv.Shutdown()
}

func runMCP(eng *engine.Engine, rules recommend.Rules) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := pgmcp.NewMCPServer(eng, rules)
	slog.Info("MCP server running on stdio")
	if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}

// printReport writes the edge list, the movies two people share, each
// person's recommendations and the two-column edge table.
func printReport(w io.Writer, eng *engine.Engine, rules recommend.Rules, common string) error {
	eng.View(func(g *graph.PropertyGraph) {
		fmt.Fprint(w, g)
	})

	if a, b, ok := strings.Cut(common, ","); ok {
		na, okA := eng.NodeByName(strings.TrimSpace(a))
		nb, okB := eng.NodeByName(strings.TrimSpace(b))
		if okA && okB {
			fmt.Fprintf(w, "\n%s and %s both consumed: %v\n", na, nb, recommend.Common(eng, na, nb, rules))
		}
	}

	fmt.Fprintln(w)
	for _, p := range eng.FindNodes(graph.WithCategory(rules.PersonCategory)) {
		fmt.Fprintf(w, "Recommended for %s: %v\n", p, recommend.Items(eng, p, rules))
	}

	table, err := export.NewTable(slices.Values(eng.Edges()))
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	return table.WriteCSV(w)
}
