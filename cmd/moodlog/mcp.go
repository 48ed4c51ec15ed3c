package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/moodlog/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Moodlog MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes check-ins, activities
and daily summaries as MCP tools via STDIO.

With --metrics-addr, Prometheus metrics for summary runs are served on
http://<addr>/metrics while the server is up.

Example:
  moodlog mcp
  moodlog mcp --db moodlog.db --metrics-addr 127.0.0.1:9464`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}

		var reg prometheus.Registerer
		if metricsAddr != "" {
			reg = prometheus.DefaultRegisterer
		}
		p, err := newPipeline(dbConn, reg)
		if err != nil {
			closeDB(dbConn)
			return err
		}

		srv := mcp.NewMoodlogMCPServer(dbConn, p, logger.Named("mcp"))
		defer srv.Close()

		if metricsAddr != "" {
			metricsSrv := &http.Server{
				Addr:              metricsAddr,
				Handler:           promhttp.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			defer metricsSrv.Close()
		}

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		logger.Info("moodlog MCP server started",
			zap.String("db", cfg.Database.Path),
			zap.Bool("wal", cfg.Database.WAL),
			zap.String("sync", cfg.Database.Sync),
			zap.String("metrics_addr", metricsAddr))
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", strings.Join(mcp.ToolNames, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}

func initMCPCmd() {
	mcpCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
}
