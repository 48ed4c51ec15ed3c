package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	pkgdb "github.com/unowned-ai/moodlog/pkg/db"
	"github.com/unowned-ai/moodlog/pkg/insights"
	"github.com/unowned-ai/moodlog/pkg/pipeline"
	"github.com/unowned-ai/moodlog/pkg/summaries"
	"github.com/unowned-ai/moodlog/pkg/utils"
)

func resolveDBPath() (string, error) {
	return utils.ResolveAndEnsureDBPath(cfg.Database.Path)
}

func dbOptions() pkgdb.Options {
	return pkgdb.Options{
		WAL:         cfg.Database.WAL,
		Sync:        cfg.Database.Sync,
		BusyTimeout: cfg.Database.BusyTimeout,
	}
}

// openDB opens the configured database and brings its schema up to date.
func openDB(ctx context.Context) (*sql.DB, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}

	conn, err := pkgdb.OpenDB(path, dbOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pkgdb.UpgradeDB(ctx, conn, pkgdb.TargetSchemaVersion, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}
	return conn, nil
}

// newPipeline builds the summary pipeline from configuration. Without an AI
// API key insights come from the fallback only. Metrics are registered on reg
// when it is non-nil.
func newPipeline(conn *sql.DB, reg prometheus.Registerer) (*pipeline.Pipeline, error) {
	aiCfg := cfg.AI.Insights()

	model, err := insights.NewModel(aiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI model client: %w", err)
	}

	genOpts := []insights.Option{insights.WithLogger(logger.Named("insights"))}
	if model != nil {
		genOpts = append(genOpts, insights.WithModel(model))
	}
	gen := insights.NewGenerator(aiCfg, genOpts...)
	if !gen.AIEnabled() {
		logger.Debug("no AI API key configured, insights will use the fallback")
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger.Named("pipeline"))}
	if reg != nil {
		opts = append(opts, pipeline.WithMetrics(pipeline.NewMetrics(reg)))
	}
	return pipeline.New(conn, gen, opts...), nil
}

func todayUTC() string {
	return time.Now().UTC().Format(summaries.DateLayout)
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format(time.RFC3339)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}
