package mcp

import (
	"database/sql"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	moodlogpkg "github.com/unowned-ai/moodlog/pkg"
	"github.com/unowned-ai/moodlog/pkg/pipeline"
)

// ToolNames lists every tool registered by NewMoodlogMCPServer, in registration order.
var ToolNames = []string{
	"ping",
	"log_checkin",
	"list_checkins",
	"get_checkin",
	"search_checkins",
	"list_activities",
	"run_daily_summary",
	"get_daily_summary",
	"list_daily_summaries",
}

type MoodlogMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	pipeline  *pipeline.Pipeline
	logger    *zap.Logger
}

// NewMoodlogMCPServer builds an MCP server over an open, migrated database and
// registers all moodlog tools on it. The server does not own the pipeline, but
// Close checkpoints and closes conn.
func NewMoodlogMCPServer(conn *sql.DB, p *pipeline.Pipeline, logger *zap.Logger) *MoodlogMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil {
		p = pipeline.New(conn, nil, pipeline.WithLogger(logger))
	}

	s := server.NewMCPServer(
		"Moodlog MCP Server",
		moodlogpkg.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
	)

	RegisterPingTool(s)
	RegisterLogCheckInTool(s, conn, p)
	RegisterListCheckInsTool(s, conn)
	RegisterGetCheckInTool(s, conn)
	RegisterSearchCheckInsTool(s, conn)
	RegisterListActivitiesTool(s, conn)
	RegisterRunDailySummaryTool(s, p)
	RegisterGetDailySummaryTool(s, conn)
	RegisterListDailySummariesTool(s, conn)

	return &MoodlogMCPServer{
		mcpServer: s,
		db:        conn,
		pipeline:  p,
		logger:    logger,
	}
}

// Start runs the stdio event loop until stdin closes.
func (s *MoodlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// DB returns the underlying *sql.DB.
func (s *MoodlogMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *MoodlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *MoodlogMCPServer) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		s.logger.Warn("WAL checkpoint failed during close", zap.Error(err))
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
