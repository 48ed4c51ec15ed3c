package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// DefaultBusyTimeout is how long a connection waits on a locked database
// before giving up. Concurrent summary runs for the same day rely on it.
const DefaultBusyTimeout = 5 * time.Second

// Options controls how OpenDB builds the SQLite DSN.
type Options struct {
	// WAL sets journal_mode=WAL.
	WAL bool
	// Sync is the synchronous pragma (OFF, NORMAL, FULL, EXTRA). Empty keeps the SQLite default.
	Sync string
	// BusyTimeout is passed as _busy_timeout. Zero means DefaultBusyTimeout.
	BusyTimeout time.Duration
}

// OpenDBConnection establishes a connection to a SQLite database.
// It is shorthand for OpenDB with the default busy timeout.
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	return OpenDB(baseDSN, Options{WAL: enableWAL, Sync: syncPragma})
}

// OpenDB opens and pings the database at baseDSN with foreign keys enforced.
// In-memory databases are pinned to a single connection, because every new
// connection to ":memory:" would otherwise see its own empty database.
func OpenDB(baseDSN string, opts Options) (*sql.DB, error) {
	dsn, err := buildDSN(baseDSN, opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	if isMemoryDSN(baseDSN) {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	return db, nil
}

func buildDSN(baseDSN string, opts Options) (string, error) {
	params := url.Values{}

	if opts.WAL {
		params.Add("_journal_mode", "WAL")
	}

	if opts.Sync != "" {
		mode := strings.ToUpper(opts.Sync)
		if !validSyncModes[mode] {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", opts.Sync)
		}
		params.Add("_synchronous", mode)
	}

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = DefaultBusyTimeout
	}
	params.Add("_busy_timeout", strconv.FormatInt(busy.Milliseconds(), 10))
	// Set per connection so every pooled connection enforces ON DELETE CASCADE.
	params.Add("_foreign_keys", "1")

	if strings.Contains(baseDSN, "?") {
		return baseDSN + "&" + params.Encode(), nil
	}
	return baseDSN + "?" + params.Encode(), nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, ":memory:?") || strings.Contains(dsn, "mode=memory")
}
