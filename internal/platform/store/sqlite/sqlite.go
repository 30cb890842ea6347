// Package sqlite opens an embedded SQLite database (mattn/go-sqlite3) for the store facade
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"remindme/internal/platform/store/trace"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// MemoryPath opens a private in-memory database instead of a file
const MemoryPath = ":memory:"

// Config configures the SQLite connection
type Config struct {
	// Path to the database file, or MemoryPath
	Path        string
	BusyTimeout time.Duration
	SlowMs      int
}

// DB is a single-connection SQLite handle with optional tracing
type DB struct {
	SQL    *sql.DB
	Tracer trace.QueryTracer
	SlowMs int
}

var sqlOpen = sql.Open

// DSN renders the go-sqlite3 connection string for cfg.
// Each in-memory database gets a unique shared-cache name so tests stay isolated
func DSN(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(busy.Milliseconds()))
	q.Set("_foreign_keys", "on")
	q.Set("_txlock", "immediate")

	path := strings.TrimSpace(cfg.Path)
	if path == "" || path == MemoryPath {
		q.Set("mode", "memory")
		q.Set("cache", "shared")
		return "file:remindme-" + uuid.NewString() + "?" + q.Encode()
	}
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the database and verifies the connection.
// SQLite allows one writer at a time, so the pool is pinned to a single connection
func Open(ctx context.Context, cfg Config, tracer trace.QueryTracer) (*DB, error) {
	db, err := sqlOpen("sqlite3", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &DB{SQL: db, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Emitter returns the trace emitter for statements run on this handle
func (d *DB) Emitter() trace.Emitter {
	if d == nil {
		return trace.Emitter{}
	}
	return trace.Emitter{Backend: "sqlite", Tracer: d.Tracer, SlowMs: d.SlowMs}
}

// Close closes the handle
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}
