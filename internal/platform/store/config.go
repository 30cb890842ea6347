package store

import (
	"time"

	"remindme/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG     PGConfig
	SQLite SQLiteConfig
	CH     CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the defaults in openers.go
	ConnectRetries int
	PingTimeout    time.Duration
}

// SQLiteConfig configures the embedded fallback database
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}

// FromConfig reads the backend settings under the SERVICE_PGSQL_, SERVICE_SQLITE_
// and SERVICE_CLICKHOUSE_ prefixes. Postgres wins when enabled, clickhouse is
// only opened when a URL is present
func FromConfig(cfg config.Conf, app string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	lite := cfg.Prefix("SERVICE_SQLITE_")
	ch := cfg.Prefix("SERVICE_CLICKHOUSE_")

	c := Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     pg.MayBool("ENABLED", false),
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		SQLite: SQLiteConfig{
			Path:        lite.MayString("PATH", "remindme.db"),
			BusyTimeout: lite.MayDuration("BUSY_TIMEOUT", 5*time.Second),
			SlowQueryMs: lite.MayInt("SLOW_MS", 200),
			LogSQL:      lite.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			URL:  ch.MayString("DBURL", ""),
			Role: ch.MayString("ROLE", app),
		},
	}
	c.CH.Enabled = c.CH.URL != ""
	return c
}
