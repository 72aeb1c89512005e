package store

import "b4b/internal/platform/config"

// Config is the postgres connection and tracing setup
type Config struct {
	AppName     string
	URL         string
	MaxConns    int32
	SlowQueryMs int
	LogSQL      bool

	// Migrate applies the embedded goose migrations once postgres answers
	Migrate bool
}

// FromConfig reads SERVICE_PGSQL_*, DBURL is required
func FromConfig(cfg config.Conf, app string) Config {
	db := cfg.Prefix("SERVICE_PGSQL_")
	return Config{
		AppName:     app,
		URL:         db.MustString("DBURL"),
		MaxConns:    int32(db.MayInt("MAX_CONNS", 8)),
		SlowQueryMs: db.MayInt("SLOW_MS", 500),
		LogSQL:      db.MayBool("LOG_SQL", false),
		Migrate:     db.MayBool("MIGRATE", true),
	}
}
