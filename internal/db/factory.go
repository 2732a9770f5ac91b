package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Pool bounds the connection pool. Zero fields keep the driver defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Driver maps a configured driver name to one of sqlite3, mysql or postgres.
// "postgresql" and "supabase" are accepted for postgres, "sqlite" for sqlite3.
func Driver(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite3", "sqlite":
		return "sqlite3", nil
	case "mysql":
		return "mysql", nil
	case "postgres", "postgresql", "supabase":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported DB driver %q: must be sqlite3, mysql, or postgres", name)
	}
}

// New opens the remote context store for driver and dsn and applies pool.
// It does not ping: an unreachable store is served around by the bundled
// data, not treated as a start-up failure.
func New(driver, dsn string, pool Pool) (*sqlx.DB, error) {
	name, err := Driver(driver)
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	switch name {
	case "sqlite3":
		// modernc/sqlite registers as "sqlite" (CGO-free).
		db, err = sqlx.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	case "mysql":
		db, err = sqlx.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	case "postgres":
		db, err = sqlx.Open("postgres", PostgresDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}

// PostgresDSN sets binary_parameters=yes on DSNs that point at the Supabase
// connection pooler, which runs PgBouncer in transaction mode and cannot
// keep a statement prepared across round trips. Other DSNs, and DSNs that
// already set binary_parameters, are returned unchanged.
func PostgresDSN(dsn string) string {
	if strings.Contains(dsn, "binary_parameters=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil || !isSupabasePooler(u.Hostname()) {
			return dsn
		}
		q := u.Query()
		q.Set("binary_parameters", "yes")
		u.RawQuery = q.Encode()
		return u.String()
	}
	for _, kv := range strings.Fields(dsn) {
		if host, ok := strings.CutPrefix(kv, "host="); ok && isSupabasePooler(host) {
			return dsn + " binary_parameters=yes"
		}
	}
	return dsn
}

func isSupabasePooler(host string) bool {
	return strings.HasSuffix(strings.ToLower(host), ".pooler.supabase.com")
}
