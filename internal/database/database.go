package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"booru-bridge/internal/logging"
	"booru-bridge/internal/metrics"
)

// Default timeout for individual index queries
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned by direct lookups when the requested row
// does not exist in the index.
var ErrNotFound = errors.New("not found in index")

// UnresolvedTagError reports a tag named in a query that does not
// exist in the index. It aborts the whole request; no partial results.
type UnresolvedTagError struct {
	Name string
}

func (e *UnresolvedTagError) Error() string {
	return fmt.Sprintf("tag not found: %q", e.Name)
}

// Store is a read-only handle to the awtfdb index.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens the index at dbPath in read-only mode. The file must exist;
// this service never creates or migrates the index.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Index database path: %s", dbPath)

	connStr := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_cache_size=10000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to index database: %w", err)
	}

	// Read-only workload, allow plenty of concurrent readers
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	logging.Info("Index database opened read-only")
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close attempts a best-effort PRAGMA optimize and closes the handle.
// A read-only connection may refuse the pragma; that is not an error.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "PRAGMA analysis_limit=1000"); err != nil {
		logging.Debug("analysis_limit pragma rejected: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		logging.Debug("optimize pragma rejected: %v", err)
	}

	return s.db.Close()
}

// observe records query metrics the way every Store method reports them.
func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, ErrNotFound) {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
