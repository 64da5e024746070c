package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created inside the journal directory.
const FileName = "journal.db"

// storeFormat is fixed width so stored timestamps compare lexically.
const storeFormat = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when the database does not exist and creation is disabled.
var ErrNotFound = errors.New("journal database not found")

// Journal is a request journal backed by SQLite.
type Journal struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database when missing.
	CreateIfNotExists bool
	// EnableWAL switches the database to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns options that create the database with WAL enabled.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the journal in dir.
func Open(dir string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dir, FileName)

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		}
		return nil, fmt.Errorf("failed to check journal path: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.dbPath
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_requests_path ON requests(path);
	CREATE INDEX IF NOT EXISTS idx_requests_timestamp ON requests(timestamp);
	`
	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is one journaled request.
type Entry struct {
	ID        int64
	RequestID string
	Method    string
	Path      string
	// Status is the HTTP status, or 0 when the request never got a response.
	Status    int
	Latency   time.Duration
	Error     string
	Timestamp time.Time
}

// Failed reports whether the exchange was a transport error or non-2xx status.
func (e *Entry) Failed() bool {
	return e.Error != "" || e.Status < 200 || e.Status > 299
}

// Record inserts e and returns its row id. A zero Timestamp means now.
func (j *Journal) Record(ctx context.Context, e *Entry) (int64, error) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := j.db.ExecContext(ctx, `
	INSERT INTO requests (request_id, method, path, status, latency_ms, error, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Method, e.Path, e.Status, e.Latency.Milliseconds(), e.Error,
		ts.UTC().Format(storeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get journal entry id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := j.db.QueryContext(ctx, `
	SELECT id, request_id, method, path, status, latency_ms, error, timestamp
	FROM requests
	ORDER BY id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			latencyMS int64
			timestamp string
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.Path, &e.Status, &latencyMS, &e.Error, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Latency = time.Duration(latencyMS) * time.Millisecond
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PathStat aggregates journal entries for one endpoint path.
type PathStat struct {
	Path       string
	Requests   int
	Failures   int
	AvgLatency time.Duration
}

// Stats returns per-path aggregates ordered by path.
func (j *Journal) Stats(ctx context.Context) ([]PathStat, error) {
	rows, err := j.db.QueryContext(ctx, `
	SELECT path,
	       COUNT(*),
	       SUM(CASE WHEN error != '' OR status < 200 OR status > 299 THEN 1 ELSE 0 END),
	       AVG(latency_ms)
	FROM requests
	GROUP BY path
	ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal stats: %w", err)
	}
	defer rows.Close()

	var stats []PathStat
	for rows.Next() {
		var (
			s     PathStat
			avgMS float64
		)
		if err := rows.Scan(&s.Path, &s.Requests, &s.Failures, &avgMS); err != nil {
			return nil, fmt.Errorf("failed to scan journal stats: %w", err)
		}
		s.AvgLatency = time.Duration(avgMS * float64(time.Millisecond))
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Prune deletes entries older than age and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).UTC().Format(storeFormat)
	res, err := j.db.ExecContext(ctx, `DELETE FROM requests WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned entries: %w", err)
	}
	return n, nil
}

// timestampFormats contains the timestamp formats SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
