// Package audit persists a log of gated gateway requests in SQLite.
package audit

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/lyfe05/matchgate/pkg/config"
	"github.com/lyfe05/matchgate/pkg/models"
)

// Logger writes and queries request entries in a dedicated SQLite database.
// A nil *Logger is valid and discards everything, so callers never need to
// branch on whether auditing is configured.
type Logger struct {
	db     *sql.DB
	cfg    config.AuditConfig
	logger *zap.Logger
	done   chan struct{}
	wg     sync.WaitGroup
}

// New opens the audit SQLite database and creates the schema.
func New(cfg config.AuditConfig, logger *zap.Logger) (*Logger, error) {
	db, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}

	l := &Logger{
		db:     db,
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.retentionLoop()

	return l, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS request_log (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		api_key_hash   TEXT NOT NULL,
		api_key_prefix TEXT NOT NULL,
		method         TEXT NOT NULL,
		path           TEXT NOT NULL,
		status_code    INTEGER,
		cache_age      INTEGER,
		latency_ms     INTEGER,
		created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_request_created ON request_log(created_at)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_request_prefix ON request_log(api_key_prefix)`)
	return err
}

// Log inserts a request entry.
func (l *Logger) Log(ctx context.Context, entry models.RequestEntry) error {
	if l == nil || l.db == nil {
		return nil
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO request_log
		(api_key_hash, api_key_prefix, method, path, status_code, cache_age, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.APIKeyHash, entry.APIKeyPrefix, entry.Method, entry.Path,
		entry.StatusCode, entry.CacheAge, entry.LatencyMs, entry.CreatedAt,
	)
	return err
}

// Query returns request entries matching the given options, newest first.
func (l *Logger) Query(ctx context.Context, opts models.RequestQueryOpts) ([]models.RequestEntry, error) {
	q := `SELECT api_key_hash, api_key_prefix, method, path, status_code, cache_age, latency_ms, created_at
		FROM request_log WHERE 1=1`
	var args []any

	if opts.Path != "" {
		q += " AND path = ?"
		args = append(args, opts.Path)
	}
	if opts.APIKeyPrefix != "" {
		q += " AND api_key_prefix = ?"
		args = append(args, opts.APIKeyPrefix)
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	q += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var entries []models.RequestEntry
	for rows.Next() {
		var e models.RequestEntry
		if err := rows.Scan(
			&e.APIKeyHash, &e.APIKeyPrefix, &e.Method, &e.Path,
			&e.StatusCode, &e.CacheAge, &e.LatencyMs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Cleanup deletes entries older than the configured retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -l.cfg.RetentionDays)
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM request_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("audit cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Close stops the retention goroutine and closes the database.
func (l *Logger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	close(l.done)
	l.wg.Wait()
	return l.db.Close()
}

func (l *Logger) retentionLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			if deleted, err := l.Cleanup(context.Background()); err != nil {
				l.logger.Warn("audit retention cleanup failed", zap.Error(err))
			} else if deleted > 0 {
				l.logger.Info("audit retention cleanup", zap.Int64("deleted", deleted))
			}
		}
	}
}

// HashAPIKey returns the SHA-256 hex hash and 8-char prefix for an API key.
func HashAPIKey(key string) (hash, prefix string) {
	h := sha256.Sum256([]byte(key))
	hash = hex.EncodeToString(h[:])
	if len(key) > 8 {
		prefix = key[:8]
	} else {
		prefix = key
	}
	return hash, prefix
}
