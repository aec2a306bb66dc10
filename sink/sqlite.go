package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

// SQLiteSink stores records in a SQLite database, one row per record.
type SQLiteSink struct {
	conn   *sql.DB
	dbPath string
}

// OpenSQLiteSink opens or creates the results database at dbPath. The
// parent directory is created through fsys; the driver itself always opens
// dbPath on the host, so fsys should be backed by the host filesystem.
func OpenSQLiteSink(fsys afero.Fs, dbPath string) (*SQLiteSink, error) {
	if err := fsys.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	// database/sql would otherwise hand out connections the pragmas never saw
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &SQLiteSink{conn: conn, dbPath: dbPath}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize results schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			strategy TEXT NOT NULL,
			trigger_name TEXT NOT NULL,
			path TEXT NOT NULL,
			found INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			infected_nodes INTEGER NOT NULL,
			infected_files INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
		CREATE INDEX IF NOT EXISTS idx_records_strategy ON records(strategy);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteSink) Emit(ctx context.Context, record Record) error {
	path, err := json.Marshal(record.Path)
	if err != nil {
		return fmt.Errorf("encode path: %w", err)
	}
	query := `
		INSERT INTO records (run_id, strategy, trigger_name, path, found, elapsed_ns, infected_nodes, infected_files, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.conn.ExecContext(ctx, query,
		record.RunID,
		record.Strategy,
		record.Trigger,
		string(path),
		record.Found,
		int64(record.Elapsed),
		record.InfectedNodes,
		record.InfectedFiles,
		record.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Records returns every stored record of runID in insertion order.
func (s *SQLiteSink) Records(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, strategy, trigger_name, path, found, elapsed_ns, infected_nodes, infected_files, recorded_at
		FROM records WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			path       string
			elapsed    int64
			recordedAt string
		)
		if err := rows.Scan(&r.RunID, &r.Strategy, &r.Trigger, &path, &r.Found, &elapsed,
			&r.InfectedNodes, &r.InfectedFiles, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &r.Path); err != nil {
			return nil, fmt.Errorf("decode path: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
