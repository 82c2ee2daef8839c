// Package history persists flow run outcomes to a SQLite database so
// utilization and timing trends survive across runs.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/synthflow/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Store manages the SQLite database of flow run records.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
// ":memory:" is supported for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one flow run to the history.
func (s *Store) Record(rec models.RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO flow_runs
			(id, started_at, duration_secs, top_module, part, task, status,
			 slack_ns, luts, registers, block_rams, dsps, error_count, tool_exit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC(), int64(rec.Duration.Seconds()),
		rec.TopModule, rec.Part, rec.Task, rec.Status,
		rec.SlackNs, rec.LUTs, rec.Registers, rec.BlockRAMs, rec.DSPs,
		rec.ErrorCount, rec.ToolExit,
	)
	if err != nil {
		return fmt.Errorf("record flow run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A zero or negative
// limit returns everything.
func (s *Store) Recent(limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, started_at, duration_secs, top_module, part, task, status,
		       slack_ns, luts, registers, block_rams, dsps, error_count, tool_exit
		FROM flow_runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flow runs: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var rec models.RunRecord
		var durationSecs int64
		if err := rows.Scan(
			&rec.ID, &rec.StartedAt, &durationSecs,
			&rec.TopModule, &rec.Part, &rec.Task, &rec.Status,
			&rec.SlackNs, &rec.LUTs, &rec.Registers, &rec.BlockRAMs, &rec.DSPs,
			&rec.ErrorCount, &rec.ToolExit,
		); err != nil {
			return nil, fmt.Errorf("scan flow run: %w", err)
		}
		rec.Duration = time.Duration(durationSecs) * time.Second
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ForModule returns every run of one top module, newest first.
func (s *Store) ForModule(topModule string) ([]models.RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, duration_secs, top_module, part, task, status,
		       slack_ns, luts, registers, block_rams, dsps, error_count, tool_exit
		FROM flow_runs WHERE top_module = ? ORDER BY started_at DESC, id`, topModule)
	if err != nil {
		return nil, fmt.Errorf("query flow runs for %s: %w", topModule, err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var rec models.RunRecord
		var durationSecs int64
		if err := rows.Scan(
			&rec.ID, &rec.StartedAt, &durationSecs,
			&rec.TopModule, &rec.Part, &rec.Task, &rec.Status,
			&rec.SlackNs, &rec.LUTs, &rec.Registers, &rec.BlockRAMs, &rec.DSPs,
			&rec.ErrorCount, &rec.ToolExit,
		); err != nil {
			return nil, fmt.Errorf("scan flow run: %w", err)
		}
		rec.Duration = time.Duration(durationSecs) * time.Second
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	result, err := s.db.Exec("DELETE FROM flow_runs")
	if err != nil {
		return 0, fmt.Errorf("clear flow runs: %w", err)
	}
	return result.RowsAffected()
}
