// Package sqlite provides a ports.ReportStore backed by an SQLite file,
// keeping a queryable history of planning runs.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/wayfinder/pkg/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.ReportStore using SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite serialises writers; a single connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or replaces the report.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	created := report.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (report_id, domain, problem, strategy, outcome, created_at, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_id) DO UPDATE SET
			domain = excluded.domain,
			problem = excluded.problem,
			strategy = excluded.strategy,
			outcome = excluded.outcome,
			created_at = excluded.created_at,
			body = excluded.body`,
		report.ID, report.Domain, report.Problem, report.Strategy, string(report.Outcome),
		created.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// Load retrieves a report by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE report_id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// Delete removes a report.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}

// List returns report IDs, most recent first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.query(ctx, `SELECT report_id FROM reports ORDER BY created_at DESC, report_id`)
}

// ListByOutcome returns the IDs of reports with the given outcome, most recent first.
func (s *Store) ListByOutcome(ctx context.Context, outcome domain.Outcome) ([]string, error) {
	return s.query(ctx, `SELECT report_id FROM reports WHERE outcome = ? ORDER BY created_at DESC, report_id`, string(outcome))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
