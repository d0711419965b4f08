package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Analysis is one stored risk report with its source metadata. Result
// is populated by GetAnalysis and left nil in listings.
type Analysis struct {
	ID          int64
	Source      string
	Kind        string
	OverallRisk float64
	CreatedAt   time.Time
	Result      *model.DocumentResult
}

// ClauseHit is one stored clause matched by a search, joined with the
// analysis it came from.
type ClauseHit struct {
	AnalysisID int64
	Source     string
	Category   string
	Risk       string
	Score      int
	Text       string
	Location   string
}

// Store persists analysis history in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file and its
// parent directory if needed, with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL keeps saves from blocking concurrent history reads.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS analyses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	kind TEXT NOT NULL,
	overall_risk REAL NOT NULL,
	result_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clauses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id INTEGER NOT NULL,
	category TEXT NOT NULL,
	risk TEXT NOT NULL,
	score INTEGER NOT NULL,
	text TEXT NOT NULL,
	location TEXT NOT NULL,
	FOREIGN KEY(analysis_id) REFERENCES analyses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_clauses_analysis ON clauses(analysis_id);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveAnalysis stores a completed report plus its selected clauses and
// returns the new history ID.
func (s *Store) SaveAnalysis(ctx context.Context, source, kind string, result *model.DocumentResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const insertAnalysis = `
INSERT INTO analyses (source, kind, overall_risk, result_json, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id;
`

	var id int64
	err = tx.QueryRowContext(
		ctx,
		insertAnalysis,
		source,
		kind,
		result.OverallRiskScore,
		string(resultJSON),
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO clauses (analysis_id, category, risk, score, text, location)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, cat := range result.Categories {
		for _, clause := range cat.Bullets {
			_, err := stmt.ExecContext(ctx, id, cat.Category, string(clause.Risk),
				clause.Score, clause.Text, clause.Provenance.Location)
			if err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

// GetAnalysis loads one stored report including its full result.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (*Analysis, error) {
	const query = `
SELECT id, source, kind, overall_risk, result_json, created_at
FROM analyses WHERE id = ?`

	var (
		a          Analysis
		resultJSON string
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Source, &a.Kind, &a.OverallRisk, &resultJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var result model.DocumentResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("unmarshal stored result: %w", err)
	}
	a.Result = &result

	return &a, nil
}

// ListAnalyses returns stored reports newest first, without their full
// results. A non-positive limit returns everything.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	query := `
SELECT id, source, kind, overall_risk, created_at
FROM analyses ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var (
			a         Analysis
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Source, &a.Kind, &a.OverallRisk, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// DeleteAnalysis removes a report and its clauses.
func (s *Store) DeleteAnalysis(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("analysis %d not found", id)
	}

	return nil
}

// SearchClauses finds stored clauses containing the term, highest risk
// scores first. Matching is case-insensitive.
func (s *Store) SearchClauses(ctx context.Context, term string, limit int) ([]ClauseHit, error) {
	query := `
SELECT c.analysis_id, a.source, c.category, c.risk, c.score, c.text, c.location
FROM clauses c
JOIN analyses a ON a.id = c.analysis_id
WHERE c.text LIKE ?
ORDER BY c.score DESC, c.id ASC`
	args := []any{"%" + term + "%"}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ClauseHit
	for rows.Next() {
		var h ClauseHit
		if err := rows.Scan(&h.AnalysisID, &h.Source, &h.Category, &h.Risk,
			&h.Score, &h.Text, &h.Location); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}

	return hits, rows.Err()
}
