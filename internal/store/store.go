// Package store persists analysis run summaries to SQLite so successive
// runs over the same codebase can be compared and queried. It is an
// optional collaborator of the CLI; the analysis core never depends on it.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/arbor/internal/ast"
)

// Store is the SQLite data access layer for recorded runs.
type Store struct {
	db *sql.DB
}

// Run is one recorded generation run. Solution runs are parents of the
// project runs they contain.
type Run struct {
	ID          string
	Kind        string // "project" or "solution"
	Name        string
	Path        string
	Created     time.Time
	ParentRunID *string
}

// RunFile is one file's summary within a run. Status is "ok" for analyzed
// files and the failure kind otherwise.
type RunFile struct {
	RunID      string
	Path       string
	Language   string
	Status     string
	Error      string
	Classes    int
	Interfaces int
	Methods    int
	Enums      int
	Properties int
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id             TEXT PRIMARY KEY,
  kind           TEXT NOT NULL,
  name           TEXT NOT NULL,
  path           TEXT,
  created        TIMESTAMP,
  parent_run_id  TEXT REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS run_files (
  id             INTEGER PRIMARY KEY,
  run_id         TEXT NOT NULL REFERENCES runs(id),
  path           TEXT NOT NULL,
  language       TEXT,
  status         TEXT NOT NULL,
  error          TEXT,
  classes        INTEGER DEFAULT 0,
  interfaces     INTEGER DEFAULT 0,
  methods        INTEGER DEFAULT 0,
  enums          INTEGER DEFAULT 0,
  properties     INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_async_patterns (
  id                INTEGER PRIMARY KEY,
  run_id            TEXT NOT NULL REFERENCES runs(id),
  method            TEXT NOT NULL,
  return_type       TEXT,
  suspension_points INTEGER DEFAULT 0,
  detaches_context  BOOLEAN DEFAULT FALSE,
  awaits_concurrent BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS run_test_classes (
  id       INTEGER PRIMARY KEY,
  run_id   TEXT NOT NULL REFERENCES runs(id),
  class    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_dependencies (
  id       INTEGER PRIMARY KEY,
  run_id   TEXT NOT NULL REFERENCES runs(id),
  name     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
CREATE INDEX IF NOT EXISTS idx_run_async_run ON run_async_patterns(run_id);
`

// SaveProject records a ProjectAnalysis as one run with its file summaries,
// async patterns, test classes, and dependencies.
func (s *Store) SaveProject(p *ast.ProjectAnalysis) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertProject(tx, p, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSolution records a SolutionAnalysis as a parent run with one child
// run per project.
func (s *Store) SaveSolution(sol *ast.SolutionAnalysis) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, kind, name, path, created) VALUES (?, 'solution', ?, ?, ?)`,
		sol.RunID, sol.Name, sol.Path, sol.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solution run: %w", err)
	}
	for _, f := range sol.Failures {
		if err := insertFailure(tx, sol.RunID, f); err != nil {
			return err
		}
	}
	for _, p := range sol.Projects {
		if err := insertProject(tx, p, &sol.RunID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertProject(tx *sql.Tx, p *ast.ProjectAnalysis, parent *string) error {
	_, err := tx.Exec(
		`INSERT INTO runs (id, kind, name, path, created, parent_run_id) VALUES (?, 'project', ?, ?, ?, ?)`,
		p.RunID, p.Name, p.Path, p.GeneratedAt, parent,
	)
	if err != nil {
		return fmt.Errorf("insert project run: %w", err)
	}

	for _, fa := range p.Files {
		_, err := tx.Exec(
			`INSERT INTO run_files (run_id, path, language, status, classes, interfaces, methods, enums, properties)
			 VALUES (?, ?, ?, 'ok', ?, ?, ?, ?, ?)`,
			p.RunID, fa.Path, fa.Language,
			len(fa.Classes), len(fa.Interfaces), len(fa.Methods), len(fa.Enums), len(fa.Properties),
		)
		if err != nil {
			return fmt.Errorf("insert run file %s: %w", fa.Path, err)
		}
	}
	for _, f := range p.Failures {
		if err := insertFailure(tx, p.RunID, f); err != nil {
			return err
		}
	}
	for _, a := range p.AsyncPatterns {
		_, err := tx.Exec(
			`INSERT INTO run_async_patterns (run_id, method, return_type, suspension_points, detaches_context, awaits_concurrent)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.RunID, a.Method, a.ReturnType, a.SuspensionPoints, a.DetachesContext, a.AwaitsConcurrent,
		)
		if err != nil {
			return fmt.Errorf("insert async pattern %s: %w", a.Method, err)
		}
	}
	for _, class := range p.TestClasses {
		if _, err := tx.Exec(
			`INSERT INTO run_test_classes (run_id, class) VALUES (?, ?)`, p.RunID, class,
		); err != nil {
			return fmt.Errorf("insert test class %s: %w", class, err)
		}
	}
	for _, dep := range p.Dependencies {
		if _, err := tx.Exec(
			`INSERT INTO run_dependencies (run_id, name) VALUES (?, ?)`, p.RunID, dep,
		); err != nil {
			return fmt.Errorf("insert dependency %s: %w", dep, err)
		}
	}
	return nil
}

func insertFailure(tx *sql.Tx, runID string, f ast.Failure) error {
	_, err := tx.Exec(
		`INSERT INTO run_files (run_id, path, status, error) VALUES (?, ?, ?, ?)`,
		runID, f.Path, f.Kind, f.Message,
	)
	if err != nil {
		return fmt.Errorf("insert failure %s: %w", f.Path, err)
	}
	return nil
}

// Runs returns all recorded runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, name, path, created, parent_run_id FROM runs ORDER BY created DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Name, &r.Path, &r.Created, &r.ParentRunID); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles returns the file summaries for one run, in insertion order.
func (s *Store) RunFiles(runID string) ([]RunFile, error) {
	rows, err := s.db.Query(
		`SELECT run_id, path, COALESCE(language, ''), status, COALESCE(error, ''),
		        classes, interfaces, methods, enums, properties
		 FROM run_files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.RunID, &f.Path, &f.Language, &f.Status, &f.Error,
			&f.Classes, &f.Interfaces, &f.Methods, &f.Enums, &f.Properties); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// AsyncPatterns returns the async records for one run, in insertion order.
func (s *Store) AsyncPatterns(runID string) ([]ast.AsyncPatternInfo, error) {
	rows, err := s.db.Query(
		`SELECT method, COALESCE(return_type, ''), suspension_points, detaches_context, awaits_concurrent
		 FROM run_async_patterns WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []ast.AsyncPatternInfo
	for rows.Next() {
		var a ast.AsyncPatternInfo
		if err := rows.Scan(&a.Method, &a.ReturnType, &a.SuspensionPoints, &a.DetachesContext, &a.AwaitsConcurrent); err != nil {
			return nil, err
		}
		patterns = append(patterns, a)
	}
	return patterns, rows.Err()
}
