// Package sqlite persists retrospectives in a local SQLite database via
// modernc.org/sqlite, with schema managed by embedded golang-migrate
// migrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"retro/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (or creates) the database file at dbPath, configures
// pragmas and applies migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return newRepository(db)
}

// NewMemory opens an in-memory database for tests.
func NewMemory() (*Repository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory database: %w", err)
	}
	// Each pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	return newRepository(db)
}

func newRepository(db *sql.DB) (*Repository, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const recordColumns = `id, date, month_index, day_count, author, summary, keep, problem, try, memo, feedback, created_at`

func scanRecord(row interface{ Scan(...any) error }) (core.Retrospective, error) {
	var (
		rec       core.Retrospective
		date      string
		author    string
		createdAt string
	)
	err := row.Scan(&rec.ID, &date, &rec.MonthIndex, &rec.DayCount, &author,
		&rec.Summary, &rec.Keep, &rec.Problem, &rec.Try, &rec.Memo, &rec.Feedback, &createdAt)
	if err != nil {
		return rec, err
	}
	rec.Author = core.Author(author)
	if rec.Date, err = core.ParseDate(date); err != nil {
		return rec, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return rec, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return rec, nil
}

func (r *Repository) List(ctx context.Context) ([]core.Retrospective, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM retrospectives
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list retrospectives: %w", err)
	}
	defer rows.Close()

	var out []core.Retrospective
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan retrospective: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retrospectives: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*core.Retrospective, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM retrospectives
		WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get retrospective: %w", err)
	}
	return &rec, nil
}

func (r *Repository) Insert(ctx context.Context, rec core.Retrospective) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO retrospectives (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date.String(), rec.MonthIndex, rec.DayCount, string(rec.Author),
		rec.Summary, rec.Keep, rec.Problem, rec.Try, rec.Memo, rec.Feedback,
		rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert retrospective: %w", err)
	}
	return nil
}

// Update merges only the patched fields. Derived columns (date,
// month_index, day_count, created_at) are deliberately absent from the SET
// clause.
func (r *Repository) Update(ctx context.Context, id string, patch core.Patch) (*core.Retrospective, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, val *string) {
		if val != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *val)
		}
	}
	add("summary", patch.Summary)
	add("keep", patch.Keep)
	add("problem", patch.Problem)
	add("try", patch.Try)
	add("memo", patch.Memo)
	add("feedback", patch.Feedback)
	if len(sets) == 0 {
		return r.mustGet(ctx, id)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE retrospectives SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update retrospective: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update retrospective rows affected: %w", err)
	}
	if affected == 0 {
		return nil, core.ErrNotFound
	}
	return r.mustGet(ctx, id)
}

func (r *Repository) mustGet(ctx context.Context, id string) (*core.Retrospective, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, core.ErrNotFound
	}
	return rec, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM retrospectives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete retrospective: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete retrospective rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}
