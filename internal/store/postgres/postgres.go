// Package postgres persists retrospectives in a hosted Postgres database
// through a pgx connection pool. Schema setup is a single idempotent DDL
// statement applied at startup.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"retro/internal/core"
)

type Repository struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS retrospectives (
    id          TEXT PRIMARY KEY,
    date        DATE        NOT NULL,
    month_index INTEGER     NOT NULL CHECK (month_index >= 1),
    day_count   INTEGER     NOT NULL CHECK (day_count >= 0),
    author      TEXT        NOT NULL,
    summary     TEXT        NOT NULL,
    keep        TEXT        NOT NULL,
    problem     TEXT        NOT NULL,
    try         TEXT        NOT NULL,
    memo        TEXT        NOT NULL DEFAULT '',
    feedback    TEXT        NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_retrospectives_date
    ON retrospectives (date DESC, created_at DESC);
`

// New connects to the database behind dsn and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

const recordColumns = `id, date, month_index, day_count, author, summary, keep, problem, try, memo, feedback, created_at`

func scanRecord(row pgx.Row) (core.Retrospective, error) {
	var (
		rec    core.Retrospective
		date   time.Time
		author string
	)
	err := row.Scan(&rec.ID, &date, &rec.MonthIndex, &rec.DayCount, &author,
		&rec.Summary, &rec.Keep, &rec.Problem, &rec.Try, &rec.Memo, &rec.Feedback, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	rec.Author = core.Author(author)
	rec.Date = core.DateOf(date)
	return rec, nil
}

func (r *Repository) List(ctx context.Context) ([]core.Retrospective, error) {
	rows, err := r.pool.Query(ctx, `
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
	row := r.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM retrospectives
		WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get retrospective: %w", err)
	}
	return &rec, nil
}

func (r *Repository) Insert(ctx context.Context, rec core.Retrospective) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO retrospectives (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.Date.Time, rec.MonthIndex, rec.DayCount, string(rec.Author),
		rec.Summary, rec.Keep, rec.Problem, rec.Try, rec.Memo, rec.Feedback, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert retrospective: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id string, patch core.Patch) (*core.Retrospective, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, val *string) {
		if val != nil {
			args = append(args, *val)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
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

	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE retrospectives SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return nil, fmt.Errorf("update retrospective: %w", err)
	}
	if tag.RowsAffected() == 0 {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM retrospectives WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete retrospective: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
