package nudge

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PgxIface is the subset of pgxpool.Pool the store uses; pgxmock
// implements it for tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool PgxIface
}

// NewPostgres connects to the given database URL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (or mock).
func NewPostgresFromPool(pool PgxIface) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS nudges (
	email      TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	count      INTEGER NOT NULL DEFAULT 0,
	last_nudge TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS nudge_log (
	id       BIGSERIAL PRIMARY KEY,
	email    TEXT NOT NULL REFERENCES nudges(email),
	level    INTEGER NOT NULL,
	sent_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nudge_log_email ON nudge_log(email);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, email string) (*History, error) {
	var h History
	err := s.pool.QueryRow(ctx,
		`SELECT email, name, count, last_nudge FROM nudges WHERE email = $1`, email,
	).Scan(&h.Email, &h.Name, &h.Count, &h.LastNudge)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get history")
	}
	return &h, nil
}

func (s *PostgresStore) Record(ctx context.Context, email, name string, level int, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO nudges (email, name, count, last_nudge) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, count = EXCLUDED.count, last_nudge = EXCLUDED.last_nudge`,
		email, name, level, at.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: upsert nudge")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO nudge_log (email, level, sent_at) VALUES ($1, $2, $3)`,
		email, level, at.UTC(),
	)
	return eris.Wrap(err, "postgres: insert nudge log")
}

func (s *PostgresStore) List(ctx context.Context) ([]History, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT email, name, count, last_nudge FROM nudges ORDER BY email`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list histories")
	}
	defer rows.Close()

	var out []History
	for rows.Next() {
		var h History
		if err := rows.Scan(&h.Email, &h.Name, &h.Count, &h.LastNudge); err != nil {
			return nil, eris.Wrap(err, "postgres: scan history")
		}
		out = append(out, h)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate histories")
}
