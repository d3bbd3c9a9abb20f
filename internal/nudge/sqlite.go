package nudge

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS nudges (
	email      TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	count      INTEGER NOT NULL DEFAULT 0,
	last_nudge DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS nudge_log (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	email    TEXT NOT NULL REFERENCES nudges(email),
	level    INTEGER NOT NULL,
	sent_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nudge_log_email ON nudge_log(email);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, email string) (*History, error) {
	var h History
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, count, last_nudge FROM nudges WHERE email = ?`, email,
	).Scan(&h.Email, &h.Name, &h.Count, &h.LastNudge)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get history")
	}
	return &h, nil
}

func (s *SQLiteStore) Record(ctx context.Context, email, name string, level int, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin record")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO nudges (email, name, count, last_nudge) VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET name = excluded.name, count = excluded.count, last_nudge = excluded.last_nudge`,
		email, name, level, at.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: upsert nudge")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO nudge_log (email, level, sent_at) VALUES (?, ?, ?)`,
		email, level, at.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert nudge log")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit record")
}

func (s *SQLiteStore) List(ctx context.Context) ([]History, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email, name, count, last_nudge FROM nudges ORDER BY email`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list histories")
	}
	defer rows.Close()

	var out []History
	for rows.Next() {
		var h History
		if err := rows.Scan(&h.Email, &h.Name, &h.Count, &h.LastNudge); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history")
		}
		out = append(out, h)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate histories")
}
