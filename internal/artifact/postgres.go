package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGStore keeps stage artifacts in a Postgres table, one row per stage
// scoped by run name. The upsert replaces the previous snapshot in a single
// statement, which keeps the wholesale-overwrite contract transactional.
type PGStore struct {
	db  *sql.DB
	run string

	schemaOnce sync.Once
	schemaErr  error
}

func NewPGStore(dsn, run string) (*PGStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	if run == "" {
		run = "default"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PGStore{db: db, run: run}, nil
}

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS reviewer_artifacts (
    run        TEXT NOT NULL,
    stage      TEXT NOT NULL,
    data       BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (run, stage)
)`)
	})
	return s.schemaErr
}

func (s *PGStore) Save(ctx context.Context, stage Stage, data []byte) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reviewer_artifacts (run, stage, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (run, stage) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		s.run, string(stage), data)
	return err
}

func (s *PGStore) Load(ctx context.Context, stage Stage) ([]byte, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, false, fmt.Errorf("ensure schema: %w", err)
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM reviewer_artifacts WHERE run = $1 AND stage = $2`,
		s.run, string(stage)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
