package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Expiry is a column checked on read; expired rows are reaped opportunistically
// on write.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates a PostgreSQL-backed session store.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// Init creates the sessions table if it does not exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			token_expiry  TIMESTAMPTZ,
			expires_at    TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("init sessions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Token, error) {
	var token Token
	err := s.pool.QueryRow(ctx,
		`SELECT access_token, refresh_token, COALESCE(token_expiry, 'epoch'::TIMESTAMPTZ)
		 FROM sessions WHERE id = $1 AND expires_at > now()`, id).
		Scan(&token.AccessToken, &token.RefreshToken, &token.Expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &token, nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, token *Token) error {
	// Reap expired rows opportunistically.
	_, _ = s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, access_token, refresh_token, token_expiry, expires_at)
		 VALUES ($1, $2, $3, $4, now() + $5::INTERVAL)
		 ON CONFLICT (id) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     refresh_token = EXCLUDED.refresh_token,
		     token_expiry = EXCLUDED.token_expiry,
		     expires_at = EXCLUDED.expires_at`,
		id, token.AccessToken, token.RefreshToken, token.Expiry,
		fmt.Sprintf("%d seconds", int(s.ttl.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("put session %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
