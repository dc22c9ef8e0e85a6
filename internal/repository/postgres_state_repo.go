package repository

import (
	"context"
	"errors"

	"doge_heroes/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStateRepository keeps one JSONB row per player.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS game_states (
//	    state_key  TEXT PRIMARY KEY,
//	    state      JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStateRepository struct {
	db *pgxpool.Pool
}

func NewPostgresStateRepository(db *pgxpool.Pool) *PostgresStateRepository {
	return &PostgresStateRepository{db: db}
}

func (r *PostgresStateRepository) Load(ctx context.Context, key string) (*domain.GameState, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM game_states WHERE state_key = $1`,
		key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeState(raw)
}

func (r *PostgresStateRepository) Save(ctx context.Context, key string, state *domain.GameState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO game_states (state_key, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (state_key)
		DO UPDATE SET state = EXCLUDED.state, updated_at = now()
	`, key, raw)
	return err
}
