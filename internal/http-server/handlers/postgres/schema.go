package postgres

import (
	"database/sql"
	"fmt"
)

// CreateSchema brings up the tables the engine's callers persist into. The
// draws table is the append-only ledger: draw indexes and numbers are unique
// per match at the storage level as well.
func CreateSchema(db *sql.DB) error {
	const op = "postgres.schema.CreateSchema"

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			role TEXT NOT NULL DEFAULT 'gold',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			num_min INTEGER NOT NULL,
			num_max INTEGER NOT NULL,
			numbers_per_card INTEGER NOT NULL,
			commit_hash TEXT NOT NULL,
			seed_material TEXT NOT NULL,
			auto_draw BOOLEAN NOT NULL DEFAULT FALSE,
			auto_draw_interval_ms BIGINT NOT NULL DEFAULT 10000,
			max_winners INTEGER,
			started_at TIMESTAMPTZ,
			ended_at TIMESTAMPTZ,
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id UUID PRIMARY KEY,
			match_id UUID NOT NULL REFERENCES matches(id),
			user_id UUID NOT NULL REFERENCES users(id),
			card_index INTEGER NOT NULL,
			numbers INTEGER[] NOT NULL,
			marked INTEGER[] NOT NULL DEFAULT '{}',
			is_winner BOOLEAN NOT NULL DEFAULT FALSE,
			bingo_draw_index INTEGER,
			bingo_claimed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (match_id, user_id, card_index)
		)`,
		`CREATE TABLE IF NOT EXISTS draws (
			id UUID PRIMARY KEY,
			match_id UUID NOT NULL REFERENCES matches(id),
			draw_index INTEGER NOT NULL,
			number INTEGER NOT NULL,
			signature TEXT NOT NULL,
			drawn_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (match_id, draw_index),
			UNIQUE (match_id, number)
		)`,
		`CREATE TABLE IF NOT EXISTS event_log (
			id BIGSERIAL PRIMARY KEY,
			match_id UUID,
			user_id UUID,
			type TEXT NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
