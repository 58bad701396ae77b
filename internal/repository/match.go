package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-bingohall/internal/config"
	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/model"
)

type MatchRepository struct {
	dbhandler postgres.Handler
}

func NewMatchRepository(dbhandler postgres.Handler) *MatchRepository {
	return &MatchRepository{dbhandler: dbhandler}
}

func (repo *MatchRepository) SaveMatch(match model.Match) error {
	const op = "repository.match.SaveMatch"

	const query = "INSERT INTO matches(id, name, status, num_min, num_max, numbers_per_card," +
		" commit_hash, seed_material, auto_draw, auto_draw_interval_ms, max_winners," +
		" created_by, created_at, updated_at)" +
		" VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)"

	sealed, err := json.Marshal(match.SeedMaterial)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()

	_, err = repo.dbhandler.PrepareAndExecute(query,
		match.ID,
		match.Name,
		match.Status,
		match.NumMin,
		match.NumMax,
		match.NumbersPerCard,
		match.CommitHash,
		string(sealed),
		match.AutoDraw,
		match.AutoDrawInterval.Milliseconds(),
		match.MaxWinners,
		match.CreatedBy,
		now,
		now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *MatchRepository) GetMatchByID(id uuid.UUID) (*model.Match, error) {
	const op = "repository.match.GetMatchByID"

	const query = "SELECT id, name, status, num_min, num_max, numbers_per_card, commit_hash," +
		" seed_material, auto_draw, auto_draw_interval_ms, max_winners, started_at, ended_at," +
		" created_by, created_at, updated_at" +
		" FROM matches WHERE id = $1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	match := &model.Match{}

	var (
		sealed     string
		intervalMs int64
	)

	err = row.Scan(
		&match.ID,
		&match.Name,
		&match.Status,
		&match.NumMin,
		&match.NumMax,
		&match.NumbersPerCard,
		&match.CommitHash,
		&sealed,
		&match.AutoDraw,
		&intervalMs,
		&match.MaxWinners,
		&match.StartedAt,
		&match.EndedAt,
		&match.CreatedBy,
		&match.CreatedAt,
		&match.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = json.Unmarshal([]byte(sealed), &match.SeedMaterial); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	match.AutoDrawInterval = time.Duration(intervalMs) * time.Millisecond

	return match, nil
}

func (repo *MatchRepository) ListMatches(status config.MatchStatus, limit, offset int) ([]model.Match, error) {
	const op = "repository.match.ListMatches"

	const query = "SELECT id, name, status, num_min, num_max, numbers_per_card, commit_hash," +
		" auto_draw, auto_draw_interval_ms, max_winners, started_at, ended_at, created_at" +
		" FROM matches" +
		" WHERE ($1 = '' OR status = $1)" +
		" ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	if limit <= 0 {
		limit = 50
	}

	rows, err := repo.dbhandler.PrepareAndQuery(query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var matches []model.Match

	for rows.Next() {
		var (
			match      model.Match
			intervalMs int64
		)

		err = rows.Scan(
			&match.ID,
			&match.Name,
			&match.Status,
			&match.NumMin,
			&match.NumMax,
			&match.NumbersPerCard,
			&match.CommitHash,
			&match.AutoDraw,
			&intervalMs,
			&match.MaxWinners,
			&match.StartedAt,
			&match.EndedAt,
			&match.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		match.AutoDrawInterval = time.Duration(intervalMs) * time.Millisecond

		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return matches, nil
}

func (repo *MatchRepository) UpdateMatchStatus(id uuid.UUID, status config.MatchStatus) error {
	const op = "repository.match.UpdateMatchStatus"

	const query = "UPDATE matches SET status = $1, updated_at = $2 WHERE id = $3"

	_, err := repo.dbhandler.PrepareAndExecute(query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *MatchRepository) MarkMatchStarted(id uuid.UUID, startedAt time.Time) error {
	const op = "repository.match.MarkMatchStarted"

	const query = "UPDATE matches SET status = $1, started_at = $2, updated_at = $3 WHERE id = $4"

	_, err := repo.dbhandler.PrepareAndExecute(query, config.Live, startedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *MatchRepository) MarkMatchFinished(id uuid.UUID, endedAt time.Time) error {
	const op = "repository.match.MarkMatchFinished"

	const query = "UPDATE matches SET status = $1, ended_at = $2, updated_at = $3 WHERE id = $4"

	_, err := repo.dbhandler.PrepareAndExecute(query, config.Finished, endedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
