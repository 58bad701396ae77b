package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/model"
)

type DrawRepository struct {
	dbhandler postgres.Handler
}

func NewDrawRepository(dbhandler postgres.Handler) *DrawRepository {
	return &DrawRepository{dbhandler: dbhandler}
}

func (repo *DrawRepository) SaveDraw(draw model.Draw) error {
	const op = "repository.draw.SaveDraw"

	const query = "INSERT INTO draws(id, match_id, draw_index, number, signature, drawn_by, created_at)" +
		" VALUES($1, $2, $3, $4, $5, $6, $7)"

	_, err := repo.dbhandler.PrepareAndExecute(query,
		draw.ID,
		draw.MatchID,
		draw.DrawIndex,
		draw.Number,
		draw.Signature,
		draw.DrawnBy,
		draw.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *DrawRepository) GetLastDraw(matchID uuid.UUID) (*model.Draw, error) {
	const op = "repository.draw.GetLastDraw"

	const query = "SELECT id, match_id, draw_index, number, signature, drawn_by, created_at" +
		" FROM draws WHERE match_id = $1 ORDER BY draw_index DESC LIMIT 1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	draw := &model.Draw{}

	err = row.Scan(
		&draw.ID,
		&draw.MatchID,
		&draw.DrawIndex,
		&draw.Number,
		&draw.Signature,
		&draw.DrawnBy,
		&draw.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draw, nil
}

func (repo *DrawRepository) ListDraws(matchID uuid.UUID) ([]model.Draw, error) {
	const op = "repository.draw.ListDraws"

	const query = "SELECT id, match_id, draw_index, number, signature, drawn_by, created_at" +
		" FROM draws WHERE match_id = $1 ORDER BY draw_index ASC"

	rows, err := repo.dbhandler.PrepareAndQuery(query, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var draws []model.Draw

	for rows.Next() {
		var draw model.Draw

		err = rows.Scan(
			&draw.ID,
			&draw.MatchID,
			&draw.DrawIndex,
			&draw.Number,
			&draw.Signature,
			&draw.DrawnBy,
			&draw.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		draws = append(draws, draw)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draws, nil
}

func (repo *DrawRepository) NumberAlreadyDrawn(matchID uuid.UUID, number int) (bool, error) {
	const op = "repository.draw.NumberAlreadyDrawn"

	const query = "SELECT COUNT(*) FROM draws WHERE match_id = $1 AND number = $2"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, matchID, number)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var count int

	if err = row.Scan(&count); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count > 0, nil
}

func (repo *DrawRepository) DeleteDraw(id uuid.UUID) error {
	const op = "repository.draw.DeleteDraw"

	const query = "DELETE FROM draws WHERE id = $1"

	_, err := repo.dbhandler.PrepareAndExecute(query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
