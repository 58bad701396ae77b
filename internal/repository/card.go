package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/model"
)

type CardRepository struct {
	dbhandler postgres.Handler
}

func NewCardRepository(dbhandler postgres.Handler) *CardRepository {
	return &CardRepository{dbhandler: dbhandler}
}

// SaveCardTx inserts a card inside the caller's transaction; dealing a match
// writes all cards or none.
func (repo *CardRepository) SaveCardTx(tx *sql.Tx, card model.Card) error {
	const op = "repository.card.SaveCardTx"

	const query = "INSERT INTO cards(id, match_id, user_id, card_index, numbers, marked, created_at)" +
		" VALUES($1, $2, $3, $4, $5, $6, $7)"

	_, err := tx.Exec(query,
		card.ID,
		card.MatchID,
		card.UserID,
		card.CardIndex,
		pq.Array(card.Numbers),
		pq.Array(card.Marked),
		time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *CardRepository) GetCardByID(id uuid.UUID) (*model.Card, error) {
	const op = "repository.card.GetCardByID"

	const query = "SELECT id, match_id, user_id, card_index, numbers, marked, is_winner," +
		" bingo_draw_index, bingo_claimed_at, created_at" +
		" FROM cards WHERE id = $1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	card := &model.Card{}

	err = row.Scan(
		&card.ID,
		&card.MatchID,
		&card.UserID,
		&card.CardIndex,
		pq.Array(&card.Numbers),
		pq.Array(&card.Marked),
		&card.IsWinner,
		&card.BingoDrawIndex,
		&card.BingoClaimedAt,
		&card.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

func (repo *CardRepository) GetUserCards(matchID, userID uuid.UUID) ([]model.Card, error) {
	const op = "repository.card.GetUserCards"

	const query = "SELECT id, match_id, user_id, card_index, numbers, marked, is_winner," +
		" bingo_draw_index, bingo_claimed_at, created_at" +
		" FROM cards WHERE match_id = $1 AND user_id = $2 ORDER BY card_index ASC"

	return repo.queryCards(op, query, matchID, userID)
}

// GetCardsWithNumber returns the match's unfinished cards carrying the drawn
// number, for auto-marking.
func (repo *CardRepository) GetCardsWithNumber(matchID uuid.UUID, number int) ([]model.Card, error) {
	const op = "repository.card.GetCardsWithNumber"

	const query = "SELECT id, match_id, user_id, card_index, numbers, marked, is_winner," +
		" bingo_draw_index, bingo_claimed_at, created_at" +
		" FROM cards WHERE match_id = $1 AND $2 = ANY(numbers) AND is_winner = FALSE"

	return repo.queryCards(op, query, matchID, number)
}

func (repo *CardRepository) queryCards(op, query string, args ...interface{}) ([]model.Card, error) {
	rows, err := repo.dbhandler.PrepareAndQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cards []model.Card

	for rows.Next() {
		var card model.Card

		err = rows.Scan(
			&card.ID,
			&card.MatchID,
			&card.UserID,
			&card.CardIndex,
			pq.Array(&card.Numbers),
			pq.Array(&card.Marked),
			&card.IsWinner,
			&card.BingoDrawIndex,
			&card.BingoClaimedAt,
			&card.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cards, nil
}

func (repo *CardRepository) UpdateMarked(id uuid.UUID, marked []int64) error {
	const op = "repository.card.UpdateMarked"

	const query = "UPDATE cards SET marked = $1 WHERE id = $2"

	_, err := repo.dbhandler.PrepareAndExecute(query, pq.Array(marked), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *CardRepository) MarkWinner(id uuid.UUID, bingoDrawIndex int, claimedAt time.Time) error {
	const op = "repository.card.MarkWinner"

	const query = "UPDATE cards SET is_winner = TRUE, bingo_draw_index = $1, bingo_claimed_at = $2 WHERE id = $3"

	_, err := repo.dbhandler.PrepareAndExecute(query, bingoDrawIndex, claimedAt, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *CardRepository) GetWinners(matchID uuid.UUID) ([]model.Card, error) {
	const op = "repository.card.GetWinners"

	const query = "SELECT id, match_id, user_id, card_index, numbers, marked, is_winner," +
		" bingo_draw_index, bingo_claimed_at, created_at" +
		" FROM cards WHERE match_id = $1 AND is_winner = TRUE ORDER BY bingo_draw_index ASC"

	return repo.queryCards(op, query, matchID)
}

func (repo *CardRepository) CountCards(matchID uuid.UUID) (int, error) {
	const op = "repository.card.CountCards"

	const query = "SELECT COUNT(*) FROM cards WHERE match_id = $1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, matchID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int

	if err = row.Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
