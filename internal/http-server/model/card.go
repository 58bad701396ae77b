package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID             uuid.UUID  `json:"id"`
	MatchID        uuid.UUID  `json:"match_id"`
	UserID         uuid.UUID  `json:"user_id"`
	CardIndex      int        `json:"card_index"`
	Numbers        []int64    `json:"numbers"`
	Marked         []int64    `json:"marked"`
	IsWinner       bool       `json:"is_winner"`
	BingoDrawIndex *int       `json:"bingo_draw_index"`
	BingoClaimedAt *time.Time `json:"bingo_claimed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
