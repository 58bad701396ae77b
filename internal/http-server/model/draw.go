package model

import (
	"time"

	"github.com/google/uuid"
)

type Draw struct {
	ID        uuid.UUID `json:"id"`
	MatchID   uuid.UUID `json:"match_id"`
	DrawIndex int       `json:"draw_index"`
	Number    int       `json:"number"`
	Signature string    `json:"signature"`
	DrawnBy   uuid.UUID `json:"drawn_by"`
	CreatedAt time.Time `json:"created_at"`
}
