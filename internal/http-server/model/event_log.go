package model

import (
	"time"

	"github.com/google/uuid"
)

type EventLog struct {
	ID        int64                  `json:"id"`
	MatchID   *uuid.UUID             `json:"match_id"`
	UserID    *uuid.UUID             `json:"user_id"`
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}
