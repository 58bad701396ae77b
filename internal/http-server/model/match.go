package model

import (
	"time"

	"github.com/google/uuid"

	"go-bingohall/internal/config"
)

type Match struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Status         config.MatchStatus `json:"status"`
	NumMin         int                `json:"num_min"`
	NumMax         int                `json:"num_max"`
	NumbersPerCard int                `json:"numbers_per_card"`
	CommitHash     string             `json:"commit_hash"`
	// SeedMaterial stays sealed until the match is finished; it is never
	// serialized into API responses or logs.
	SeedMaterial     []string      `json:"-"`
	AutoDraw         bool          `json:"auto_draw"`
	AutoDrawInterval time.Duration `json:"auto_draw_interval"`
	MaxWinners       *int          `json:"max_winners"`
	StartedAt        *time.Time    `json:"started_at"`
	EndedAt          *time.Time    `json:"ended_at"`
	CreatedBy        uuid.UUID     `json:"created_by"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
