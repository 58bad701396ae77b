package model

import (
	"time"

	"github.com/google/uuid"

	"go-bingohall/internal/config"
)

type User struct {
	ID        uuid.UUID   `json:"id"`
	Role      config.Role `json:"role"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
