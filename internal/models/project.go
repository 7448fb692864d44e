package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Color     *string   `json:"color,omitempty" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
}

type ProjectPatch struct {
	Title Optional[string]
	Color Optional[*string]
}
