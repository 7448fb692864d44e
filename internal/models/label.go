package models

import "github.com/google/uuid"

type Label struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Color   *string   `json:"color,omitempty" db:"color"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`
}

type LabelPatch struct {
	Name  Optional[string]
	Color Optional[*string]
}
