package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// UserMap is a travel map shared by a member, optionally for a price.
type UserMap struct {
	ID          string         `json:"id" db:"id"`
	UserID      string         `json:"userId" db:"user_id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	IsPublic    bool           `json:"isPublic" db:"is_public"`
	MapData     types.JSONText `json:"mapData" db:"map_data"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

type NewUserMapRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	IsPublic    *bool          `json:"isPublic"`
	MapData     types.JSONText `json:"mapData"`
}

func (r NewUserMapRequest) Validate() error {
	if r.Title == "" {
		return NewValidationError("title", "is required")
	}
	if r.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	return nil
}
