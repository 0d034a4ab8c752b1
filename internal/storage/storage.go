// Package storage holds the Postgres repositories behind the API.
package storage

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/femmepacker/server/internal/models"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFound maps sql.ErrNoRows to models.ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}
