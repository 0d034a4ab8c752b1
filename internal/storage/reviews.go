package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts review and recomputes the host's rating and review count in
// the same transaction. The host profile must exist.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Create: begin: %w", err)
	}
	defer tx.Rollback()

	var hostID string
	if err := tx.GetContext(ctx, &hostID, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, review.HostID); err != nil {
		return fmt.Errorf("ReviewRepository.Create: host %s: %w", review.HostID, notFound(err))
	}

	const insertQuery = `
		INSERT INTO reviews (id, host_id, guest_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		review.ID, review.HostID, review.GuestID, review.Rating, review.Comment, review.CreatedAt,
	); err != nil {
		return fmt.Errorf("ReviewRepository.Create: insert: %w", err)
	}

	if err := recalcHostRating(ctx, tx, hostID); err != nil {
		return fmt.Errorf("ReviewRepository.Create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReviewRepository.Create: commit: %w", err)
	}
	return nil
}

// recalcHostRating sets the host's rating to the mean of its reviews and its
// review count to their number.
func recalcHostRating(ctx context.Context, tx *sqlx.Tx, hostID string) error {
	var agg struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	const aggQuery = `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews
		WHERE host_id = $1
	`
	if err := tx.GetContext(ctx, &agg, aggQuery, hostID); err != nil {
		return fmt.Errorf("recalc rating: %w", err)
	}

	const updateQuery = `UPDATE profiles SET rating = $1, review_count = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, updateQuery, agg.Average, agg.Count, hostID); err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}

// ListByHost returns the host's reviews, newest first.
func (r *ReviewRepository) ListByHost(ctx context.Context, hostID string) ([]models.Review, error) {
	reviews := []models.Review{}
	const selectQuery = `
		SELECT id, host_id, guest_id, rating, comment, created_at
		FROM reviews
		WHERE host_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &reviews, selectQuery, hostID); err != nil {
		return nil, fmt.Errorf("ReviewRepository.ListByHost: %w", err)
	}
	return reviews, nil
}
