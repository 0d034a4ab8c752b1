package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

// editableColumns are the profile columns a user may write.
var editableColumns = []string{
	"name", "about_me", "bio", "can_host", "country", "born_in",
	"previous_locations", "languages", "interests", "usual_stay_length",
	"travel_style", "max_capacity", "max_duration",
	"availability_flexible", "availability_from", "availability_to", "availability_days",
	"preferred_days", "custom_preferred_days", "preferred_transport", "custom_transport",
	"preferred_stay", "custom_stay", "preferred_activities", "custom_activities",
	"red_flags", "green_flags",
	"instagram_handle", "social_media_link", "spotify_connected", "spotify_user_id",
}

var profileColumns = "id, user_id, " + strings.Join(editableColumns, ", ") +
	", rating, review_count, created_at, updated_at"

// insertProfileQuery and updateProfileQuery bind by db tag through sqlx named
// parameters.
var (
	insertProfileQuery = `INSERT INTO profiles (` + profileColumns + `)
		VALUES (:` + strings.Join(strings.Split(profileColumns, ", "), ", :") + `)`
	updateProfileQuery = `UPDATE profiles SET ` + namedAssignments(editableColumns) +
		`, updated_at = :updated_at WHERE id = :id`
)

func namedAssignments(cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " = :" + col
	}
	return strings.Join(parts, ", ")
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID returns the profile owned by userID or models.ErrNotFound.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		return nil, fmt.Errorf("ProfileRepository.GetByUserID: %w", notFound(err))
	}
	return &p, nil
}

// GetByID returns the profile with the given profile id or models.ErrNotFound.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("ProfileRepository.GetByID: %w", notFound(err))
	}
	return &p, nil
}

// List returns every stored profile ordered by id.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY id`
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("ProfileRepository.List: %w", err)
	}
	return profiles, nil
}

// Create inserts p. A second profile for the same user fails with
// models.ErrAlreadyExists.
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	_, err := r.db.NamedExecContext(ctx, insertProfileQuery, p)
	if isUniqueViolation(err) {
		return fmt.Errorf("ProfileRepository.Create: %w", models.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("ProfileRepository.Create: %w", err)
	}
	return nil
}

// Update applies a partial update to the profile of userID while holding a
// row lock, so concurrent updates and rating recomputes do not interleave.
func (r *ProfileRepository) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ProfileRepository.Update: begin: %w", err)
	}
	defer tx.Rollback()

	var p models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &p, query, userID); err != nil {
		return nil, fmt.Errorf("ProfileRepository.Update: %w", notFound(err))
	}

	upd.Apply(&p)
	p.UpdatedAt = time.Now().UTC()

	if _, err := tx.NamedExecContext(ctx, updateProfileQuery, &p); err != nil {
		return nil, fmt.Errorf("ProfileRepository.Update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ProfileRepository.Update: commit: %w", err)
	}
	return &p, nil
}
