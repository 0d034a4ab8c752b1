package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

const mapColumns = `id, user_id, title, description, price, is_public, map_data, created_at`

type MapRepository struct {
	db *sqlx.DB
}

func NewMapRepository(db *sqlx.DB) *MapRepository {
	return &MapRepository{db: db}
}

func (r *MapRepository) Create(ctx context.Context, m *models.UserMap) error {
	const insertQuery = `
		INSERT INTO user_maps (id, user_id, title, description, price, is_public, map_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.ExecContext(ctx, insertQuery,
		m.ID, m.UserID, m.Title, m.Description, m.Price, m.IsPublic, m.MapData, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("MapRepository.Create: %w", err)
	}
	return nil
}

func (r *MapRepository) ListPublic(ctx context.Context) ([]models.UserMap, error) {
	maps := []models.UserMap{}
	query := `SELECT ` + mapColumns + ` FROM user_maps WHERE is_public = TRUE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &maps, query); err != nil {
		return nil, fmt.Errorf("MapRepository.ListPublic: %w", err)
	}
	return maps, nil
}

func (r *MapRepository) ListByUser(ctx context.Context, userID string) ([]models.UserMap, error) {
	maps := []models.UserMap{}
	query := `SELECT ` + mapColumns + ` FROM user_maps WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &maps, query, userID); err != nil {
		return nil, fmt.Errorf("MapRepository.ListByUser: %w", err)
	}
	return maps, nil
}
