package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

const requestColumns = `id, guest_id, host_id, check_in_date, check_out_date, message, status, created_at, updated_at`

type HostingRequestRepository struct {
	db *sqlx.DB
}

func NewHostingRequestRepository(db *sqlx.DB) *HostingRequestRepository {
	return &HostingRequestRepository{db: db}
}

func (r *HostingRequestRepository) Create(ctx context.Context, req *models.HostingRequest) error {
	const insertQuery = `
		INSERT INTO hosting_requests (id, guest_id, host_id, check_in_date, check_out_date, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, insertQuery,
		req.ID, req.GuestID, req.HostID, req.CheckInDate, req.CheckOutDate,
		req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
	); err != nil {
		return fmt.Errorf("HostingRequestRepository.Create: %w", err)
	}
	return nil
}

func (r *HostingRequestRepository) Get(ctx context.Context, id string) (*models.HostingRequest, error) {
	var req models.HostingRequest
	query := `SELECT ` + requestColumns + ` FROM hosting_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.Get: %w", notFound(err))
	}
	return &req, nil
}

// ListForUser returns requests sent by guestID or addressed to the host
// profile hostID, newest first.
func (r *HostingRequestRepository) ListForUser(ctx context.Context, guestID, hostID string) ([]models.HostingRequest, error) {
	requests := []models.HostingRequest{}
	query := `SELECT ` + requestColumns + ` FROM hosting_requests
		WHERE guest_id = $1 OR host_id = $2
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query, guestID, hostID); err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.ListForUser: %w", err)
	}
	return requests, nil
}

// UpdateStatus moves the request to next if the transition is allowed.
func (r *HostingRequestRepository) UpdateStatus(ctx context.Context, id string, next models.RequestStatus) (*models.HostingRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.UpdateStatus: begin: %w", err)
	}
	defer tx.Rollback()

	var req models.HostingRequest
	query := `SELECT ` + requestColumns + ` FROM hosting_requests WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &req, query, id); err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.UpdateStatus: %w", notFound(err))
	}

	if !req.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("HostingRequestRepository.UpdateStatus: %w: %s -> %s", models.ErrInvalidTransition, req.Status, next)
	}

	req.Status = next
	req.UpdatedAt = time.Now().UTC()
	const updateQuery = `UPDATE hosting_requests SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, updateQuery, req.Status, req.UpdatedAt, req.ID); err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.UpdateStatus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("HostingRequestRepository.UpdateStatus: commit: %w", err)
	}
	return &req, nil
}
