// Package ledger records hosting requests and reviews and announces them as
// domain events.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/models"
)

type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *models.HostingRequest) error
	Get(ctx context.Context, id string) (*models.HostingRequest, error)
	ListForUser(ctx context.Context, guestID, hostID string) ([]models.HostingRequest, error)
	UpdateStatus(ctx context.Context, id string, next models.RequestStatus) (*models.HostingRequest, error)
}

// ReviewStore persists a review and recomputes the host's rating in the same
// transaction.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByHost(ctx context.Context, hostID string) ([]models.Review, error)
}

type Ledger struct {
	profiles  ProfileLookup
	requests  RequestStore
	reviews   ReviewStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func New(profiles ProfileLookup, requests RequestStore, reviews ReviewStore, publisher events.Publisher, logger *slog.Logger) *Ledger {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		profiles:  profiles,
		requests:  requests,
		reviews:   reviews,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateHostingRequest stores a pending request from guestID to the host
// profile named in in.HostID.
func (l *Ledger) CreateHostingRequest(ctx context.Context, guestID string, in models.NewHostingRequest) (*models.HostingRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	host, err := l.profiles.GetByID(ctx, in.HostID)
	if err != nil {
		return nil, fmt.Errorf("host %s: %w", in.HostID, err)
	}

	now := l.now()
	req := &models.HostingRequest{
		ID:           uuid.NewString(),
		GuestID:      guestID,
		HostID:       host.ID,
		CheckInDate:  in.CheckInDate,
		CheckOutDate: in.CheckOutDate,
		Message:      in.Message,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	l.publish(ctx, models.EventHostingRequestCreated, guestID, host.UserID, req)
	return req, nil
}

// ListRequests returns requests where userID is the guest or owns the host
// profile.
func (l *Ledger) ListRequests(ctx context.Context, userID string) ([]models.HostingRequest, error) {
	hostID := ""
	profile, err := l.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		hostID = profile.ID
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	return l.requests.ListForUser(ctx, userID, hostID)
}

// UpdateRequestStatus moves a request to status on behalf of actorID. Only the
// owner of the host profile may accept or decline; either party may cancel.
func (l *Ledger) UpdateRequestStatus(ctx context.Context, actorID, id, status string) (*models.HostingRequest, error) {
	next, ok := models.ParseRequestStatus(status)
	if !ok {
		return nil, models.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	current, err := l.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	isHost, err := l.ownsHostProfile(ctx, actorID, current.HostID)
	if err != nil {
		return nil, err
	}
	isGuest := current.GuestID == actorID
	switch {
	case !isHost && !isGuest:
		return nil, fmt.Errorf("%w: %s is not a party to request %s", models.ErrForbidden, actorID, id)
	case (next == models.StatusAccepted || next == models.StatusDeclined) && !isHost:
		return nil, fmt.Errorf("%w: only the host can mark request %s %s", models.ErrForbidden, id, next)
	}

	req, err := l.requests.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, models.EventHostingRequestStatus, actorID, req.GuestID, req)
	return req, nil
}

func (l *Ledger) ownsHostProfile(ctx context.Context, userID, hostID string) (bool, error) {
	host, err := l.profiles.GetByID(ctx, hostID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return host.UserID == userID, nil
}

// CreateReview records a review of a host profile. The host's rating and
// review count are recomputed by the store.
func (l *Ledger) CreateReview(ctx context.Context, guestID string, in models.NewReviewRequest) (*models.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	review := &models.Review{
		ID:        uuid.NewString(),
		HostID:    in.HostID,
		GuestID:   guestID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: l.now(),
	}
	if err := l.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	recipient := in.HostID
	if host, err := l.profiles.GetByID(ctx, in.HostID); err == nil {
		recipient = host.UserID
	}
	l.publish(ctx, models.EventReviewCreated, guestID, recipient, review)
	return review, nil
}

func (l *Ledger) ListReviews(ctx context.Context, hostID string) ([]models.Review, error) {
	return l.reviews.ListByHost(ctx, hostID)
}

// publish never fails the caller; the write has already been committed.
func (l *Ledger) publish(ctx context.Context, typ models.EventType, actorID, recipientID string, payload interface{}) {
	evt, err := events.New(typ, actorID, recipientID, payload)
	if err == nil {
		err = l.publisher.Publish(ctx, evt)
	}
	if err != nil {
		l.logger.Error("failed to publish event", "type", typ, "recipient", recipientID, "error", err)
		return
	}
	l.logger.Debug("event published", "type", typ, "id", evt.ID)
}
