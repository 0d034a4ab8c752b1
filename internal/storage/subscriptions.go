package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/femmepacker/server/internal/models"
)

const subscriptionColumns = `id, user_id, tier, billing_reference, next_billing_date, created_at, updated_at`

// SubscriptionRepository is the subscription registry. user_id is unique,
// so each user has at most one row.
type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &sub, query, userID); err != nil {
		return nil, fmt.Errorf("SubscriptionRepository.GetSubscription: %w", notFound(err))
	}
	return &sub, nil
}

// EnsureSubscription returns the user's subscription, creating a free one
// first if there is none.
func (r *SubscriptionRepository) EnsureSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	now := time.Now().UTC()
	const insertQuery = `
		INSERT INTO user_subscriptions (id, user_id, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insertQuery, uuid.NewString(), userID, models.TierFree, now); err != nil {
		return nil, fmt.Errorf("SubscriptionRepository.EnsureSubscription: %w", err)
	}
	return r.GetSubscription(ctx, userID)
}

// SetTier records a tier change, creating the subscription if needed.
func (r *SubscriptionRepository) SetTier(ctx context.Context, userID string, tier models.Tier, billingRef string, nextBilling *time.Time) (*models.UserSubscription, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO user_subscriptions (id, user_id, tier, billing_reference, next_billing_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET tier = EXCLUDED.tier,
			billing_reference = EXCLUDED.billing_reference,
			next_billing_date = EXCLUDED.next_billing_date,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + subscriptionColumns

	var sub models.UserSubscription
	if err := r.db.GetContext(ctx, &sub, query, uuid.NewString(), userID, tier, billingRef, nextBilling, now); err != nil {
		return nil, fmt.Errorf("SubscriptionRepository.SetTier: %w", err)
	}
	return &sub, nil
}
