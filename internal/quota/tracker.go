// Package quota enforces the monthly message allowance of each subscription tier.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/femmepacker/server/internal/models"
)

const (
	// FreeAILimit and FreeHostLimit are the monthly allowances of the free tier.
	FreeAILimit   = 5
	FreeHostLimit = 3

	// Unlimited is reported as the limit of premium users.
	Unlimited = -1
)

var ErrQuotaExceeded = errors.New("message quota exceeded")

// ExceededError describes a send refused because the monthly limit is used up.
type ExceededError struct {
	Tier    models.Tier
	Class   models.MessageClass
	Limit   int
	Current int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s message limit reached (%d/%d)", e.Class, e.Current, e.Limit)
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// Store persists per-user, per-month counters.
type Store interface {
	// GetOrCreate returns the row for (userID, month), creating a zeroed one
	// when none exists.
	GetOrCreate(ctx context.Context, userID, month string, now time.Time) (models.MessageQuota, error)
	// Reserve atomically increments the class counter when it is below limit
	// and reports the counter value after the attempt. A negative limit
	// always increments.
	Reserve(ctx context.Context, userID, month string, class models.MessageClass, limit int, now time.Time) (bool, int, error)
}

// Subscriptions resolves user tiers. GetSubscription returns
// models.ErrNotFound when the user has none.
type Subscriptions interface {
	GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
	EnsureSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
}

type Tracker struct {
	store Store
	subs  Subscriptions
	now   func() time.Time
}

func NewTracker(store Store, subs Subscriptions) *Tracker {
	return &Tracker{store: store, subs: subs, now: time.Now}
}

// WithClock replaces the clock used to pick the current month.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Limit returns the monthly allowance of class for tier.
func Limit(tier models.Tier, class models.MessageClass) int {
	if tier == models.TierPremium {
		return Unlimited
	}
	if class == models.ClassAI {
		return FreeAILimit
	}
	return FreeHostLimit
}

// GetQuota returns the caller's row for the current month, creating it on
// first use. A new month therefore starts from zero.
func (t *Tracker) GetQuota(ctx context.Context, userID string) (models.MessageQuota, error) {
	now := t.now()
	return t.store.GetOrCreate(ctx, userID, models.YearMonth(now), now)
}

// Tier looks up the user's tier without creating a subscription. Users
// without one are on the free tier.
func (t *Tracker) Tier(ctx context.Context, userID string) (models.Tier, error) {
	sub, err := t.subs.GetSubscription(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.TierFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("Tracker.Tier: %w", err)
	}
	if sub == nil {
		return models.TierFree, nil
	}
	return sub.Tier, nil
}

// CanSend reports whether userID may send one more message of class now.
func (t *Tracker) CanSend(ctx context.Context, userID string, class models.MessageClass) (bool, error) {
	tier, err := t.Tier(ctx, userID)
	if err != nil {
		return false, err
	}
	if tier == models.TierPremium {
		return true, nil
	}
	q, err := t.GetQuota(ctx, userID)
	if err != nil {
		return false, err
	}
	return q.Count(class) < Limit(tier, class), nil
}

// RecordSend counts one sent message of class against the current month.
// It does not check the limit; callers that need the check use TryReserve.
func (t *Tracker) RecordSend(ctx context.Context, userID string, class models.MessageClass) error {
	now := t.now()
	if _, _, err := t.store.Reserve(ctx, userID, models.YearMonth(now), class, Unlimited, now); err != nil {
		return fmt.Errorf("Tracker.RecordSend: %w", err)
	}
	return nil
}

// TryReserve checks the limit and counts the send in one atomic step. When
// the limit is used up it returns an *ExceededError and leaves the counter
// unchanged.
func (t *Tracker) TryReserve(ctx context.Context, userID string, class models.MessageClass) error {
	tier, err := t.Tier(ctx, userID)
	if err != nil {
		return err
	}
	limit := Limit(tier, class)
	now := t.now()
	ok, current, err := t.store.Reserve(ctx, userID, models.YearMonth(now), class, limit, now)
	if err != nil {
		return fmt.Errorf("Tracker.TryReserve: %w", err)
	}
	if !ok {
		return &ExceededError{Tier: tier, Class: class, Limit: limit, Current: current}
	}
	return nil
}

// Summary returns the quota view for display, creating the user's free
// subscription and this month's row if they do not exist yet.
func (t *Tracker) Summary(ctx context.Context, userID string) (models.QuotaSummary, error) {
	sub, err := t.subs.EnsureSubscription(ctx, userID)
	if err != nil {
		return models.QuotaSummary{}, fmt.Errorf("Tracker.Summary: %w", err)
	}
	q, err := t.GetQuota(ctx, userID)
	if err != nil {
		return models.QuotaSummary{}, fmt.Errorf("Tracker.Summary: %w", err)
	}

	tier := sub.Tier
	aiLimit := Limit(tier, models.ClassAI)
	hostLimit := Limit(tier, models.ClassHost)
	return models.QuotaSummary{
		Tier:          tier,
		AIMessages:    q.AIMessages,
		AILimit:       aiLimit,
		HostMessages:  q.HostMessages,
		HostLimit:     hostLimit,
		CanSendToAI:   aiLimit == Unlimited || q.AIMessages < aiLimit,
		CanSendToHost: hostLimit == Unlimited || q.HostMessages < hostLimit,
	}, nil
}
