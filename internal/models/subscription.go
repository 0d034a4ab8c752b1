package models

import "time"

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

func ParseTier(s string) (Tier, bool) {
	switch t := Tier(s); t {
	case TierFree, TierPremium:
		return t, true
	}
	return "", false
}

// UserSubscription records a user's tier. At most one exists per user.
type UserSubscription struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"userId" db:"user_id"`
	Tier             Tier       `json:"tier" db:"tier"`
	BillingReference string     `json:"billingReference" db:"billing_reference"`
	NextBillingDate  *time.Time `json:"nextBillingDate,omitempty" db:"next_billing_date"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// UpdateSubscriptionRequest is a tier change reported by the billing
// provider. UserID names the subscriber; when empty the caller is used.
type UpdateSubscriptionRequest struct {
	UserID           string     `json:"userId"`
	Tier             string     `json:"tier"`
	BillingReference string     `json:"billingReference"`
	NextBillingDate  *time.Time `json:"nextBillingDate"`
}
