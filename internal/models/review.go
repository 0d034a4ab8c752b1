package models

import "time"

// Review is one guest's rating of one host. HostID is the host's profile id.
type Review struct {
	ID        string    `json:"id" db:"id"`
	HostID    string    `json:"hostId" db:"host_id"`
	GuestID   string    `json:"guestId" db:"guest_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type NewReviewRequest struct {
	HostID  string `json:"hostId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate only checks presence; the rating range is not enforced.
func (r NewReviewRequest) Validate() error {
	if r.HostID == "" {
		return NewValidationError("hostId", "is required")
	}
	if r.Rating == 0 {
		return NewValidationError("rating", "is required")
	}
	return nil
}
