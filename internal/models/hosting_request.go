package models

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCancelled RequestStatus = "cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted: {StatusCancelled},
}

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether a request in status s may move to next.
// Declined and cancelled are terminal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HostingRequest is a guest's request to stay with a host. Dates are stored
// as the caller supplied them.
type HostingRequest struct {
	ID           string        `json:"id" db:"id"`
	GuestID      string        `json:"guestId" db:"guest_id"`
	HostID       string        `json:"hostId" db:"host_id"`
	CheckInDate  string        `json:"checkInDate" db:"check_in_date"`
	CheckOutDate string        `json:"checkOutDate" db:"check_out_date"`
	Message      string        `json:"message" db:"message"`
	Status       RequestStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

type NewHostingRequest struct {
	HostID       string `json:"hostId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Message      string `json:"message"`
}

func (r NewHostingRequest) Validate() error {
	if r.HostID == "" {
		return NewValidationError("hostId", "is required")
	}
	if r.CheckInDate == "" || r.CheckOutDate == "" {
		return NewValidationError("checkInDate", "check-in and check-out dates are required")
	}
	return nil
}
