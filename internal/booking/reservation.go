package booking

import (
	"errors"
	"time"
)

// ErrSlotUnavailable is the only domain error: the requested slot is taken,
// outside the booking universe, or the request fails the region's seating
// policy. The caller is expected to re-run Alternatives and let the visitor
// pick again.
var ErrSlotUnavailable = errors.New("slot unavailable")

const (
	MinPartySize = 1
	MaxPartySize = 12
)

// Reservation is a visitor's booking request. Contact fields are stored
// verbatim; format validation belongs to the form layer.
type Reservation struct {
	Date         time.Time
	Time         string
	PartySize    int
	Region       string
	Name         string
	Email        string
	Phone        string
	HasChildren  bool
	WantsSmoking bool
}

// Confirmation is the receipt for a committed reservation.
type Confirmation struct {
	ID          string
	Reservation Reservation
	BookedAt    time.Time
}
