package booking

import (
	"sync"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/catalog"
	"github.com/google/uuid"
)

// Desk is the single entry point for state change: it commits reservations
// against the store and keeps the append-only booking ledger.
type Desk struct {
	cat   catalog.Catalog
	store *availability.Store

	mu  sync.Mutex
	log []Confirmation
}

func NewDesk(cat catalog.Catalog, store *availability.Store) *Desk {
	return &Desk{cat: cat, store: store}
}

// Commit re-validates the slot at call time and reserves it. Eligibility
// cached by the caller is not trusted: availability may have changed between
// query and submit. The check and the flip are one atomic unit per key, so a
// slot is ever granted to at most one reservation. A failed commit leaves the
// store and the ledger untouched.
func (d *Desk) Commit(res Reservation) (Confirmation, error) {
	if !d.eligible(res) {
		return Confirmation{}, ErrSlotUnavailable
	}
	if !d.store.TryReserve(res.Date, res.Time, res.Region) {
		return Confirmation{}, ErrSlotUnavailable
	}
	c := Confirmation{
		ID:          uuid.NewString(),
		Reservation: res,
		BookedAt:    time.Now(),
	}
	d.mu.Lock()
	d.log = append(d.log, c)
	d.mu.Unlock()
	return c, nil
}

// eligible applies the seating policy and shape checks. Malformed requests
// (unknown region or slot, date outside the window, party size out of range)
// simply fail the predicate; they are never a distinct error.
func (d *Desk) eligible(res Reservation) bool {
	if res.PartySize < MinPartySize || res.PartySize > MaxPartySize {
		return false
	}
	reg, ok := d.cat.RegionByName(res.Region)
	if !ok {
		return false
	}
	if reg.MaxPartySize < res.PartySize {
		return false
	}
	if res.HasChildren && !reg.ChildrenAllowed {
		return false
	}
	if res.WantsSmoking && !reg.SmokingAllowed {
		return false
	}
	if !d.cat.HasTimeSlot(res.Time) {
		return false
	}
	return d.cat.Window.Contains(res.Date)
}

// Reservations returns a copy of the booking ledger in commit order.
func (d *Desk) Reservations() []Confirmation {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Confirmation, len(d.log))
	copy(out, d.log)
	return out
}
