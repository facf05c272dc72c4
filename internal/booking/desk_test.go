package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDesk(t *testing.T) (*Desk, *availability.Store) {
	t.Helper()
	cat := catalog.Default()
	store := availability.NewStore(cat, availability.SeedAllFree, rand.New(rand.NewSource(1)))
	return NewDesk(cat, store), store
}

func validReservation() Reservation {
	return Reservation{
		Date:      time.Date(2024, 7, 24, 0, 0, 0, 0, time.UTC),
		Time:      "19:00",
		PartySize: 2,
		Region:    "Bar",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0000",
	}
}

func TestCommitRoundTrip(t *testing.T) {
	desk, store := newTestDesk(t)
	res := validReservation()

	conf, err := desk.Commit(res)
	require.NoError(t, err)
	assert.NotEmpty(t, conf.ID)
	assert.False(t, conf.BookedAt.IsZero())
	assert.Equal(t, res, conf.Reservation)

	assert.False(t, store.IsFree(res.Date, res.Time, res.Region))

	ledger := desk.Reservations()
	require.Len(t, ledger, 1)
	assert.Equal(t, res, ledger[0].Reservation)
}

func TestCommitIsExclusivePerSlot(t *testing.T) {
	desk, _ := newTestDesk(t)
	res := validReservation()

	_, err := desk.Commit(res)
	require.NoError(t, err)

	second := res
	second.Name = "Grace Hopper"
	_, err = desk.Commit(second)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Len(t, desk.Reservations(), 1)
}

func TestCommitFailureLeavesStateUnchanged(t *testing.T) {
	desk, store := newTestDesk(t)
	res := validReservation()
	store.SetFree(res.Date, res.Time, res.Region, false)
	before := store.Snapshot()

	_, err := desk.Commit(res)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, desk.Reservations())
}

func TestCommitRevalidatesAtCallTime(t *testing.T) {
	desk, store := newTestDesk(t)
	res := validReservation()

	// The slot was free when the visitor looked, then somebody else took it.
	require.True(t, store.IsFree(res.Date, res.Time, res.Region))
	store.SetFree(res.Date, res.Time, res.Region, false)

	_, err := desk.Commit(res)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCommitRejectsPolicyViolations(t *testing.T) {
	base := validReservation()

	cases := map[string]func(*Reservation){
		"party over region cap":  func(r *Reservation) { r.PartySize = 5 },
		"party size zero":        func(r *Reservation) { r.PartySize = 0 },
		"party size over max":    func(r *Reservation) { r.Region = "Main Hall"; r.PartySize = 13 },
		"children where banned":  func(r *Reservation) { r.HasChildren = true },
		"smoking where banned":   func(r *Reservation) { r.Region = "Main Hall"; r.WantsSmoking = true },
		"unknown region":         func(r *Reservation) { r.Region = "Rooftop" },
		"unknown time slot":      func(r *Reservation) { r.Time = "17:00" },
		"date before the window": func(r *Reservation) { r.Date = time.Date(2024, 7, 23, 0, 0, 0, 0, time.UTC) },
		"date after the window":  func(r *Reservation) { r.Date = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			desk, store := newTestDesk(t)
			before := store.Snapshot()

			res := base
			mutate(&res)
			_, err := desk.Commit(res)
			assert.ErrorIs(t, err, ErrSlotUnavailable)
			assert.Equal(t, before, store.Snapshot())
			assert.Empty(t, desk.Reservations())
		})
	}
}

func TestCommitStoresContactFieldsVerbatim(t *testing.T) {
	desk, _ := newTestDesk(t)
	res := validReservation()
	res.Email = "not an email"
	res.Phone = "whatever"

	conf, err := desk.Commit(res)
	require.NoError(t, err)
	assert.Equal(t, "not an email", conf.Reservation.Email)
	assert.Equal(t, "whatever", conf.Reservation.Phone)
}

func TestReservationsReturnsCopy(t *testing.T) {
	desk, _ := newTestDesk(t)
	_, err := desk.Commit(validReservation())
	require.NoError(t, err)

	ledger := desk.Reservations()
	ledger[0].Reservation.Name = "mutated"
	assert.Equal(t, "Ada Lovelace", desk.Reservations()[0].Reservation.Name)
}
