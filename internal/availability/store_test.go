package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/example/tablebook/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day  = time.Date(2024, 7, 24, 0, 0, 0, 0, time.UTC)
	slot = "19:00"
)

func newTestStore(t *testing.T, seed SeedPolicy) *Store {
	t.Helper()
	return NewStore(catalog.Default(), seed, rand.New(rand.NewSource(1)))
}

func TestNewStoreCoversFullProduct(t *testing.T) {
	cat := catalog.Default()
	s := newTestStore(t, SeedRandom)

	snap := s.Snapshot()
	require.Len(t, snap, len(cat.Window.Days())*cat.SlotsPerDay())

	for _, d := range cat.Window.Days() {
		for _, ts := range cat.TimeSlots {
			for _, r := range cat.Regions {
				_, ok := snap[Key{Date: d.Format(catalog.DateFormat), Time: ts, Region: r.Name}]
				assert.True(t, ok, "missing key %s %s %s", d.Format(catalog.DateFormat), ts, r.Name)
			}
		}
	}
}

func TestSeedingIsDeterministicPerSeed(t *testing.T) {
	cat := catalog.Default()
	a := NewStore(cat, SeedRandom, rand.New(rand.NewSource(7)))
	b := NewStore(cat, SeedRandom, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestIsFreeUnknownKeyIsFalse(t *testing.T) {
	s := newTestStore(t, SeedAllFree)

	assert.False(t, s.IsFree(day, slot, "Rooftop"))
	assert.False(t, s.IsFree(day, "17:00", "Bar"))
	assert.False(t, s.IsFree(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), slot, "Bar"))
}

func TestIsFreeIsIdempotent(t *testing.T) {
	s := newTestStore(t, SeedRandom)
	first := s.IsFree(day, slot, "Bar")
	assert.Equal(t, first, s.IsFree(day, slot, "Bar"))
}

func TestSetFreeMutatesAndNotifies(t *testing.T) {
	s := newTestStore(t, SeedAllFree)

	var got []Snapshot
	unsub := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })
	defer unsub()

	s.SetFree(day, slot, "Bar", false)

	assert.False(t, s.IsFree(day, slot, "Bar"))
	require.Len(t, got, 1, "notification delivered before SetFree returns")
	assert.False(t, got[0][Key{Date: "2024-07-24", Time: slot, Region: "Bar"}],
		"subscriber sees post-mutation state")
}

func TestSetFreeUnknownKeyIsIgnored(t *testing.T) {
	s := newTestStore(t, SeedAllFree)
	before := s.Snapshot()

	notified := 0
	unsub := s.Subscribe(func(Snapshot) { notified++ })
	defer unsub()

	s.SetFree(day, slot, "Rooftop", false)

	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, notified)
}

func TestSubscribersAreIndependent(t *testing.T) {
	s := newTestStore(t, SeedAllFree)

	a, b := 0, 0
	unsubA := s.Subscribe(func(Snapshot) { a++ })
	unsubB := s.Subscribe(func(Snapshot) { b++ })

	s.SetFree(day, slot, "Bar", false)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)

	unsubA()
	s.SetFree(day, slot, "Bar", true)
	assert.Equal(t, 1, a, "unsubscribed listener stays silent")
	assert.Equal(t, 2, b)

	unsubB()
}

func TestTryReserveSucceedsOnce(t *testing.T) {
	s := newTestStore(t, SeedAllFree)

	assert.True(t, s.TryReserve(day, slot, "Bar"))
	assert.False(t, s.IsFree(day, slot, "Bar"))
	assert.False(t, s.TryReserve(day, slot, "Bar"), "second reserve on the same key must fail")
}

func TestTryReserveNotifies(t *testing.T) {
	s := newTestStore(t, SeedAllFree)

	notified := 0
	unsub := s.Subscribe(func(Snapshot) { notified++ })
	defer unsub()

	require.True(t, s.TryReserve(day, slot, "Bar"))
	assert.Equal(t, 1, notified)

	s.TryReserve(day, slot, "Bar")
	assert.Equal(t, 1, notified, "failed reserve does not notify")
}

func TestDaySummary(t *testing.T) {
	cat := catalog.Default()
	s := newTestStore(t, SeedAllFree)

	avail, total := s.DaySummary(day)
	assert.Equal(t, cat.SlotsPerDay(), total)
	assert.Equal(t, total, avail)

	s.SetFree(day, slot, "Bar", false)
	avail, _ = s.DaySummary(day)
	assert.Equal(t, total-1, avail)
}

func TestDayGrid(t *testing.T) {
	cat := catalog.Default()
	s := newTestStore(t, SeedAllFree)
	s.SetFree(day, slot, "Bar", false)

	grid := s.DayGrid(day)
	require.Len(t, grid, len(cat.TimeSlots))
	for i, row := range grid {
		assert.Equal(t, cat.TimeSlots[i], row.Time, "rows follow catalog order")
		require.Len(t, row.Regions, len(cat.Regions))
	}

	assert.False(t, grid[2].Regions["Bar"]) // 19:00
	assert.True(t, grid[2].Regions["Main Hall"])
	assert.True(t, grid[3].Regions["Bar"])
}
