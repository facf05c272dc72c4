package availability

import (
	"math/rand"
	"sync"
	"time"

	"github.com/example/tablebook/internal/catalog"
)

// Key identifies a bookable slot: one seating region at one time on one day.
// Date uses catalog.DateFormat.
type Key struct {
	Date   string
	Time   string
	Region string
}

// Snapshot is a point-in-time copy of the full availability map.
type Snapshot map[Key]bool

// SeedPolicy decides the initial free flag for each slot during initialization.
type SeedPolicy func(r *rand.Rand) bool

// SeedAllFree marks every slot bookable.
func SeedAllFree(*rand.Rand) bool { return true }

// SeedRandom marks each slot bookable with probability 0.7.
func SeedRandom(r *rand.Rand) bool { return r.Float64() > 0.3 }

// Store is the sole owner of slot availability. All reads and writes go
// through its mutex; listeners are notified synchronously with a post-mutation
// snapshot before the mutating call returns.
type Store struct {
	cat catalog.Catalog

	mu        sync.Mutex
	free      map[Key]bool
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewStore populates every (day x time x region) key in the catalog's window.
// Keys are seeded in catalog order so a fixed rng seed reproduces the same map.
func NewStore(cat catalog.Catalog, seed SeedPolicy, rng *rand.Rand) *Store {
	s := &Store{
		cat:       cat,
		free:      make(map[Key]bool, len(cat.Window.Days())*cat.SlotsPerDay()),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, day := range cat.Window.Days() {
		date := day.Format(catalog.DateFormat)
		for _, slot := range cat.TimeSlots {
			for _, region := range cat.Regions {
				s.free[Key{Date: date, Time: slot, Region: region.Name}] = seed(rng)
			}
		}
	}
	return s
}

// IsFree reports whether the slot is bookable. Unknown keys are never
// bookable.
func (s *Store) IsFree(date time.Time, slot, region string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.free[key(date, slot, region)]
}

// SetFree overwrites a slot's free flag and notifies subscribers. Keys outside
// the initialized universe are ignored; the map stays total.
func (s *Store) SetFree(date time.Time, slot, region string, free bool) {
	s.mu.Lock()
	k := key(date, slot, region)
	if _, ok := s.free[k]; !ok {
		s.mu.Unlock()
		return
	}
	s.free[k] = free
	snap, fns := s.changedLocked()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// TryReserve flips a free slot to taken and reports whether it did. The check
// and the flip happen under one lock scope, so for any key at most one caller
// ever succeeds.
func (s *Store) TryReserve(date time.Time, slot, region string) bool {
	s.mu.Lock()
	k := key(date, slot, region)
	if !s.free[k] {
		s.mu.Unlock()
		return false
	}
	s.free[k] = false
	snap, fns := s.changedLocked()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	return true
}

// Subscribe registers a listener called with the full post-mutation snapshot
// after every change. The returned handle unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current availability map.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// DaySummary counts bookable slots on a day against the day's slot total.
func (s *Store) DaySummary(date time.Time) (available, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := date.Format(catalog.DateFormat)
	for _, slot := range s.cat.TimeSlots {
		for _, region := range s.cat.Regions {
			if s.free[Key{Date: d, Time: slot, Region: region.Name}] {
				available++
			}
		}
	}
	return available, s.cat.SlotsPerDay()
}

// TimeRow is one time slot's availability across all regions.
type TimeRow struct {
	Time    string
	Regions map[string]bool
}

// DayGrid returns the per-time-slot, per-region availability grid for a day,
// rows and columns in catalog order.
func (s *Store) DayGrid(date time.Time) []TimeRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := date.Format(catalog.DateFormat)
	rows := make([]TimeRow, 0, len(s.cat.TimeSlots))
	for _, slot := range s.cat.TimeSlots {
		row := TimeRow{Time: slot, Regions: make(map[string]bool, len(s.cat.Regions))}
		for _, region := range s.cat.Regions {
			row.Regions[region.Name] = s.free[Key{Date: d, Time: slot, Region: region.Name}]
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Store) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(s.free))
	for k, v := range s.free {
		snap[k] = v
	}
	return snap
}

// changedLocked captures the snapshot and listener set to deliver after the
// lock is released. The snapshot is taken under the same lock as the mutation,
// so every listener observes post-mutation state.
func (s *Store) changedLocked() (Snapshot, []func(Snapshot)) {
	if len(s.listeners) == 0 {
		return nil, nil
	}
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return snap, fns
}

func key(date time.Time, slot, region string) Key {
	return Key{Date: date.Format(catalog.DateFormat), Time: slot, Region: region}
}
