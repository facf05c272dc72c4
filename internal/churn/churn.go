package churn

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/catalog"
)

// Simulator randomly perturbs slot availability in the background, standing in
// for other diners booking and cancelling while the visitor browses. Off by
// default; the server enables it on request.
type Simulator struct {
	Store       *availability.Store
	Interval    time.Duration
	KeysPerTick int
	Rand        *rand.Rand
}

func (s *Simulator) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick()
		}
	}
}

// Tick picks KeysPerTick random slots and flips each with probability 0.5.
func (s *Simulator) Tick() {
	snap := s.Store.Snapshot()
	keys := make([]availability.Key, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort so a seeded rng replays the same
	// perturbations.
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Region < b.Region
	})
	s.Rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	n := s.KeysPerTick
	if n > len(keys) {
		n = len(keys)
	}
	for _, k := range keys[:n] {
		if s.Rand.Float64() <= 0.5 {
			continue
		}
		day, err := time.Parse(catalog.DateFormat, k.Date)
		if err != nil {
			log.Printf("churn: bad date key %q: %v", k.Date, err)
			continue
		}
		s.Store.SetFree(day, k.Time, k.Region, !snap[k])
	}
}
