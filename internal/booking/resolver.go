package booking

import (
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/catalog"
)

// Resolver answers read-only eligibility questions against the availability
// store. It never mutates.
type Resolver struct {
	Catalog catalog.Catalog
	Store   *availability.Store
}

// EligibleRegions returns, in catalog order, the regions that can seat the
// party and are free at (date, slot). A region qualifies when its capacity
// covers the party, its policy admits children/smoking if requested, and the
// slot is free.
func (r Resolver) EligibleRegions(date time.Time, slot string, partySize int, hasChildren, wantsSmoking bool) []catalog.Region {
	var out []catalog.Region
	for _, reg := range r.Catalog.Regions {
		if reg.MaxPartySize < partySize {
			continue
		}
		if hasChildren && !reg.ChildrenAllowed {
			continue
		}
		if wantsSmoking && !reg.SmokingAllowed {
			continue
		}
		if !r.Store.IsFree(date, slot, reg.Name) {
			continue
		}
		out = append(out, reg)
	}
	return out
}

// EligibleTimeSlots returns the time slots, in catalog order, at which the
// region is free on the given day. Availability only; party size and seating
// preferences do not apply to time slot filtering.
func (r Resolver) EligibleTimeSlots(date time.Time, region string) []string {
	var out []string
	for _, slot := range r.Catalog.TimeSlots {
		if r.Store.IsFree(date, slot, region) {
			out = append(out, slot)
		}
	}
	return out
}

// Draft is a partially filled reservation. Zero values mark absent fields:
// a zero Date, empty Time or Region, and PartySize 0.
type Draft struct {
	Date         time.Time
	Time         string
	Region       string
	PartySize    int
	HasChildren  bool
	WantsSmoking bool
}

// Alternatives are substitute choices offered when the visitor's current
// selection is not bookable.
type Alternatives struct {
	Dates   []time.Time
	Times   []string
	Regions []catalog.Region
}

// Alternatives computes substitute dates, times and regions for a draft.
// Each branch needs its inputs present, otherwise it stays empty:
//   - Times needs Date and Region.
//   - Regions needs Date, Time and PartySize.
//   - Dates needs Time and Region, and scans the whole window on availability
//     alone. Party size and preferences are not consulted for date
//     suggestions, matching long-standing behavior the form depends on.
func (r Resolver) Alternatives(d Draft) Alternatives {
	var alt Alternatives
	if !d.Date.IsZero() && d.Region != "" {
		alt.Times = r.EligibleTimeSlots(d.Date, d.Region)
	}
	if !d.Date.IsZero() && d.Time != "" && d.PartySize > 0 {
		alt.Regions = r.EligibleRegions(d.Date, d.Time, d.PartySize, d.HasChildren, d.WantsSmoking)
	}
	if d.Time != "" && d.Region != "" {
		for _, day := range r.Catalog.Window.Days() {
			if r.Store.IsFree(day, d.Time, d.Region) {
				alt.Dates = append(alt.Dates, day)
			}
		}
	}
	return alt
}
