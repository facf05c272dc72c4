package catalog

import "time"

// DateFormat is the canonical day key used throughout the engine.
const DateFormat = "2006-01-02"

// Region is a named seating area with its capacity and seating policy.
type Region struct {
	Name            string `mapstructure:"name"`
	MaxPartySize    int    `mapstructure:"max_party_size"`
	ChildrenAllowed bool   `mapstructure:"children_allowed"`
	SmokingAllowed  bool   `mapstructure:"smoking_allowed"`
}

// Window is an inclusive range of calendar days open for booking.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days enumerates every day in the window, earliest first.
func (w Window) Days() []time.Time {
	var out []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (w Window) Contains(d time.Time) bool {
	day, _ := time.Parse(DateFormat, d.Format(DateFormat))
	return !day.Before(w.Start) && !day.After(w.End)
}

// Catalog is the fixed booking universe: seating regions, time slot labels and
// the bookable date window. Immutable after construction.
type Catalog struct {
	Regions   []Region
	TimeSlots []string
	Window    Window
}

// Default returns the restaurant's stock catalog.
func Default() Catalog {
	return Catalog{
		Regions: []Region{
			{Name: "Main Hall", MaxPartySize: 12, ChildrenAllowed: true, SmokingAllowed: false},
			{Name: "Bar", MaxPartySize: 4, ChildrenAllowed: false, SmokingAllowed: true},
			{Name: "Riverside", MaxPartySize: 8, ChildrenAllowed: true, SmokingAllowed: true},
			{Name: "Riverside (smoking)", MaxPartySize: 6, ChildrenAllowed: false, SmokingAllowed: true},
		},
		TimeSlots: []string{
			"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00",
		},
		Window: Window{
			Start: time.Date(2024, 7, 24, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (c Catalog) RegionByName(name string) (Region, bool) {
	for _, r := range c.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

func (c Catalog) HasTimeSlot(slot string) bool {
	for _, t := range c.TimeSlots {
		if t == slot {
			return true
		}
	}
	return false
}

// SlotsPerDay is the number of bookable (time, region) pairs on a single day.
func (c Catalog) SlotsPerDay() int {
	return len(c.TimeSlots) * len(c.Regions)
}
