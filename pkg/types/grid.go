package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SlotsPerDay is the number of half-hour slots in a grid.
const SlotsPerDay = 48

// SlotKind tags a half-hour slot as peak or off-peak.
type SlotKind string

const (
	SlotPeak    SlotKind = "peak"
	SlotOffPeak SlotKind = "offPeak"
)

// Valid reports whether k is a known slot kind.
func (k SlotKind) Valid() bool {
	return k == SlotPeak || k == SlotOffPeak
}

// Slot is one half-hour of a grid, keyed by the hour and minute its
// interval ends at. The slot ending at 00:00 covers 23:30 to 00:00.
type Slot struct {
	Hour   int      `json:"hour"`
	Minute int      `json:"minute"`
	Kind   SlotKind `json:"kind"`
}

// MinuteOfDay returns hour*60+minute.
func (s Slot) MinuteOfDay() int {
	return s.Hour*60 + s.Minute
}

// ScheduleGrid tags the 48 half-hour slots of a day.
type ScheduleGrid struct {
	Slots []Slot `json:"slots"`
}

// UnmarshalJSON accepts either {"slots": [...]} or a bare slot list.
func (g *ScheduleGrid) UnmarshalJSON(data []byte) error {
	var slots []Slot
	if err := json.Unmarshal(data, &slots); err == nil {
		g.Slots = slots
		return nil
	}
	var raw struct {
		Slots []Slot `json:"slots"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Slots = raw.Slots
	return nil
}

// Validate checks the grid has exactly one slot for each of the 48
// half-hour end times 00:00, 00:30 ... 23:30.
func (g ScheduleGrid) Validate() error {
	var errs []error
	seen := make(map[int]bool, SlotsPerDay)
	for _, s := range g.Slots {
		if s.Hour < 0 || s.Hour > 23 || (s.Minute != 0 && s.Minute != 30) {
			errs = append(errs, fmt.Errorf("slot %02d:%02d is not a half-hour end time", s.Hour, s.Minute))
			continue
		}
		if !s.Kind.Valid() {
			errs = append(errs, fmt.Errorf("slot %02d:%02d has invalid kind %q", s.Hour, s.Minute, s.Kind))
		}
		if seen[s.MinuteOfDay()] {
			errs = append(errs, fmt.Errorf("slot %02d:%02d is duplicated", s.Hour, s.Minute))
		}
		seen[s.MinuteOfDay()] = true
	}
	if len(seen) != SlotsPerDay {
		errs = append(errs, fmt.Errorf("grid covers %d of %d slots", len(seen), SlotsPerDay))
	}
	return errors.Join(errs...)
}

// NewScheduleGrid builds a grid with every slot peak except the off-peak
// ranges, each given as wall-clock [startMinute, endMinute). A range may wrap
// past midnight, so {22 * 60, 6 * 60} is 22:00 to 06:00.
func NewScheduleGrid(offPeak ...[2]int) ScheduleGrid {
	g := ScheduleGrid{Slots: make([]Slot, 0, SlotsPerDay)}
	for m := 0; m < 24*60; m += 30 {
		// the slot ending at m started 30 minutes earlier
		begin := (m + 24*60 - 30) % (24 * 60)
		kind := SlotPeak
		for _, r := range offPeak {
			if inRange(begin, r[0], r[1]) {
				kind = SlotOffPeak
				break
			}
		}
		g.Slots = append(g.Slots, Slot{Hour: m / 60, Minute: m % 60, Kind: kind})
	}
	return g
}

func inRange(m, start, end int) bool {
	if start <= end {
		return m >= start && m < end
	}
	return m >= start || m < end
}
