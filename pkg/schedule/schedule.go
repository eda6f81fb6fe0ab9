// Package schedule classifies half-hour readings into peak and off-peak slots.
package schedule

import (
	"fmt"
	"time"

	"github.com/raterudder/ratecompare/pkg/types"
)

// Resolver resolves slot kinds against one grid.
type Resolver struct {
	kinds map[int]types.SlotKind
}

// NewResolver indexes the grid by minute of day. The grid is not retained.
func NewResolver(grid types.ScheduleGrid) *Resolver {
	r := &Resolver{
		kinds: make(map[int]types.SlotKind, len(grid.Slots)),
	}
	for _, s := range grid.Slots {
		// first slot wins, like a linear scan of the grid would
		if _, ok := r.kinds[s.MinuteOfDay()]; !ok {
			r.kinds[s.MinuteOfDay()] = s.Kind
		}
	}
	return r
}

// SlotKind returns the kind of the slot ending at the instant's wall-clock
// hour and minute. There is no fallback: an instant that is not an end-slot
// of the grid returns types.ErrNoMatchingSlot.
func (r *Resolver) SlotKind(instant time.Time) (types.SlotKind, error) {
	h, m := instant.Hour(), instant.Minute()
	kind, ok := r.kinds[h*60+m]
	if !ok {
		return "", fmt.Errorf("%w: %02d:%02d", types.ErrNoMatchingSlot, h, m)
	}
	return kind, nil
}

// ResolveSlotKind resolves a single instant against the grid.
func ResolveSlotKind(instant time.Time, grid types.ScheduleGrid) (types.SlotKind, error) {
	return NewResolver(grid).SlotKind(instant)
}
