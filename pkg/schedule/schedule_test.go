package schedule

import (
	"testing"
	"time"

	"github.com/raterudder/ratecompare/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSlotKind(t *testing.T) {
	// off-peak from 02:00 to 07:00 with the slot ending at 02:30 set back to peak
	grid := types.NewScheduleGrid([2]int{2 * 60, 7 * 60})
	for i, s := range grid.Slots {
		if s.Hour == 2 && s.Minute == 30 {
			grid.Slots[i].Kind = types.SlotPeak
		}
	}
	require.NoError(t, grid.Validate())

	day := time.Date(2023, 3, 14, 0, 0, 0, 0, types.ParisLocation())

	t.Run("boundary", func(t *testing.T) {
		kind, err := ResolveSlotKind(day.Add(2*time.Hour+30*time.Minute), grid)
		require.NoError(t, err)
		assert.Equal(t, types.SlotPeak, kind)

		kind, err = ResolveSlotKind(day.Add(3*time.Hour), grid)
		require.NoError(t, err)
		assert.Equal(t, types.SlotOffPeak, kind)
	})

	t.Run("every slot", func(t *testing.T) {
		r := NewResolver(grid)
		for _, s := range grid.Slots {
			instant := day.Add(time.Duration(s.MinuteOfDay()) * time.Minute)
			kind, err := r.SlotKind(instant)
			require.NoError(t, err, "slot %02d:%02d", s.Hour, s.Minute)
			assert.Equal(t, s.Kind, kind, "slot %02d:%02d", s.Hour, s.Minute)

			// the neighbouring slots resolve to their own kind, not this one
			next := instant.Add(30 * time.Minute)
			nextKind, err := r.SlotKind(next)
			require.NoError(t, err)
			assert.Equal(t, kindAt(grid, next), nextKind)
		}
	})

	t.Run("wall clock of the instant", func(t *testing.T) {
		// 02:00 UTC is 03:00 in Paris in winter
		utc := time.Date(2023, 1, 10, 2, 0, 0, 0, time.UTC)
		kind, err := ResolveSlotKind(utc, grid)
		require.NoError(t, err)
		assert.Equal(t, types.SlotPeak, kind)

		kind, err = ResolveSlotKind(utc.In(types.ParisLocation()), grid)
		require.NoError(t, err)
		assert.Equal(t, types.SlotOffPeak, kind)
	})

	t.Run("no matching slot", func(t *testing.T) {
		_, err := ResolveSlotKind(day.Add(3*time.Hour+15*time.Minute), grid)
		assert.ErrorIs(t, err, types.ErrNoMatchingSlot)
		assert.ErrorContains(t, err, "03:15")
	})

	t.Run("incomplete grid", func(t *testing.T) {
		short := types.ScheduleGrid{Slots: grid.Slots[:47]}
		_, err := ResolveSlotKind(day.Add(23*time.Hour+30*time.Minute), short)
		assert.ErrorIs(t, err, types.ErrNoMatchingSlot)
	})
}

func kindAt(grid types.ScheduleGrid, t time.Time) types.SlotKind {
	for _, s := range grid.Slots {
		if s.Hour == t.Hour() && s.Minute == t.Minute() {
			return s.Kind
		}
	}
	return ""
}
