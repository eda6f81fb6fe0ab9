// Package calendar decides which days rate mappings and calendar colors
// apply to.
package calendar

import (
	"fmt"
	"time"

	"github.com/raterudder/ratecompare/pkg/types"
)

// colorDayStartHour is the hour a color day begins. A color day runs from
// 06:00 to 06:00 the next morning.
const colorDayStartHour = 6

// DateKey formats the calendar date of t, in t's location, as yyyy-MM-dd.
func DateKey(t time.Time) string {
	return t.Format(types.DateKeyLayout)
}

// IsMappingApplicable reports whether the mapping applies to the point ending
// at instant. The weekday is taken from the instant's own date. Holidays are
// looked up one minute before the instant so a slot ending at 00:00 counts
// for the day it covers.
func IsMappingApplicable(mapping types.RateMapping, instant time.Time, holidays types.HolidayCalendar) bool {
	if mapping.AppliesOn(instant.Weekday()) {
		return true
	}
	if mapping.IncludeHolidays {
		return holidays.IsHoliday(DateKey(instant.Add(-time.Minute)))
	}
	return false
}

// ColorDay is the color day a point belongs to.
type ColorDay struct {
	Color   types.ColorCode
	DateKey string
}

// ResolveColorDay returns the color day of the point ending at instant.
// Points ending before 06:00, or exactly at 06:00, belong to the previous
// calendar day.
func ResolveColorDay(instant time.Time, colors types.ColorCalendar) (ColorDay, error) {
	day := instant
	if h := instant.Hour(); h < colorDayStartHour || (h == colorDayStartHour && instant.Minute() == 0) {
		// AddDate keeps the wall clock across DST changes
		day = instant.AddDate(0, 0, -1)
	}
	key := DateKey(day)
	color, ok := colors.Color(key)
	if !ok {
		return ColorDay{}, fmt.Errorf("%w: %s", types.ErrNoColorDataForDate, key)
	}
	return ColorDay{Color: color, DateKey: key}, nil
}
