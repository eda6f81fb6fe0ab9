package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ColorDay is one entry of the published color calendar. Period names the
// season the day belongs to, for example "2023-2024".
type ColorDay struct {
	Date      string    `json:"date"`
	ColorCode ColorCode `json:"colorCode"`
	Period    string    `json:"period,omitempty"`
}

// ColorCalendar maps a yyyy-MM-dd date key to the color of that day.
type ColorCalendar map[string]ColorCode

// Color returns the color of the date key.
func (c ColorCalendar) Color(dateKey string) (ColorCode, bool) {
	code, ok := c[dateKey]
	return code, ok
}

// UnmarshalJSON decodes a [{date, colorCode, period}] list.
func (c *ColorCalendar) UnmarshalJSON(data []byte) error {
	var days []ColorDay
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	cal := make(ColorCalendar, len(days))
	for _, d := range days {
		if _, err := time.Parse(DateKeyLayout, d.Date); err != nil {
			return fmt.Errorf("color calendar: invalid date %q: %w", d.Date, err)
		}
		if !d.ColorCode.Valid() {
			return fmt.Errorf("color calendar: invalid color %q for %s", d.ColorCode, d.Date)
		}
		if prev, ok := cal[d.Date]; ok && prev != d.ColorCode {
			return fmt.Errorf("color calendar: conflicting colors for %s", d.Date)
		}
		cal[d.Date] = d.ColorCode
	}
	*c = cal
	return nil
}

// Holiday is one public holiday.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

// HolidayCalendar is the set of public holiday date keys.
type HolidayCalendar map[string]bool

// IsHoliday reports whether the date key is a public holiday.
func (h HolidayCalendar) IsHoliday(dateKey string) bool {
	return h[dateKey]
}

// UnmarshalJSON decodes either a [{date, name}] list or a list of date keys.
func (h *HolidayCalendar) UnmarshalJSON(data []byte) error {
	var holidays []Holiday
	if err := json.Unmarshal(data, &holidays); err != nil {
		var dates []string
		if err := json.Unmarshal(data, &dates); err != nil {
			return err
		}
		holidays = make([]Holiday, len(dates))
		for i, d := range dates {
			holidays[i] = Holiday{Date: d}
		}
	}
	cal := make(HolidayCalendar, len(holidays))
	for _, d := range holidays {
		if _, err := time.Parse(DateKeyLayout, d.Date); err != nil {
			return fmt.Errorf("holiday calendar: invalid date %q: %w", d.Date, err)
		}
		cal[d.Date] = true
	}
	*h = cal
	return nil
}
