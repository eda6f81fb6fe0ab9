package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateKeyLayout formats calendar keys for holiday and color lookups.
const DateKeyLayout = "2006-01-02"

// zonelessLayouts are tried, in order, for timestamps carrying no offset. A
// bare date is midnight.
var zonelessLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateKeyLayout,
}

var (
	// Meter exports use French wall-clock time.
	parisLocation = func() *time.Location {
		loc, err := time.LoadLocation("Europe/Paris")
		if err != nil {
			panic(fmt.Errorf("failed to load paris location: %w", err))
		}
		return loc
	}()
)

// ParisLocation returns the location zone-less timestamps are interpreted in.
func ParisLocation() *time.Location {
	return parisLocation
}

// ConsumptionPoint is one half-hourly reading. RecordedAt is the end of the
// 30-minute interval the reading covers.
type ConsumptionPoint struct {
	RecordedAt time.Time       `json:"recordedAt"`
	Value      decimal.Decimal `json:"value"`
}

// ParseRecordedAt parses an RFC 3339 timestamp or a zone-less one
// ("2006-01-02 15:04:05", "2006-01-02T15:04:05" or "2006-01-02"). The result
// is always in loc, Europe/Paris when nil, since grids and calendars are
// keyed by that wall clock.
func ParseRecordedAt(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = parisLocation
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid recordedAt %q", s)
}

// UnmarshalJSON decodes a point, accepting either timestamp layout and a
// numeric or string value.
func (p *ConsumptionPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		RecordedAt string          `json:"recordedAt"`
		Value      decimal.Decimal `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseRecordedAt(raw.RecordedAt, parisLocation)
	if err != nil {
		return err
	}
	p.RecordedAt = t
	p.Value = raw.Value
	return nil
}
