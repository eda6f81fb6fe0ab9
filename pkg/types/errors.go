package types

import "errors"

// Pricing errors are fatal to the tariff option being computed but never to a
// whole comparison.
var (
	// ErrNoApplicableMapping means no rate mapping covers the date of a point.
	ErrNoApplicableMapping = errors.New("no applicable rate mapping")
	// ErrNoMatchingSlot means a point's hour:minute is not an end-slot of the grid.
	ErrNoMatchingSlot = errors.New("no matching schedule slot")
	// ErrNoColorDataForDate means the color calendar has no entry for a color day.
	ErrNoColorDataForDate = errors.New("no color data for date")
	// ErrMissingOverrideGrid means an option's override grid is unset or unknown.
	ErrMissingOverrideGrid = errors.New("missing override schedule grid")
	// ErrNoColorMapping means a color option has no prices for a resolved color.
	ErrNoColorMapping = errors.New("no mapping for color")
	// ErrNoSubscriptionForPowerClass means the option has no fee for the power class.
	ErrNoSubscriptionForPowerClass = errors.New("no subscription for power class")
)
