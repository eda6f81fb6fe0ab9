package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider identifies an electricity supplier.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TariffRef identifies one tariff option of the catalog.
type TariffRef struct {
	Provider  string `json:"provider"`
	OfferType string `json:"offerType"`
	OptionKey string `json:"optionKey"`
}

func (r TariffRef) String() string {
	return r.Provider + "/" + r.OfferType + "/" + r.OptionKey
}

// Less orders refs by provider, offer type and then option key.
func (r TariffRef) Less(o TariffRef) bool {
	if r.Provider != o.Provider {
		return r.Provider < o.Provider
	}
	if r.OfferType != o.OfferType {
		return r.OfferType < o.OfferType
	}
	return r.OptionKey < o.OptionKey
}

// ColorCode is the color assigned to a day by the dynamic-pricing calendar.
type ColorCode string

const (
	ColorRed   ColorCode = "RED"
	ColorWhite ColorCode = "WHITE"
	ColorBlue  ColorCode = "BLUE"
)

// Colors lists every valid color.
var Colors = []ColorCode{ColorBlue, ColorWhite, ColorRed}

// Valid reports whether c is a known color.
func (c ColorCode) Valid() bool {
	switch c {
	case ColorRed, ColorWhite, ColorBlue:
		return true
	}
	return false
}

// Subscription is the monthly fee, in cents, for a power class in kVA.
type Subscription struct {
	PowerClass int   `json:"powerClass"`
	MonthlyFee int64 `json:"monthlyFee"`
}

// TariffOption is one concrete (provider, offer, option) combination. Prices
// are integers in PriceScale units per kWh.
type TariffOption struct {
	Provider              Provider       `json:"provider"`
	OfferType             string         `json:"offerType"`
	OptionKey             string         `json:"optionKey"`
	Name                  string         `json:"name"`
	Link                  string         `json:"link,omitempty"`
	OverridingScheduleKey string         `json:"overridingScheduleKey,omitempty"`
	Pricing               Pricing        `json:"-"`
	Subscriptions         []Subscription `json:"subscriptions"`
}

// Ref returns the identity of the option.
func (o TariffOption) Ref() TariffRef {
	return TariffRef{
		Provider:  o.Provider.ID,
		OfferType: o.OfferType,
		OptionKey: o.OptionKey,
	}
}

// MonthlyFee returns the subscription fee for the power class.
func (o TariffOption) MonthlyFee(powerClass int) (int64, bool) {
	for _, s := range o.Subscriptions {
		if s.PowerClass == powerClass {
			return s.MonthlyFee, true
		}
	}
	return 0, false
}

type tariffOptionJSON struct {
	Provider              Provider               `json:"provider"`
	OfferType             string                 `json:"offerType"`
	OptionKey             string                 `json:"optionKey"`
	Name                  string                 `json:"name"`
	Link                  string                 `json:"link,omitempty"`
	OverridingScheduleKey string                 `json:"overridingScheduleKey,omitempty"`
	Mappings              []RateMapping          `json:"mappings,omitempty"`
	ColorMappings         []CalendarColorMapping `json:"colorMappings,omitempty"`
	Subscriptions         []Subscription         `json:"subscriptions"`
}

// UnmarshalJSON decodes an option. Exactly one of "mappings" and
// "colorMappings" must be present.
func (o *TariffOption) UnmarshalJSON(data []byte) error {
	var raw tariffOptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Mappings != nil && raw.ColorMappings != nil:
		return fmt.Errorf("option %s: both mappings and colorMappings are set", raw.OptionKey)
	case raw.Mappings != nil:
		o.Pricing = RatePricing{Mappings: raw.Mappings}
	case raw.ColorMappings != nil:
		o.Pricing = ColorPricing{Mappings: raw.ColorMappings}
	default:
		return fmt.Errorf("option %s: one of mappings or colorMappings is required", raw.OptionKey)
	}
	o.Provider = raw.Provider
	o.OfferType = raw.OfferType
	o.OptionKey = raw.OptionKey
	o.Name = raw.Name
	o.Link = raw.Link
	o.OverridingScheduleKey = raw.OverridingScheduleKey
	o.Subscriptions = raw.Subscriptions
	return nil
}

// MarshalJSON encodes the option in the same shape UnmarshalJSON accepts.
func (o TariffOption) MarshalJSON() ([]byte, error) {
	raw := tariffOptionJSON{
		Provider:              o.Provider,
		OfferType:             o.OfferType,
		OptionKey:             o.OptionKey,
		Name:                  o.Name,
		Link:                  o.Link,
		OverridingScheduleKey: o.OverridingScheduleKey,
		Subscriptions:         o.Subscriptions,
	}
	switch p := o.Pricing.(type) {
	case RatePricing:
		raw.Mappings = p.Mappings
	case ColorPricing:
		raw.ColorMappings = p.Mappings
	default:
		return nil, fmt.Errorf("option %s: unknown pricing %T", o.OptionKey, o.Pricing)
	}
	return json.Marshal(raw)
}

// Pricing is the pricing strategy of an option: RatePricing or ColorPricing.
type Pricing interface {
	isPricing()
}

// RatePricing prices a point with the first RateMapping applicable to its date.
type RatePricing struct {
	Mappings []RateMapping
}

// ColorPricing prices a point by the color of its color day.
type ColorPricing struct {
	Mappings []CalendarColorMapping
}

func (RatePricing) isPricing()  {}
func (ColorPricing) isPricing() {}

// Mapping returns the prices for the color.
func (p ColorPricing) Mapping(c ColorCode) (CalendarColorMapping, bool) {
	for _, m := range p.Mappings {
		if m.ColorCode == c {
			return m, true
		}
	}
	return CalendarColorMapping{}, false
}

// Rate is the price carried by a RateMapping: FlatRate or PeakOffPeakRate.
type Rate interface {
	isRate()
}

// FlatRate applies one price to every slot of the day.
type FlatRate struct {
	Price int64
}

// PeakOffPeakRate prices slots by their kind in the effective grid.
type PeakOffPeakRate struct {
	Peak    int64 `json:"peak"`
	OffPeak int64 `json:"offPeak"`
}

func (FlatRate) isRate()        {}
func (PeakOffPeakRate) isRate() {}

// Price returns the price for the slot kind.
func (r PeakOffPeakRate) Price(kind SlotKind) int64 {
	if kind == SlotOffPeak {
		return r.OffPeak
	}
	return r.Peak
}

// RateMapping applies its rate on the listed weekdays and, optionally, on
// public holidays.
type RateMapping struct {
	ApplicableDaysOfWeek []time.Weekday
	IncludeHolidays      bool
	Rate                 Rate
}

type rateMappingJSON struct {
	ApplicableDaysOfWeek []time.Weekday   `json:"applicableDaysOfWeek"`
	IncludeHolidays      bool             `json:"includeHolidays,omitempty"`
	Price                *int64           `json:"price,omitempty"`
	PeakOffPeakPrices    *PeakOffPeakRate `json:"peakOffPeakPrices,omitempty"`
}

// UnmarshalJSON decodes a mapping. Exactly one of "price" and
// "peakOffPeakPrices" must be present.
func (m *RateMapping) UnmarshalJSON(data []byte) error {
	var raw rateMappingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Price != nil && raw.PeakOffPeakPrices != nil:
		return errors.New("rate mapping: both price and peakOffPeakPrices are set")
	case raw.Price != nil:
		m.Rate = FlatRate{Price: *raw.Price}
	case raw.PeakOffPeakPrices != nil:
		m.Rate = *raw.PeakOffPeakPrices
	default:
		return errors.New("rate mapping: one of price or peakOffPeakPrices is required")
	}
	for _, d := range raw.ApplicableDaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("rate mapping: invalid weekday %d", d)
		}
	}
	m.ApplicableDaysOfWeek = raw.ApplicableDaysOfWeek
	m.IncludeHolidays = raw.IncludeHolidays
	return nil
}

// MarshalJSON encodes the mapping in the same shape UnmarshalJSON accepts.
func (m RateMapping) MarshalJSON() ([]byte, error) {
	raw := rateMappingJSON{
		ApplicableDaysOfWeek: m.ApplicableDaysOfWeek,
		IncludeHolidays:      m.IncludeHolidays,
	}
	switch r := m.Rate.(type) {
	case FlatRate:
		raw.Price = &r.Price
	case PeakOffPeakRate:
		raw.PeakOffPeakPrices = &r
	default:
		return nil, fmt.Errorf("rate mapping: unknown rate %T", m.Rate)
	}
	return json.Marshal(raw)
}

// AppliesOn reports whether the weekday is one of the mapping's days.
func (m RateMapping) AppliesOn(d time.Weekday) bool {
	for _, day := range m.ApplicableDaysOfWeek {
		if day == d {
			return true
		}
	}
	return false
}

// CalendarColorMapping holds the prices of one color.
type CalendarColorMapping struct {
	ColorCode    ColorCode `json:"colorCode"`
	PeakPrice    int64     `json:"peakPrice"`
	OffPeakPrice int64     `json:"offPeakPrice"`
}

// Price returns the price for the slot kind.
func (m CalendarColorMapping) Price(kind SlotKind) int64 {
	if kind == SlotOffPeak {
		return m.OffPeakPrice
	}
	return m.PeakPrice
}
