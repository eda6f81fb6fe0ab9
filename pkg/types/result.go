package types

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of price units per currency unit per kWh, so a
	// price of 2516 is 0.2516/kWh.
	PriceScale = 10000
	// EnergyScale is the number of Wh per kWh.
	EnergyScale = 1000
	// PriceCoefficient divides an engine total into currency units.
	PriceCoefficient = PriceScale * EnergyScale
	// FeeScale divides a subscription fee into currency units.
	FeeScale = 100
)

// Cost is the charge computed for one point. SlotKind is set for peak/off-peak
// prices and ColorCode for color-priced options.
type Cost struct {
	Amount    decimal.Decimal `json:"amount"`
	SlotKind  SlotKind        `json:"slotKind,omitempty"`
	ColorCode ColorCode       `json:"colorCode,omitempty"`
}

// PricedPoint is a consumption point with its computed cost.
type PricedPoint struct {
	ConsumptionPoint
	Cost Cost `json:"cost"`
}

// UnmarshalJSON decodes the point fields and the attached cost.
func (p *PricedPoint) UnmarshalJSON(data []byte) error {
	if err := p.ConsumptionPoint.UnmarshalJSON(data); err != nil {
		return err
	}
	var raw struct {
		Cost Cost `json:"cost"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Cost = raw.Cost
	return nil
}

// PricingResult is the cost of a consumption series under one option. TotalCost
// is in PriceCoefficient units of currency.
type PricingResult struct {
	Option    TariffRef       `json:"option"`
	Points    []PricedPoint   `json:"points"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// BillingPeriod is the date range consumption is compared over.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the period is set and not reversed.
func (p BillingPeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return errors.New("billing period start and end are required")
	}
	if p.End.Before(p.Start) {
		return errors.New("billing period ends before it starts")
	}
	return nil
}

// ComparisonRow is the comparable total of one option, in currency units.
type ComparisonRow struct {
	Provider         Provider `json:"provider"`
	OfferType        string   `json:"offerType"`
	OptionKey        string   `json:"optionKey"`
	Name             string   `json:"name"`
	Link             string   `json:"link,omitempty"`
	ConsumptionCost  int64    `json:"consumptionCost"`
	SubscriptionCost int64    `json:"subscriptionCost"`
	Total            int64    `json:"total"`
}

// Ref returns the identity of the row's option.
func (r ComparisonRow) Ref() TariffRef {
	return TariffRef{
		Provider:  r.Provider.ID,
		OfferType: r.OfferType,
		OptionKey: r.OptionKey,
	}
}
