// Package pricing computes what a consumption series costs under a tariff
// option.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raterudder/ratecompare/pkg/calendar"
	"github.com/raterudder/ratecompare/pkg/schedule"
	"github.com/raterudder/ratecompare/pkg/types"
)

// half converts a stored reading into the energy of its half-hour slot. It
// multiplies by exactly 0.5 so no division rounding is involved.
var half = decimal.New(5, -1)

// Tables holds the read-only reference data a computation resolves prices
// against. None of it is modified by the engine.
type Tables struct {
	// UserGrid is the peak/off-peak grid the user is configured with.
	UserGrid types.ScheduleGrid
	// Overrides are named grids options can force instead of UserGrid.
	Overrides map[string]types.ScheduleGrid
	Colors    types.ColorCalendar
	Holidays  types.HolidayCalendar
}

// PointError reports the point a computation failed on. It unwraps to one of
// the pricing errors in pkg/types.
type PointError struct {
	Index      int
	RecordedAt time.Time
	Err        error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %d (%s): %v", e.Index, e.RecordedAt.Format(time.RFC3339), e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}

// ComputePrices prices every point, in input order, under the option. Any
// point that cannot be priced aborts the computation and no partial result
// is returned.
func ComputePrices(points []types.ConsumptionPoint, option types.TariffOption, tables Tables) (types.PricingResult, error) {
	var price func(types.ConsumptionPoint) (types.Cost, error)
	switch p := option.Pricing.(type) {
	case types.RatePricing:
		grid, err := effectiveGrid(option, tables)
		if err != nil {
			return types.PricingResult{}, err
		}
		price = ratePricer(p, schedule.NewResolver(grid), tables.Holidays)
	case types.ColorPricing:
		if option.OverridingScheduleKey == "" {
			return types.PricingResult{}, fmt.Errorf("%w: color option %s has no override key", types.ErrMissingOverrideGrid, option.Ref())
		}
		grid, err := effectiveGrid(option, tables)
		if err != nil {
			return types.PricingResult{}, err
		}
		price = colorPricer(p, schedule.NewResolver(grid), tables.Colors)
	default:
		return types.PricingResult{}, fmt.Errorf("option %s has unknown pricing %T", option.Ref(), option.Pricing)
	}

	res := types.PricingResult{
		Option:    option.Ref(),
		Points:    make([]types.PricedPoint, 0, len(points)),
		TotalCost: decimal.Zero,
	}
	for i, point := range points {
		cost, err := price(point)
		if err != nil {
			return types.PricingResult{}, &PointError{Index: i, RecordedAt: point.RecordedAt, Err: err}
		}
		res.TotalCost = res.TotalCost.Add(cost.Amount)
		res.Points = append(res.Points, types.PricedPoint{
			ConsumptionPoint: point,
			Cost:             cost,
		})
	}
	return res, nil
}

// effectiveGrid returns the option's override grid when it names one, and the
// user grid otherwise.
func effectiveGrid(option types.TariffOption, tables Tables) (types.ScheduleGrid, error) {
	if option.OverridingScheduleKey == "" {
		return tables.UserGrid, nil
	}
	grid, ok := tables.Overrides[option.OverridingScheduleKey]
	if !ok {
		return types.ScheduleGrid{}, fmt.Errorf("%w: %q", types.ErrMissingOverrideGrid, option.OverridingScheduleKey)
	}
	return grid, nil
}

func amount(price int64, value decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(price).Mul(value).Mul(half)
}

func ratePricer(p types.RatePricing, slots *schedule.Resolver, holidays types.HolidayCalendar) func(types.ConsumptionPoint) (types.Cost, error) {
	return func(point types.ConsumptionPoint) (types.Cost, error) {
		for _, m := range p.Mappings {
			if !calendar.IsMappingApplicable(m, point.RecordedAt, holidays) {
				continue
			}
			switch r := m.Rate.(type) {
			case types.FlatRate:
				return types.Cost{Amount: amount(r.Price, point.Value)}, nil
			case types.PeakOffPeakRate:
				kind, err := slots.SlotKind(point.RecordedAt)
				if err != nil {
					return types.Cost{}, err
				}
				return types.Cost{
					Amount:   amount(r.Price(kind), point.Value),
					SlotKind: kind,
				}, nil
			default:
				return types.Cost{}, fmt.Errorf("unknown rate %T", m.Rate)
			}
		}
		return types.Cost{}, fmt.Errorf("%w: %s", types.ErrNoApplicableMapping, calendar.DateKey(point.RecordedAt))
	}
}

func colorPricer(p types.ColorPricing, slots *schedule.Resolver, colors types.ColorCalendar) func(types.ConsumptionPoint) (types.Cost, error) {
	return func(point types.ConsumptionPoint) (types.Cost, error) {
		kind, err := slots.SlotKind(point.RecordedAt)
		if err != nil {
			return types.Cost{}, err
		}
		day, err := calendar.ResolveColorDay(point.RecordedAt, colors)
		if err != nil {
			return types.Cost{}, err
		}
		m, ok := p.Mapping(day.Color)
		if !ok {
			return types.Cost{}, fmt.Errorf("%w: %s on %s", types.ErrNoColorMapping, day.Color, day.DateKey)
		}
		return types.Cost{
			Amount:    amount(m.Price(kind), point.Value),
			SlotKind:  kind,
			ColorCode: day.Color,
		}, nil
	}
}
