// Package compare turns pricing results into comparable rows, one per tariff
// option.
package compare

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raterudder/ratecompare/pkg/pricing"
	"github.com/raterudder/ratecompare/pkg/types"
)

var (
	priceCoefficient = decimal.NewFromInt(types.PriceCoefficient)
	feeScale         = decimal.NewFromInt(types.FeeScale)
)

// Summarize prices the points under the option and adds the subscription fee
// of the power class over the billing period.
//
// The subscription is charged for WholeMonthsBetween(start, end)+1 months, so
// partial first and last months each count as a full month.
func Summarize(points []types.ConsumptionPoint, option types.TariffOption, tables pricing.Tables, powerClass int, period types.BillingPeriod) (types.ComparisonRow, error) {
	if err := period.Validate(); err != nil {
		return types.ComparisonRow{}, err
	}
	res, err := pricing.ComputePrices(points, option, tables)
	if err != nil {
		return types.ComparisonRow{}, err
	}
	fee, ok := option.MonthlyFee(powerClass)
	if !ok {
		return types.ComparisonRow{}, fmt.Errorf("%w: %d kVA", types.ErrNoSubscriptionForPowerClass, powerClass)
	}

	months := int64(WholeMonthsBetween(period.Start, period.End) + 1)
	// DivRound rounds half away from zero, which is half-up for costs
	consumption := res.TotalCost.DivRound(priceCoefficient, 0).IntPart()
	subscription := decimal.NewFromInt(fee * months).DivRound(feeScale, 0).IntPart()

	return types.ComparisonRow{
		Provider:         option.Provider,
		OfferType:        option.OfferType,
		OptionKey:        option.OptionKey,
		Name:             option.Name,
		Link:             option.Link,
		ConsumptionCost:  consumption,
		SubscriptionCost: subscription,
		Total:            consumption + subscription,
	}, nil
}

// WholeMonthsBetween returns the number of complete months from start to end,
// evaluated in start's location. It is negative when end is before start. A
// start day past the end of end's month counts as that month's last day, so
// Jan 31 to Feb 28 is one month.
func WholeMonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return -WholeMonthsBetween(end, start)
	}
	end = end.In(start.Location())
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if months > 0 && beforeInMonth(end, start) {
		months--
	}
	return months
}

// beforeInMonth reports whether a's day and time of month precede b's, with
// b's day clamped to the length of a's month.
func beforeInMonth(a, b time.Time) bool {
	day := min(b.Day(), daysIn(a))
	if a.Day() != day {
		return a.Day() < day
	}
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	return ah*3600+am*60+as < bh*3600+bm*60+bs
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
