package compare

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raterudder/ratecompare/pkg/pricing"
	"github.com/raterudder/ratecompare/pkg/types"
)

var allDays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

func paris(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, types.ParisLocation())
}

func flatOption(key string, price, fee int64) types.TariffOption {
	return types.TariffOption{
		Provider:  types.Provider{ID: "edf", Name: "EDF"},
		OfferType: "BASE",
		OptionKey: key,
		Name:      "Tarif Bleu " + key,
		Link:      "https://example.com/" + key,
		Pricing: types.RatePricing{Mappings: []types.RateMapping{
			{ApplicableDaysOfWeek: allDays, Rate: types.FlatRate{Price: price}},
		}},
		Subscriptions: []types.Subscription{{PowerClass: 6, MonthlyFee: fee}},
	}
}

// series returns n half-hourly points of value W starting at the slot ending
// 00:30 on 2023-01-01.
func series(n int, value int64) []types.ConsumptionPoint {
	start := paris(2023, 1, 1, 0, 30)
	points := make([]types.ConsumptionPoint, n)
	for i := range points {
		points[i] = types.ConsumptionPoint{
			RecordedAt: start.Add(time.Duration(i) * 30 * time.Minute),
			Value:      decimal.NewFromInt(value),
		}
	}
	return points
}

func TestSummarize(t *testing.T) {
	period := types.BillingPeriod{
		Start: paris(2023, 1, 1, 0, 0),
		End:   paris(2023, 3, 1, 0, 0),
	}

	t.Run("end to end", func(t *testing.T) {
		option := flatOption("A", 2516, 1585)
		// 100 * 2516 * 1000 / 2 = 125800000, 12.58 after the coefficient
		row, err := Summarize(series(100, 1000), option, pricing.Tables{}, 6, period)
		require.NoError(t, err)
		assert.Equal(t, int64(13), row.ConsumptionCost)
		// round(1585 * 3 / 100) = round(47.55)
		assert.Equal(t, int64(48), row.SubscriptionCost)
		assert.Equal(t, int64(61), row.Total)
		assert.Equal(t, option.Provider, row.Provider)
		assert.Equal(t, "BASE", row.OfferType)
		assert.Equal(t, "A", row.OptionKey)
		assert.Equal(t, option.Name, row.Name)
		assert.Equal(t, option.Link, row.Link)
		assert.Equal(t, option.Ref(), row.Ref())
	})

	t.Run("half rounds up", func(t *testing.T) {
		// 2 points * 5 * 1000000 / 2 = 5000000, exactly 0.5
		row, err := Summarize(series(2, 1000000), flatOption("A", 5, 50), pricing.Tables{}, 6, types.BillingPeriod{
			Start: paris(2023, 1, 1, 0, 0),
			End:   paris(2023, 1, 20, 0, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), row.ConsumptionCost)
		assert.Equal(t, int64(1), row.SubscriptionCost)
		assert.Equal(t, int64(2), row.Total)
	})

	t.Run("no subscription", func(t *testing.T) {
		_, err := Summarize(series(2, 10), flatOption("A", 2516, 1585), pricing.Tables{}, 9, period)
		assert.ErrorIs(t, err, types.ErrNoSubscriptionForPowerClass)
		assert.ErrorContains(t, err, "9 kVA")
	})

	t.Run("pricing error", func(t *testing.T) {
		option := flatOption("A", 2516, 1585)
		option.Pricing = types.RatePricing{Mappings: []types.RateMapping{
			{ApplicableDaysOfWeek: []time.Weekday{time.Monday}, Rate: types.FlatRate{Price: 1}},
		}}
		_, err := Summarize(series(2, 10), option, pricing.Tables{}, 6, period)
		assert.ErrorIs(t, err, types.ErrNoApplicableMapping)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := Summarize(series(2, 10), flatOption("A", 2516, 1585), pricing.Tables{}, 6, types.BillingPeriod{
			Start: period.End,
			End:   period.Start,
		})
		assert.ErrorContains(t, err, "ends before it starts")
	})
}

func TestWholeMonthsBetween(t *testing.T) {
	for _, tc := range []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same instant", paris(2023, 1, 1, 0, 0), paris(2023, 1, 1, 0, 0), 0},
		{"two months", paris(2023, 1, 1, 0, 0), paris(2023, 3, 1, 0, 0), 2},
		{"one day short", paris(2023, 1, 15, 0, 0), paris(2023, 2, 14, 0, 0), 0},
		{"exactly one month", paris(2023, 1, 15, 0, 0), paris(2023, 2, 15, 0, 0), 1},
		{"one minute short", paris(2023, 1, 15, 12, 0), paris(2023, 2, 15, 11, 59), 0},
		{"across years", paris(2022, 11, 3, 0, 0), paris(2023, 2, 10, 0, 0), 3},
		{"a year", paris(2022, 6, 1, 0, 0), paris(2023, 6, 1, 0, 0), 12},
		{"reversed", paris(2023, 3, 1, 0, 0), paris(2023, 1, 1, 0, 0), -2},
		{"month end to shorter month end", paris(2023, 1, 31, 0, 0), paris(2023, 2, 28, 0, 0), 1},
		{"month end to leap february end", paris(2024, 1, 31, 0, 0), paris(2024, 2, 29, 0, 0), 1},
		{"day before month end", paris(2023, 1, 31, 0, 0), paris(2023, 2, 27, 0, 0), 0},
		{"month end clock short", paris(2023, 1, 31, 12, 0), paris(2023, 2, 28, 11, 0), 0},
		{"month end to later month end", paris(2023, 1, 31, 0, 0), paris(2023, 4, 30, 0, 0), 3},
		{"thirtieth to february end", paris(2023, 1, 30, 0, 0), paris(2023, 2, 28, 0, 0), 1},
		{"mid month into short month", paris(2023, 1, 29, 0, 0), paris(2023, 3, 28, 0, 0), 1},
		{"other location", paris(2023, 1, 1, 0, 0), paris(2023, 2, 1, 0, 0).UTC(), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WholeMonthsBetween(tc.start, tc.end))
		})
	}
}
