// Package catalog loads the tariff options and the reference tables they are
// priced against, and rejects inconsistent reference data up front.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raterudder/ratecompare/pkg/log"
	"github.com/raterudder/ratecompare/pkg/pricing"
	"github.com/raterudder/ratecompare/pkg/storage"
	"github.com/raterudder/ratecompare/pkg/types"
)

// Catalog is the full set of options plus every table needed to price them.
// It is read-only once loaded.
type Catalog struct {
	Options  []types.TariffOption
	Grids    map[string]types.ScheduleGrid
	Colors   types.ColorCalendar
	Holidays types.HolidayCalendar
}

// Load reads the reference documents from db and validates them. The colors
// and holidays documents are optional.
func Load(ctx context.Context, db storage.Database) (*Catalog, error) {
	c := &Catalog{
		Colors:   types.ColorCalendar{},
		Holidays: types.HolidayCalendar{},
	}
	if err := loadDocument(ctx, db, storage.DocumentTariffs, &c.Options, true); err != nil {
		return nil, err
	}
	if err := loadDocument(ctx, db, storage.DocumentGrids, &c.Grids, true); err != nil {
		return nil, err
	}
	if err := loadDocument(ctx, db, storage.DocumentColors, &c.Colors, false); err != nil {
		return nil, err
	}
	if err := loadDocument(ctx, db, storage.DocumentHolidays, &c.Holidays, false); err != nil {
		return nil, err
	}
	if err := c.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"loaded catalog",
		slog.Int("options", len(c.Options)),
		slog.Int("grids", len(c.Grids)),
		slog.Int("colorDays", len(c.Colors)),
		slog.Int("holidays", len(c.Holidays)),
	)
	return c, nil
}

func loadDocument(ctx context.Context, db storage.Database, name string, v any, required bool) error {
	data, err := db.GetDocument(ctx, name)
	if err != nil {
		if !required && errors.Is(err, storage.ErrDocumentNotFound) {
			log.Ctx(ctx).DebugContext(ctx, "optional reference document missing", slog.String("document", name))
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// Validate checks that every option can be priced with the loaded tables and
// reports every problem found. Rate mappings that hide one another on some
// weekdays are only logged since the first match wins.
func (c *Catalog) Validate(ctx context.Context) error {
	var errs []error
	for key, grid := range c.Grids {
		if err := grid.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("grid %s: %w", key, err))
		}
	}

	seen := make(map[types.TariffRef]bool, len(c.Options))
	for i, o := range c.Options {
		ref := o.Ref()
		if ref.Provider == "" || ref.OfferType == "" || ref.OptionKey == "" {
			errs = append(errs, fmt.Errorf("option %d: provider, offerType and optionKey are required", i))
			continue
		}
		if seen[ref] {
			errs = append(errs, fmt.Errorf("option %s is duplicated", ref))
		}
		seen[ref] = true

		if o.OverridingScheduleKey != "" {
			if _, ok := c.Grids[o.OverridingScheduleKey]; !ok {
				errs = append(errs, fmt.Errorf("option %s: unknown overriding schedule %q", ref, o.OverridingScheduleKey))
			}
		}
		for _, s := range o.Subscriptions {
			if s.PowerClass <= 0 || s.MonthlyFee < 0 {
				errs = append(errs, fmt.Errorf("option %s: invalid subscription %d kVA at %d", ref, s.PowerClass, s.MonthlyFee))
			}
		}

		switch p := o.Pricing.(type) {
		case types.RatePricing:
			errs = append(errs, validateRates(ctx, ref, p)...)
		case types.ColorPricing:
			if o.OverridingScheduleKey == "" {
				errs = append(errs, fmt.Errorf("option %s: color pricing requires an overriding schedule", ref))
			}
			errs = append(errs, validateColors(ref, p)...)
		default:
			errs = append(errs, fmt.Errorf("option %s: missing pricing", ref))
		}
	}
	return errors.Join(errs...)
}

func validateRates(ctx context.Context, ref types.TariffRef, p types.RatePricing) []error {
	if len(p.Mappings) == 0 {
		return []error{fmt.Errorf("option %s: no mappings", ref)}
	}
	var errs []error
	covered := make(map[time.Weekday]int, 7)
	for i, m := range p.Mappings {
		switch r := m.Rate.(type) {
		case types.FlatRate:
			if r.Price < 0 {
				errs = append(errs, fmt.Errorf("option %s: mapping %d has a negative price", ref, i))
			}
		case types.PeakOffPeakRate:
			if r.Peak < 0 || r.OffPeak < 0 {
				errs = append(errs, fmt.Errorf("option %s: mapping %d has a negative price", ref, i))
			}
		default:
			errs = append(errs, fmt.Errorf("option %s: mapping %d has no rate", ref, i))
		}
		for _, d := range m.ApplicableDaysOfWeek {
			if first, ok := covered[d]; ok {
				log.Ctx(ctx).WarnContext(
					ctx,
					"tariff mapping hidden by an earlier one",
					slog.String("option", ref.String()),
					slog.Int("mapping", i),
					slog.Int("hiddenBy", first),
					slog.String("weekday", d.String()),
				)
				continue
			}
			covered[d] = i
		}
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := covered[d]; !ok {
			errs = append(errs, fmt.Errorf("option %s: no mapping applies on %s", ref, d))
		}
	}
	return errs
}

func validateColors(ref types.TariffRef, p types.ColorPricing) []error {
	var errs []error
	counts := make(map[types.ColorCode]int, len(types.Colors))
	for i, m := range p.Mappings {
		if !m.ColorCode.Valid() {
			errs = append(errs, fmt.Errorf("option %s: color mapping %d has invalid color %q", ref, i, m.ColorCode))
			continue
		}
		if m.PeakPrice < 0 || m.OffPeakPrice < 0 {
			errs = append(errs, fmt.Errorf("option %s: color %s has a negative price", ref, m.ColorCode))
		}
		counts[m.ColorCode]++
	}
	for _, color := range types.Colors {
		switch counts[color] {
		case 1:
		case 0:
			errs = append(errs, fmt.Errorf("option %s: color %s is not mapped", ref, color))
		default:
			errs = append(errs, fmt.Errorf("option %s: color %s is mapped %d times", ref, color, counts[color]))
		}
	}
	return errs
}

// Option returns the option identified by ref.
func (c *Catalog) Option(ref types.TariffRef) (types.TariffOption, bool) {
	for _, o := range c.Options {
		if o.Ref() == ref {
			return o, true
		}
	}
	return types.TariffOption{}, false
}

// Tables returns the pricing tables for a user configured with the named
// grid.
func (c *Catalog) Tables(userGridKey string) (pricing.Tables, error) {
	grid, ok := c.Grids[userGridKey]
	if !ok {
		return pricing.Tables{}, fmt.Errorf("unknown user grid %q", userGridKey)
	}
	return pricing.Tables{
		UserGrid:  grid,
		Overrides: c.Grids,
		Colors:    c.Colors,
		Holidays:  c.Holidays,
	}, nil
}
