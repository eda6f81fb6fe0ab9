package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"

	"github.com/raterudder/ratecompare/pkg/catalog"
	"github.com/raterudder/ratecompare/pkg/compare"
	"github.com/raterudder/ratecompare/pkg/log"
	"github.com/raterudder/ratecompare/pkg/storage"
	"github.com/raterudder/ratecompare/pkg/types"
)

func main() {
	consumption := lflag.String("consumption", "-", "Path to the consumption series JSON array, - for stdin")
	powerClass := lflag.Int("power-class", 6, "Subscribed power in kVA")
	userGrid := lflag.String("user-grid", "base", "Key of the peak/off-peak grid the user is configured with")
	periodStart := lflag.String("period-start", "", "Billing period start (date or timestamp), defaults to the first reading")
	periodEnd := lflag.String("period-end", "", "Billing period end (date or timestamp), defaults to the last reading")

	// init packages
	s := storage.Configured()
	c := compare.Configured()

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)
	slog.SetDefault(log.NewJSON(level))
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	if err := run(ctx, s, c, options{
		consumption: *consumption,
		powerClass:  *powerClass,
		userGrid:    *userGrid,
		periodStart: *periodStart,
		periodEnd:   *periodEnd,
	}, os.Stdout); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "comparison failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	consumption string
	powerClass  int
	userGrid    string
	periodStart string
	periodEnd   string
}

func run(ctx context.Context, db storage.Database, c *compare.Comparator, opts options, w io.Writer) error {
	cat, err := catalog.Load(ctx, db)
	if err != nil {
		return err
	}
	tables, err := cat.Tables(opts.userGrid)
	if err != nil {
		return err
	}
	points, err := readConsumption(opts.consumption)
	if err != nil {
		return err
	}
	period, err := billingPeriod(points, opts.periodStart, opts.periodEnd)
	if err != nil {
		return err
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"comparing tariff options",
		slog.Int("options", len(cat.Options)),
		slog.Int("points", len(points)),
		slog.Time("start", period.Start),
		slog.Time("end", period.End),
	)

	ch, err := c.Stream(ctx, compare.Request{
		Points:     points,
		Options:    cat.Options,
		Tables:     tables,
		PowerClass: opts.powerClass,
		Period:     period,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	var failed int
	for res := range ch {
		if res.Err != nil {
			failed++
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Ctx(ctx).InfoContext(ctx, "compared tariff options", slog.Int("failed", failed))
	return nil
}

func readConsumption(path string) ([]types.ConsumptionPoint, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open consumption: %w", err)
		}
		defer f.Close()
		r = f
	}
	var points []types.ConsumptionPoint
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, fmt.Errorf("failed to decode consumption: %w", err)
	}
	if len(points) == 0 {
		return nil, errors.New("consumption series is empty")
	}
	return points, nil
}

// billingPeriod parses the flags, falling back to the earliest and latest
// readings.
func billingPeriod(points []types.ConsumptionPoint, start, end string) (types.BillingPeriod, error) {
	var period types.BillingPeriod
	for _, p := range points {
		if period.Start.IsZero() || p.RecordedAt.Before(period.Start) {
			period.Start = p.RecordedAt
		}
		if period.End.IsZero() || p.RecordedAt.After(period.End) {
			period.End = p.RecordedAt
		}
	}
	if start != "" {
		t, err := types.ParseRecordedAt(start, nil)
		if err != nil {
			return period, fmt.Errorf("invalid period-start: %w", err)
		}
		period.Start = t
	}
	if end != "" {
		t, err := types.ParseRecordedAt(end, nil)
		if err != nil {
			return period, fmt.Errorf("invalid period-end: %w", err)
		}
		period.End = t
	}
	return period, period.Validate()
}
