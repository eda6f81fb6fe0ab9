package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/levenlabs/go-lflag"
	"golang.org/x/sync/errgroup"

	"github.com/raterudder/ratecompare/pkg/log"
	"github.com/raterudder/ratecompare/pkg/pricing"
	"github.com/raterudder/ratecompare/pkg/types"
)

// Request is one consumption series to compare against a set of options.
type Request struct {
	Points     []types.ConsumptionPoint
	Options    []types.TariffOption
	Tables     pricing.Tables
	PowerClass int
	Period     types.BillingPeriod
}

// Result is the outcome of one option. Exactly one of Row and Err is set.
type Result struct {
	Ref types.TariffRef
	Row *types.ComparisonRow
	Err error
}

// MarshalJSON encodes a row as {"row": ...} and a failure as
// {"ref": ..., "error": "..."}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Ref   types.TariffRef `json:"ref"`
			Error string          `json:"error"`
		}{r.Ref, r.Err.Error()})
	}
	return json.Marshal(struct {
		Row *types.ComparisonRow `json:"row"`
	}{r.Row})
}

// Comparator summarizes every option of a request concurrently. Options share
// nothing but the read-only request.
type Comparator struct {
	workers int
}

// New returns a Comparator running at most workers options at once.
func New(workers int) *Comparator {
	return &Comparator{workers: workers}
}

// Configured sets up the Comparator based on flags.
func Configured() *Comparator {
	workers := lflag.Int("compare-workers", runtime.NumCPU(), "Number of tariff options priced concurrently")

	c := &Comparator{}
	lflag.Do(func() {
		c.workers = *workers
		if err := c.Validate(); err != nil {
			panic(fmt.Sprintf("comparator validation failed: %v", err))
		}
	})
	return c
}

// Validate ensures the configuration is valid.
func (c *Comparator) Validate() error {
	if c.workers < 1 {
		return fmt.Errorf("compare-workers must be at least 1, got %d", c.workers)
	}
	return nil
}

// Stream sends one Result per option in completion order and closes the
// channel once every option is done. Cancelling ctx stops the remaining
// options; callers that stop reading early must cancel ctx.
func (c *Comparator) Stream(ctx context.Context, req Request) (<-chan Result, error) {
	if err := req.Period.Validate(); err != nil {
		return nil, err
	}
	workers := c.workers
	if workers < 1 {
		workers = 1
	}

	out := make(chan Result)
	go func() {
		defer close(out)
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, option := range req.Options {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				res := summarizeOption(ctx, req, option)
				select {
				case out <- res:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		if err := g.Wait(); err != nil {
			log.Ctx(ctx).DebugContext(ctx, "comparison stopped early", slog.Any("error", err))
		}
	}()
	return out, nil
}

// Compare summarizes every option and returns the results ordered by
// provider, offer type and option key. It fails with ctx's error only when
// cancellation cut the results short.
func (c *Comparator) Compare(ctx context.Context, req Request) ([]Result, error) {
	ch, err := c.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(req.Options))
	for res := range ch {
		results = append(results, res)
	}
	// a cancellation after the last result leaves the set complete
	if len(results) < len(req.Options) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(results, func(a, b Result) int {
		switch {
		case a.Ref.Less(b.Ref):
			return -1
		case b.Ref.Less(a.Ref):
			return 1
		}
		return 0
	})
	return results, nil
}

func summarizeOption(ctx context.Context, req Request, option types.TariffOption) Result {
	ref := option.Ref()
	ctx = log.WithOption(ctx, ref)
	start := time.Now()

	row, err := Summarize(req.Points, option, req.Tables, req.PowerClass, req.Period)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to price tariff option", slog.Any("error", err))
		return Result{Ref: ref, Err: err}
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"priced tariff option",
		slog.Int64("total", row.Total),
		slog.Int("points", len(req.Points)),
		slog.Duration("took", time.Since(start)),
	)
	return Result{Ref: ref, Row: &row}
}
