package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/raterudder/ratecompare/pkg/types"
)

var (
	defaultLogLevel slog.LevelVar
	// stderr keeps stdout free for comparison rows
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithOption returns a new context whose logger tags every record with the
// tariff option.
func WithOption(ctx context.Context, ref types.TariffRef) context.Context {
	return With(ctx, Ctx(ctx).With(
		slog.String("provider", ref.Provider),
		slog.String("offerType", ref.OfferType),
		slog.String("optionKey", ref.OptionKey),
	))
}

// NewJSON returns a JSON logger writing to stderr at the given level.
func NewJSON(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}
