package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"

	"github.com/raterudder/ratecompare/pkg/catalog"
	"github.com/raterudder/ratecompare/pkg/log"
	"github.com/raterudder/ratecompare/pkg/storage"
)

func main() {
	seedDir := lflag.String("seed-dir", "data", "Directory of reference JSON documents to upload")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()
	defer s.Close()

	log.Ctx(ctx).InfoContext(ctx, "seeding reference documents", slog.String("dir", *seedDir))
	n, err := seed(ctx, storage.NewFileProvider(*seedDir), s)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to seed reference documents", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "seeded reference documents successfully", slog.Int("documents", n))
}

// seed validates src as a catalog and copies every document it holds into
// dst.
func seed(ctx context.Context, src *storage.FileProvider, dst storage.Database) (int, error) {
	if err := src.Validate(); err != nil {
		return 0, err
	}
	if _, err := catalog.Load(ctx, src); err != nil {
		return 0, err
	}
	names, err := src.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		data, err := src.GetDocument(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := dst.PutDocument(ctx, name, data); err != nil {
			return 0, fmt.Errorf("failed to upload %s: %w", name, err)
		}
		log.Ctx(ctx).DebugContext(ctx, "uploaded reference document", slog.String("document", name), slog.Int("bytes", len(data)))
	}
	return len(names), nil
}
