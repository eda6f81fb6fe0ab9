package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: "test-project-id",
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		doc := []byte(`[{"date":"2024-01-08","colorCode":"RED"}]`)
		require.NoError(t, f.PutDocument(ctx, DocumentColors, doc))

		got, err := f.GetDocument(ctx, DocumentColors)
		require.NoError(t, err)
		assert.JSONEq(t, string(doc), string(got))

		// replace
		doc = []byte(`[]`)
		require.NoError(t, f.PutDocument(ctx, DocumentColors, doc))
		got, err = f.GetDocument(ctx, DocumentColors)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(got))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.GetDocument(ctx, "missing")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := f.GetDocument(ctx, "")
		assert.ErrorContains(t, err, "document name cannot be empty")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		assert.ErrorContains(t, f.PutDocument(ctx, DocumentGrids, []byte("{")), "not valid json")
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, f.PutDocument(ctx, DocumentTariffs, []byte(`[]`)))
		names, err := f.ListDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{DocumentColors, DocumentTariffs}, names)
	})
}
