package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/raterudder/ratecompare/pkg/log"
)

const referenceCollection = "reference"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Every document lives in the "reference" collection with its
// JSON stored as a string.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project ID is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) getDoc(name string) (*firestore.DocumentRef, error) {
	if name == "" {
		return nil, fmt.Errorf("document name cannot be empty")
	}
	return f.client.Collection(referenceCollection).Doc(name), nil
}

// GetDocument retrieves the named document from the "reference" collection.
func (f *FirestoreProvider) GetDocument(ctx context.Context, name string) ([]byte, error) {
	ref, err := f.getDoc(name)
	if err != nil {
		return nil, err
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", name, err)
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "reference doc missing json", slog.String("document", name), slog.Any("err", err))
		return nil, fmt.Errorf("document %s missing json: %w", name, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "reference doc json not string", slog.String("document", name))
		return nil, fmt.Errorf("document %s json not string", name)
	}
	if !json.Valid([]byte(jsonStr)) {
		log.Ctx(ctx).WarnContext(ctx, "reference doc json invalid", slog.String("document", name))
		return nil, fmt.Errorf("document %s json is invalid", name)
	}
	return []byte(jsonStr), nil
}

// PutDocument replaces the named document in the "reference" collection.
func (f *FirestoreProvider) PutDocument(ctx context.Context, name string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("document %s is not valid json", name)
	}
	ref, err := f.getDoc(name)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, map[string]interface{}{
		"json":      string(data),
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to set document %s: %w", name, err)
	}
	return nil
}

// ListDocuments returns the IDs of every document in the "reference"
// collection.
func (f *FirestoreProvider) ListDocuments(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(referenceCollection).Documents(ctx)
	defer iter.Stop()

	var names []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reference documents: %w", err)
		}
		names = append(names, doc.Ref.ID)
	}
	sort.Strings(names)
	return names, nil
}
