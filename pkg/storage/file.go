package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/levenlabs/go-lflag"
)

const fileExtension = ".json"

// FileProvider implements Database on a directory holding one <name>.json
// file per document.
type FileProvider struct {
	dir string
}

// configuredFile sets up the file provider.
// It registers flags for configuration.
func configuredFile() *FileProvider {
	dir := lflag.String("storage-dir", "data", "Directory holding the reference JSON documents")

	f := &FileProvider{}
	lflag.Do(func() {
		f.dir = *dir
	})
	return f
}

// NewFileProvider returns a provider reading and writing documents in dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// Validate checks the directory exists.
func (f *FileProvider) Validate() error {
	if f.dir == "" {
		return fmt.Errorf("storage-dir is required")
	}
	st, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("failed to stat storage dir %s: %w", f.dir, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("storage dir %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileProvider) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("document name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid document name: %s", name)
	}
	return filepath.Join(f.dir, name+fileExtension), nil
}

// GetDocument reads <dir>/<name>.json.
func (f *FileProvider) GetDocument(ctx context.Context, name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", name, err)
	}
	return data, nil
}

// PutDocument writes <dir>/<name>.json, replacing it atomically.
func (f *FileProvider) PutDocument(ctx context.Context, name string, data []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}
	return nil
}

// ListDocuments returns the names of the .json files in the directory.
func (f *FileProvider) ListDocuments(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage dir %s: %w", f.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != fileExtension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExtension))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (f *FileProvider) Close() error {
	return nil
}
