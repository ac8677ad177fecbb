// Package storage persists employee images on local disk. Each stored file is
// addressed by a locator generated from the upload time and the original
// filename; locators are flat names inside the store directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrAssetNotFound = errors.New("asset not found")

type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates the backing directory if it does not exist yet.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Filename builds the locator for an upload: a nanosecond timestamp prefix
// joined with the sanitized original name. The prefix makes concurrent
// uploads of the same file land on distinct locators.
func Filename(t time.Time, originalName string) string {
	name := filepath.Base(originalName)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%d-%s", t.UnixNano(), name)
}

// Save writes the payload under a fresh locator and returns it. An existing
// file is never overwritten: creation uses O_EXCL and fails on collision.
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	locator := Filename(s.now(), originalName)

	f, err := os.OpenFile(s.path(locator), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create asset %s: %w", locator, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(s.path(locator))
		return "", fmt.Errorf("write asset %s: %w", locator, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(s.path(locator))
		return "", fmt.Errorf("close asset %s: %w", locator, err)
	}

	return locator, nil
}

// Open returns the stored payload for reading.
func (s *DiskStore) Open(locator string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, locator)
		}
		return nil, fmt.Errorf("open asset %s: %w", locator, err)
	}
	return f, nil
}

// Remove deletes the stored payload. A missing file reports ErrAssetNotFound
// so callers on the cleanup path can log and move on.
func (s *DiskStore) Remove(locator string) error {
	if err := os.Remove(s.path(locator)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrAssetNotFound, locator)
		}
		return fmt.Errorf("remove asset %s: %w", locator, err)
	}
	return nil
}

// path resolves a locator inside the store directory. Locators are flat
// names; anything path-like is reduced to its base so a crafted locator
// cannot escape the directory.
func (s *DiskStore) path(locator string) string {
	return filepath.Join(s.dir, filepath.Base(locator))
}
