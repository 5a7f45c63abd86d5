// Package storage implements the object store for uploaded media.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DiskStore writes uploaded blobs under a local directory and serves them by
// URI path. The stored name is unique per upload; the original file name is
// kept only as a suffix for operators poking at the directory.
type DiskStore struct {
	dir     string
	baseURI string
}

// NewDiskStore ensures dir exists and returns a store whose URIs are rooted
// at baseURI (e.g. "/uploads").
func NewDiskStore(dir, baseURI string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskStore{dir: dir, baseURI: baseURI}, nil
}

// Put persists data and returns the URI message content can carry, plus the
// sniffed content type. The client-declared type is ignored: sniffing the
// bytes is the only trustworthy source.
func (s *DiskStore) Put(_ context.Context, name string, data []byte) (string, string, error) {
	stored := uuid.NewString()
	if base := filepath.Base(name); base != "." && base != string(filepath.Separator) && base != "" {
		stored += "-" + base
	}

	if err := os.WriteFile(filepath.Join(s.dir, stored), data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing upload: %w", err)
	}

	return s.baseURI + "/" + stored, mimetype.Detect(data).String(), nil
}

// Dir exposes the root for the static file handler.
func (s *DiskStore) Dir() string { return s.dir }
