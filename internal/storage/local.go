package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LocalStore keeps documents as plain files under a single root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir, creating the directory
// (including parents) if it does not exist yet.
func NewLocalStore(dir string) (*LocalStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root %q: %w", dir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %q: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the absolute root directory of the store.
func (s *LocalStore) Root() string { return s.root }

// fullPath maps a filename to its on-disk location inside the root.
func (s *LocalStore) fullPath(filename string) (string, error) {
	name, err := baseName(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, filename)
	}
	return filepath.Join(s.root, name), nil
}

func (s *LocalStore) Save(_ context.Context, content []byte, filename string) (string, error) {
	full, err := s.fullPath(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("saving document %q: %w", filename, err)
	}
	return filepath.Base(full), nil
}

func (s *LocalStore) Get(_ context.Context, filename string) ([]byte, error) {
	full, err := s.fullPath(filename)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", filename, err)
	}
	return content, nil
}

func (s *LocalStore) Reference(_ context.Context, filename string) (string, error) {
	full, err := s.fullPath(filename)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotFound, filename)
	}
	return full, nil
}

func (s *LocalStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing documents in %q: %w", s.root, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *LocalStore) Exists(_ context.Context, filename string) bool {
	full, err := s.fullPath(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

func (s *LocalStore) Delete(_ context.Context, filename string) bool {
	full, err := s.fullPath(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return false
	}
	if err := os.Remove(full); err != nil {
		logrus.WithError(err).WithField("filename", filename).Warn("failed to delete document")
		return false
	}
	return true
}
