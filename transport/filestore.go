package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".handoff.json"

type fileStore struct {
	root string
}

// NewFileStore creates a Store backed by the filesystem. Each activation's
// harvest is written as a single JSON document under root, so entry keys may
// contain any characters without escaping rules.
func NewFileStore(root string) Store {
	return &fileStore{root: root}
}

func (s *fileStore) path(activationID string) string {
	return filepath.Join(s.root, activationID+fileExt)
}

func (s *fileStore) List(_ context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	var ids []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(de.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fileStore) Load(_ context.Context, activationID string) ([]Entry, error) {
	data, err := os.ReadFile(s.path(activationID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrActivationNotFound, activationID)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, activationID, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, activationID, err)
	}
	return entries, nil
}

func (s *fileStore) Save(_ context.Context, activationID string, entries []Entry) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}

	if err := os.Rename(tmpName, s.path(activationID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, activationID, err)
	}

	return nil
}

func (s *fileStore) Delete(_ context.Context, activationID string) error {
	if err := os.Remove(s.path(activationID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete failed: %s: %w", activationID, err)
	}
	return nil
}
