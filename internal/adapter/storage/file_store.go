package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"steamworth/internal/core/domain"
)

// FileStore persists the price-cache document as a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (map[string]domain.CachedPrice, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]domain.CachedPrice{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read price cache %s: %w", s.path, err)
	}

	var entries map[string]domain.CachedPrice
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode price cache %s: %w", s.path, err)
	}
	if entries == nil {
		entries = map[string]domain.CachedPrice{}
	}
	return entries, nil
}

// Save replaces the whole document through a temp file and rename, so a
// crash mid-write cannot leave a truncated cache behind.
func (s *FileStore) Save(ctx context.Context, entries map[string]domain.CachedPrice) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode price cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write price cache %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace price cache %s: %w", s.path, err)
	}
	return nil
}
