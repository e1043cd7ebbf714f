// Package cache stores fundamentals records as one JSON file per symbol.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/symbols"
)

const ext = ".json"

// FileStore keeps <SYMBOL>.json files in a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed and returns a store backed by it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(symbol string) (string, error) {
	sym, err := symbols.Normalize(symbol)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, sym+ext), nil
}

// Get reads the cached record for symbol.
// Returns apperrors.ErrFundamentalsNotFound when no file exists.
func (s *FileStore) Get(_ context.Context, symbol string) (model.Fundamentals, error) {
	path, err := s.path(symbol)
	if err != nil {
		return model.Fundamentals{}, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Fundamentals{}, apperrors.ErrFundamentalsNotFound
		}
		return model.Fundamentals{}, fmt.Errorf("failed to read cached record: %w", err)
	}

	var rec model.Fundamentals
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Fundamentals{}, fmt.Errorf("%w: %s: %w", apperrors.ErrCorruptRecord, path, err)
	}
	return rec, nil
}

// Save writes rec to <SYMBOL>.json, replacing any previous file atomically.
func (s *FileStore) Save(_ context.Context, rec model.Fundamentals) error {
	path, err := s.path(rec.Symbol)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fundamentals for %s: %w", rec.Symbol, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Symbols lists every cached symbol in alphabetical order.
func (s *FileStore) Symbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	entries, err := os.ReadDir(s.dir)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}

	out := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ext))
	}
	sort.Strings(out)
	return out, nil
}
