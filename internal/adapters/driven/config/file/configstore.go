// Package file stores acqscope settings in ~/.acqscope/config.toml and
// watches the file for external edits.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
)

const (
	// DirName is the default configuration directory under the user's home.
	DirName = ".acqscope"

	// FileName is the configuration file inside the config directory.
	FileName = "config.toml"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps dotted keys in memory and persists them as TOML tables:
// "api.base_url" is written as base_url under [api].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// DefaultDir returns ~/.acqscope.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// NewConfigStore opens configDir/config.toml, creating configDir when
// missing. An empty configDir means DefaultDir. A missing file is an empty
// configuration; a malformed one is an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, FileName),
		values: make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores one value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	return s.SetAll(map[string]any{key: value})
}

// SetAll applies every value, then rewrites the file once. On a failed
// write the in-memory values are rolled back.
func (s *ConfigStore) SetAll(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]any, len(s.values)+len(values))
	for k, v := range s.values {
		next[k] = v
	}
	for k, v := range values {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = v
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.values)
}

// Load re-reads the file. A missing file empties the store.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	tables := make(map[string]any)
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	flat := make(map[string]any)
	flatten(flat, "", tables)

	s.mu.Lock()
	s.values = flat
	s.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// write replaces the file through a temporary sibling so readers (and the
// watcher) never see a half-written file. The file may hold the API token,
// hence 0600.
func (s *ConfigStore) write(values map[string]any) error {
	data, err := toml.Marshal(nest(values))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// flatten copies nested tables into dst under dotted keys.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for k, v := range tables {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(dst, key, table)
			continue
		}
		dst[key] = v
	}
}

// nest is the inverse of flatten. A key that is both a value and a prefix
// of other keys keeps its dotted form at the top level.
func nest(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for _, key := range sortedKeys(flat) {
		parts := strings.Split(key, ".")
		table, ok := root, true
		for _, part := range parts[:len(parts)-1] {
			child, exists := table[part]
			if !exists {
				sub := make(map[string]any)
				table[part] = sub
				table = sub
				continue
			}
			if table, ok = child.(map[string]any); !ok {
				break
			}
		}
		leaf := parts[len(parts)-1]
		if !ok {
			root[key] = flat[key]
			continue
		}
		if _, taken := table[leaf]; taken {
			root[key] = flat[key]
			continue
		}
		table[leaf] = flat[key]
	}
	return root
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
