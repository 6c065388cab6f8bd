// Package store persists avatar script data as namespaced key-value
// documents, one TOML file per namespace. It backs both the script-facing
// config API and the keybind autosave layer.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrNoNamespace is returned when an operation runs before a namespace
// was selected.
var ErrNoNamespace = errors.New("no store namespace selected")

// FileStore is a namespaced persistent key-value store. Each namespace is
// one TOML document under the base directory, loaded on first access and
// written through atomically on every change.
//
// FileStore is driven from the cooperative tick loop and is not
// goroutine-safe.
type FileStore struct {
	dir       string
	namespace string

	// cache holds loaded namespaces; nil entries mark namespaces whose
	// file did not exist.
	cache map[string]map[string]any
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:   dir,
		cache: make(map[string]map[string]any),
	}
}

// SetNamespace switches the active namespace.
func (s *FileStore) SetNamespace(name string) {
	s.namespace = name
}

// Namespace returns the active namespace.
func (s *FileStore) Namespace() string {
	return s.namespace
}

// Value reads a raw value from the active namespace.
func (s *FileStore) Value(key string) (any, bool, error) {
	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// SetValue writes a raw value into the active namespace and persists the
// document.
func (s *FileStore) SetValue(key string, value any) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key] = value
	return s.flush(doc)
}

// Delete removes an entry from the active namespace and persists the
// document. Deleting a missing entry is not an error.
func (s *FileStore) Delete(key string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.flush(doc)
}

// Load reads a string entry. Entries holding non-string values report as
// absent. Load implements the keybind store contract.
func (s *FileStore) Load(key string) (string, bool, error) {
	v, ok, err := s.Value(key)
	if err != nil || !ok {
		return "", false, err
	}
	str, ok := v.(string)
	return str, ok, nil
}

// Save writes a string entry. Save implements the keybind store contract.
func (s *FileStore) Save(key, value string) error {
	return s.SetValue(key, value)
}

// Entries returns a copy of every entry in the active namespace.
func (s *FileStore) Entries() (map[string]any, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

// load returns the active namespace's document, reading its file on first
// access.
func (s *FileStore) load() (map[string]any, error) {
	if s.namespace == "" {
		return nil, ErrNoNamespace
	}
	if doc, ok := s.cache[s.namespace]; ok {
		return doc, nil
	}

	doc := make(map[string]any)
	data, err := os.ReadFile(s.path())
	switch {
	case os.IsNotExist(err):
		// First use of this namespace.
	case err != nil:
		return nil, fmt.Errorf("reading store %s: %w", s.path(), err)
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing store %s: %w", s.path(), err)
		}
	}
	s.cache[s.namespace] = doc
	return doc, nil
}

// flush writes the document atomically: marshal to a temp file in the
// same directory, then rename over the target.
func (s *FileStore) flush(doc map[string]any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding store %s: %w", s.namespace, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileName(s.namespace)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store %s: %w", s.namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing store %s: %w", s.namespace, err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store %s: %w", s.namespace, err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, fileName(s.namespace)+".toml")
}

// fileName maps a namespace to a safe file name.
func fileName(namespace string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(namespace)
}
