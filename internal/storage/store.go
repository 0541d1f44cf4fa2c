// Package storage persists named JSON collections as whole files with
// replace-on-write semantics: every save serializes the full collection to a
// temporary file and renames it over the live one, so a reader never sees a
// partial write and a crash mid-save leaves the prior version intact.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex-athletics/storefront/internal/apperr"
	"github.com/sirupsen/logrus"
)

type Store struct {
	dir    string
	logger *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string, logger *logrus.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Load re-reads the collection file on every call, so the latest completed
// save by any writer is always visible. No caching.
func (s *Store) Load(name string, v any) error {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return apperr.Storage(fmt.Sprintf("collection %q is unavailable", name), err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperr.Storage(fmt.Sprintf("collection %q is corrupt", name), err)
	}
	return nil
}

// Save replaces the collection wholesale. There is no incremental path: the
// caller supplies the entire next state.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Storage(fmt.Sprintf("collection %q could not be serialized", name), err)
	}

	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperr.Storage(fmt.Sprintf("collection %q could not be written", name), err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return apperr.Storage(fmt.Sprintf("collection %q could not be replaced", name), err)
	}

	s.logger.WithFields(logrus.Fields{
		"collection": name,
		"bytes":      len(data),
	}).Debug("Collection replaced on disk")
	return nil
}

// Update runs fn under the collection's in-process mutex, serializing
// read-modify-write cycles against the same collection within this process.
// The file itself stays unlocked, so a second process racing on the same
// data directory is still last-writer-wins.
func (s *Store) Update(name string, fn func() error) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Seed writes the default value for a collection whose file does not exist
// yet. Existing files, including corrupt ones, are left untouched.
func (s *Store) Seed(name string, defaultValue any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Storage("data directory could not be created", err)
	}
	if _, err := os.Stat(s.path(name)); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return apperr.Storage(fmt.Sprintf("collection %q could not be checked", name), err)
	}
	s.logger.WithField("collection", name).Info("Seeding missing collection")
	return s.Save(name, defaultValue)
}
