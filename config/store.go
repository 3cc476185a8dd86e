package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yllada/lexair-launcher/common"
	"gopkg.in/yaml.v3"
)

// Store owns the in-memory preferences and writes them through to disk
// after every change.
type Store struct {
	mu    sync.RWMutex
	path  string
	prefs Preferences

	// flushMu orders disk writes so the file never lags memory.
	flushMu sync.Mutex
}

// Load reads the preference file at path.
// A missing, unreadable or malformed file yields the default preferences;
// Load never fails. When the file is missing but a legacy JSON file sits
// next to it, the legacy values are imported and saved in the new format.
func Load(path string) *Store {
	s := &Store{
		path:  path,
		prefs: DefaultPreferences(),
	}

	if common.FileExists(path) {
		prefs, err := readPreferences(path)
		if err != nil {
			common.LogWarn("Using default preferences: %v", err)
			return s
		}
		s.prefs = prefs
		return s
	}

	legacyPath := filepath.Join(filepath.Dir(path), common.LegacyPreferencesFileName)
	if !common.FileExists(legacyPath) {
		common.LogDebug("No preference file at %s, using defaults", path)
		return s
	}

	prefs, err := readPreferences(legacyPath)
	if err != nil {
		common.LogWarn("Ignoring legacy preferences: %v", err)
		return s
	}
	common.LogInfo("Imported legacy preferences from %s", legacyPath)
	s.prefs = prefs
	_ = s.Flush()
	return s
}

// readPreferences decodes a preference document on top of the defaults.
// YAML is a superset of JSON, so the legacy JSON file decodes the same way.
func readPreferences(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}

	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("%w: parsing %s: %v", common.ErrConfigLoad, filepath.Base(path), err)
	}

	prefs.normalize()
	return prefs, nil
}

// Path returns the location of the preference file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a snapshot of the current preferences.
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Set merges u into the preferences, flushes them, and returns the new snapshot.
// A failed flush is logged; the in-memory change is kept.
func (s *Store) Set(u Update) Preferences {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	s.prefs.apply(u)
	prefs := s.prefs
	s.mu.Unlock()

	_ = s.flushLocked()
	return prefs
}

// Flush writes the full preference record to disk.
// The error is logged and returned for callers that care; the shell ignores it.
func (s *Store) Flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	return s.flushLocked()
}

// flushLocked snapshots and writes the preferences. s.flushMu must be held.
func (s *Store) flushLocked() error {
	s.mu.RLock()
	prefs := s.prefs
	s.mu.RUnlock()

	if err := writePreferences(s.path, prefs); err != nil {
		common.LogError("Could not save preferences to %s: %v", s.path, err)
		return err
	}
	common.LogDebug("Preferences saved to %s", s.path)
	return nil
}

// writePreferences replaces the file at path atomically.
func writePreferences(path string, prefs Preferences) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", common.ErrConfigSave, dir, err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("%w: serializing: %v", common.ErrConfigSave, err)
	}

	tmp, err := os.CreateTemp(dir, ".launcher_config-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	return nil
}
