package prefs

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store wraps the reducer with durable persistence: the full state is
// serialized to one file after every successful transition. Persistence is
// best-effort; a write failure is logged and does not fail the transition.
// The Store is an explicit handle, not a global singleton.
type Store struct {
	mu    sync.Mutex
	state State
	path  string
}

// Open loads the persisted record from path, exactly once, before any
// transition is accepted. A missing or corrupt file is treated as "no saved
// preferences": the store starts from defaults rather than failing startup.
func Open(path string) *Store {
	return &Store{
		state: load(path),
		path:  path,
	}
}

// State returns a copy of the current record.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies one action. On success the resulting state is persisted
// before control returns to the caller. On ErrInvalidTransition the state is
// unchanged and nothing is written.
func (s *Store) Dispatch(action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, action)
	if err != nil {
		return s.state, err
	}

	s.state = next
	s.persist()
	return s.state, nil
}

func (s *Store) persist() {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Printf("WARN: failed to serialize preferences: %v", err)
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("WARN: failed to create preferences directory: %v", err)
			return
		}
	}

	// Write-then-rename keeps the stored record whole even if the process
	// dies mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("WARN: failed to persist preferences: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("WARN: failed to persist preferences: %v", err)
	}
}

// load reads and hydrates the persisted record.
func load(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: failed to read preferences from %s: %v; using defaults", path, err)
		}
		return DefaultState()
	}
	return Hydrate(data)
}

// Hydrate merges a previously persisted record into the default state.
// Unknown and missing fields keep their defaults; malformed data falls back
// to defaults entirely. A session without a display name is dropped, and
// out-of-range enum values are reset, so the returned state always satisfies
// the record's invariants.
func Hydrate(data []byte) State {
	state := DefaultState()
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("WARN: failed to parse persisted preferences: %v; using defaults", err)
		return DefaultState()
	}

	if state.TemperatureUnit != UnitCelsius && state.TemperatureUnit != UnitFahrenheit {
		state.TemperatureUnit = UnitCelsius
	}
	if state.Theme != ThemeLight && state.Theme != ThemeDark {
		state.Theme = ThemeLight
	}
	if state.Session != nil && state.Session.DisplayName == "" {
		state.Session = nil
	}
	return state
}
