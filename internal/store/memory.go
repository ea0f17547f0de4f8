package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNotFound is returned when no fresh snapshot is held for a query.
var ErrNotFound = errors.New("no snapshot for location")

// SnapshotStore keeps the last good snapshot per location query so the
// dashboard can render immediately while a fresh fetch is in flight. The
// aggregation pipeline itself never reads from here; only the background
// refresh job writes and the latest-snapshot endpoint reads.
type SnapshotStore struct {
	mu     sync.RWMutex
	data   map[string]storedSnapshot
	maxAge time.Duration // 0 = never expires
	clock  clockwork.Clock
}

type storedSnapshot struct {
	snapshot *weather.Snapshot
	storedAt time.Time
}

// NewSnapshotStore creates a store whose entries expire after maxAge.
func NewSnapshotStore(maxAge time.Duration, clock clockwork.Clock) *SnapshotStore {
	return &SnapshotStore{
		data:   make(map[string]storedSnapshot),
		maxAge: maxAge,
		clock:  clock,
	}
}

// Put replaces the stored snapshot for a query wholesale.
func (s *SnapshotStore) Put(query string, snapshot *weather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[normalizeKey(query)] = storedSnapshot{
		snapshot: snapshot,
		storedAt: s.clock.Now(),
	}
}

// Latest returns the stored snapshot for a query, or ErrNotFound when none
// exists or the entry has aged out.
func (s *SnapshotStore) Latest(query string) (*weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[normalizeKey(query)]
	if !ok {
		return nil, ErrNotFound
	}
	if s.maxAge > 0 && s.clock.Now().Sub(entry.storedAt) > s.maxAge {
		return nil, ErrNotFound
	}
	return entry.snapshot, nil
}

func normalizeKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
