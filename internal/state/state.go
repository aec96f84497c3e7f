// Package state owns the engine's current snapshot and the most recent
// snapshot that was structurally valid.
package state

import "github.com/specialistvlad/recipegrid/internal/analyzer"

// Manager holds the committed snapshots. It does no locking; writers are
// expected to be serialized by the owner.
type Manager struct {
	current   *analyzer.Snapshot
	lastValid *analyzer.Snapshot
}

// New creates a Manager seeded with initial.
func New(initial *analyzer.Snapshot) *Manager {
	m := &Manager{}
	m.Update(initial)
	return m
}

// Update commits s as current, and as last valid when s is valid.
func (m *Manager) Update(s *analyzer.Snapshot) {
	m.current = s
	if s != nil && s.IsValid() {
		m.lastValid = s
	}
}

// Current returns the most recently committed snapshot.
func (m *Manager) Current() *analyzer.Snapshot { return m.current }

// LastValid returns the most recent valid snapshot, if any was ever committed.
func (m *Manager) LastValid() (*analyzer.Snapshot, bool) {
	return m.lastValid, m.lastValid != nil
}
