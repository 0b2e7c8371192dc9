// Package cache carries staleness signals from successful mutations to the
// rendering layer. The dispatcher records abstract view keys ("this view
// may now be stale"); what to do about them is the consumer's business.
package cache

import (
	"fmt"
	"sync"
)

// Invalidator receives view keys after a successful mutation.
type Invalidator interface {
	Invalidate(keys ...string)
}

// Memory collects stale view keys until the rendering layer flushes them.
type Memory struct {
	mu    sync.Mutex
	stale map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{stale: make(map[string]struct{})}
}

func (m *Memory) Invalidate(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.stale[k] = struct{}{}
	}
}

// Flush returns the accumulated stale keys and resets the set.
func (m *Memory) Flush() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.stale))
	for k := range m.stale {
		keys = append(keys, k)
	}
	m.stale = make(map[string]struct{})
	return keys
}

// View keys used across the controllers.
const (
	ViewAdminTools    = "admin/tools"
	ViewAdminUsers    = "admin/users"
	ViewAdminBranches = "admin/branches"
	ViewAdminTeams    = "admin/teams"
	ViewTools         = "tools"
)

// ViewStudent names the per-student dashboard view.
func ViewStudent(id uint) string { return fmt.Sprintf("students/%d", id) }

// ViewTeam names the per-team view.
func ViewTeam(id uint) string { return fmt.Sprintf("teams/%d", id) }
