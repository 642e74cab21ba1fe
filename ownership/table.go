package ownership

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Table stores counters in a goroutine-id keyed map.
//
// The map is guarded by its own RWMutex which is held only for lookups,
// inserts and deletes, never while the caller waits on a gate.
type Table struct {
	mu      sync.RWMutex
	entries map[ID]*Counters
}

// NewTable creates an empty *Table.
func NewTable() *Table {
	return &Table{entries: make(map[ID]*Counters)}
}

func (t *Table) Counters() (*Counters, error) {
	id := Current()

	t.mu.RLock()
	c, ok := t.entries[id]
	t.mu.RUnlock()
	if ok {
		return c, nil
	}

	// Запись создаёт только сама горутина, поэтому гонки за id нет.
	c = &Counters{}
	t.mu.Lock()
	t.entries[id] = c
	t.mu.Unlock()
	return c, nil
}

func (t *Table) Peek() Level {
	id := Current()

	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.entries[id]; ok {
		return c.Load()
	}
	return Level{}
}

func (t *Table) Release(c *Counters) {
	if !c.IsZero() {
		return
	}
	id := Current()

	t.mu.Lock()
	if t.entries[id] == c {
		delete(t.entries, id)
	}
	t.mu.Unlock()
}

// Len returns the number of goroutines with a live entry.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Snapshot copies all entries.
//
// Each entry is loaded atomically, but counters of other goroutines may
// change right after; the result is meant for diagnostics and tests.
func (t *Table) Snapshot() map[ID]Level {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[ID]Level, len(t.entries))
	for id, c := range t.entries {
		out[id] = c.Load()
	}
	return out
}

// Owners returns the ids of goroutines with a live entry in ascending order.
func (t *Table) Owners() []ID {
	t.mu.RLock()
	ids := maps.Keys(t.entries)
	t.mu.RUnlock()

	slices.Sort(ids)
	return ids
}
