package srmutex

import (
	"gitlab.com/slon/srmutex/ownership"
)

// Mutex is a reentrant reader/writer lock that tracks ownership in its own
// goroutine-id keyed table.
//
// Any number of Mutexes may exist; each operation costs a table lookup.
// Upgrading releases the read hold before waiting for the write hold, so
// another writer may get in between. Mutex gives no preference to readers
// or writers beyond what its gate does.
//
// A Mutex must be created with New.
type Mutex struct {
	recursive
	table *ownership.Table
}

// New creates *Mutex.
func New(opts ...Option) *Mutex {
	t := ownership.NewTable()
	return &Mutex{
		recursive: newRecursive(applyOptions(opts), t),
		table:     t,
	}
}

// Lock locks m for writing.
func (m *Mutex) Lock() { m.lock() }

// Unlock undoes a single Lock call.
func (m *Mutex) Unlock() { m.unlock() }

// RLock locks m for reading.
func (m *Mutex) RLock() { m.rlock() }

// RUnlock undoes a single RLock call.
func (m *Mutex) RUnlock() { m.runlock() }

// TryLock fails if the calling goroutine holds m only for reading.
func (m *Mutex) TryLock() bool { return m.tryLock() }

// TryRLock is RLock that fails instead of blocking.
func (m *Mutex) TryRLock() bool { return m.tryRLock() }

// IsLocked reports whether the calling goroutine holds m for writing.
func (m *Mutex) IsLocked() bool { return m.isLocked() }

// IsRLocked reports whether the calling goroutine holds m only for reading.
func (m *Mutex) IsRLocked() bool { return m.isRLocked() }

// Owners returns ids of goroutines that hold m or are about to.
func (m *Mutex) Owners() []ownership.ID {
	return m.table.Owners()
}

// Snapshot returns the counters of every goroutine known to m.
func (m *Mutex) Snapshot() map[ownership.ID]ownership.Level {
	return m.table.Snapshot()
}
