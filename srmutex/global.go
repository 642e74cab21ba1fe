package srmutex

import (
	"sync"

	"gitlab.com/slon/srmutex/ownership"
)

// GlobalMutex is a reentrant reader/writer lock that keeps ownership
// counters in goroutine-local storage.
//
// Only goroutines running inside Run (or started with Go) may use it;
// any other goroutine panics with a *MisuseError wrapping
// ownership.ErrUnbound. Upgrade and downgrade behave as in Mutex.
type GlobalMutex struct {
	recursive
	local *ownership.Local
}

// NewGlobal creates *GlobalMutex.
func NewGlobal(opts ...Option) *GlobalMutex {
	local := ownership.NewLocal()
	return &GlobalMutex{
		recursive: newRecursive(applyOptions(opts), local),
		local:     local,
	}
}

var (
	globalsMu sync.Mutex
	globals   = make(map[string]*GlobalMutex)
)

// Global returns the process-wide GlobalMutex for tag, creating it on first
// call. opts apply only when the lock is created.
func Global(tag string, opts ...Option) *GlobalMutex {
	globalsMu.Lock()
	defer globalsMu.Unlock()

	m, ok := globals[tag]
	if !ok {
		m = NewGlobal(append([]Option{WithName(tag)}, opts...)...)
		globals[tag] = m
	}
	return m
}

// Run calls fn with the calling goroutine registered with m.
// Nested calls reuse the outer registration.
func (m *GlobalMutex) Run(fn func()) {
	m.local.Bind(fn)
}

// Go runs fn in a new goroutine registered with m.
func (m *GlobalMutex) Go(fn func()) {
	go m.local.Bind(fn)
}

// Bound reports whether the calling goroutine may use m.
func (m *GlobalMutex) Bound() bool {
	return m.local.Bound()
}

// Lock locks m for writing.
func (m *GlobalMutex) Lock() { m.lock() }

// Unlock undoes a single Lock call.
func (m *GlobalMutex) Unlock() { m.unlock() }

// RLock locks m for reading.
func (m *GlobalMutex) RLock() { m.rlock() }

// RUnlock undoes a single RLock call.
func (m *GlobalMutex) RUnlock() { m.runlock() }

// TryLock fails if the calling goroutine holds m only for reading.
func (m *GlobalMutex) TryLock() bool { return m.tryLock() }

// TryRLock is RLock that fails instead of blocking.
func (m *GlobalMutex) TryRLock() bool { return m.tryRLock() }

// IsLocked is false for goroutines not registered with m.
func (m *GlobalMutex) IsLocked() bool { return m.isLocked() }

// IsRLocked reports whether the calling goroutine holds m only for reading.
func (m *GlobalMutex) IsRLocked() bool { return m.isRLocked() }
