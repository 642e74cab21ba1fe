// Package srmutex implements reentrant reader/writer locks.
//
// A goroutine may take the same lock repeatedly in either mode. Lock called
// by a goroutine that holds the lock only for reading upgrades its hold to
// writing; the matching Unlock downgrades it back to the read depth it had
// before.
//
// Three implementations share the RecursiveSharedLock contract:
//
//   - GlobalMutex keeps ownership counters in goroutine-local storage.
//   - Mutex keeps ownership counters in a goroutine-id keyed table.
//   - FairMutex is a monitor that prefers writers over new readers.
//
// Breaking the locking discipline, e.g. unlocking a mode the goroutine does
// not hold, panics with a *MisuseError.
package srmutex

import "sync"

// RecursiveSharedLock is a reader/writer lock owned by goroutines.
type RecursiveSharedLock interface {
	// Lock locks for writing. It returns at once if the calling goroutine
	// already holds the lock for writing. If the goroutine holds the lock
	// only for reading, the hold is upgraded.
	Lock()
	// Unlock undoes a single Lock call. The last one releases the write
	// hold, restoring the read hold the goroutine had before upgrading.
	Unlock()
	// RLock locks for reading. It returns at once if the calling goroutine
	// already holds the lock in any mode.
	RLock()
	// RUnlock undoes a single RLock call.
	RUnlock()
	// TryLock is Lock that never blocks. It reports whether the lock was
	// taken; on failure nothing changes.
	TryLock() bool
	// TryRLock is RLock that never blocks.
	TryRLock() bool
	// IsLocked reports whether the calling goroutine holds the lock for
	// writing.
	IsLocked() bool
	// IsRLocked reports whether the calling goroutine holds the lock only
	// for reading.
	IsRLocked() bool
}

var (
	_ RecursiveSharedLock = (*Mutex)(nil)
	_ RecursiveSharedLock = (*GlobalMutex)(nil)
	_ RecursiveSharedLock = (*FairMutex)(nil)
	_ RecursiveSharedLock = (*Instrumented)(nil)
)

// RLocker returns a sync.Locker that calls l.RLock and l.RUnlock.
func RLocker(l RecursiveSharedLock) sync.Locker {
	return rlocker{l}
}

type rlocker struct {
	l RecursiveSharedLock
}

func (r rlocker) Lock()   { r.l.RLock() }
func (r rlocker) Unlock() { r.l.RUnlock() }
