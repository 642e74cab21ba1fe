package bench

import "sync"

// baseline adapts sync.RWMutex to the lock contract so the scenarios can
// measure what recursion costs. It is not reentrant: IsLocked and IsRLocked
// always report false.
type baseline struct {
	mu sync.RWMutex
}

func (b *baseline) Lock() { b.mu.Lock() }
func (b *baseline) Unlock() { b.mu.Unlock() }
func (b *baseline) RLock() { b.mu.RLock() }
func (b *baseline) RUnlock() { b.mu.RUnlock() }
func (b *baseline) TryLock() bool { return b.mu.TryLock() }
func (b *baseline) TryRLock() bool { return b.mu.TryRLock() }
func (b *baseline) IsLocked() bool { return false }
func (b *baseline) IsRLocked() bool { return false }

// Upgrade swaps the caller's read hold for a write hold around fn by hand.
func (b *baseline) Upgrade(fn func()) {
	b.mu.RUnlock()
	b.mu.Lock()
	defer func() {
		b.mu.Unlock()
		b.mu.RLock()
	}()
	fn()
}
