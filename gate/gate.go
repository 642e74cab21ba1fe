//go:generate mockgen -source=gate.go -destination=mock_gate/mock_gate.go

// Package gate provides the blocking primitives recursive locks park on.
package gate

import "sync"

// A Gate is a non-reentrant reader/writer lock.
//
// A Gate knows nothing about goroutines: reentrancy, upgrade and downgrade
// are layered on top of it by the caller.
type Gate interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
	// TryLock acquires the gate for writing if that is possible without
	// blocking.
	TryLock() bool
	// TryRLock acquires the gate for reading if that is possible without
	// blocking.
	TryRLock() bool
}

// Native is a Gate backed by sync.RWMutex.
type Native struct {
	sync.RWMutex
}

// NewNative creates *Native.
func NewNative() *Native {
	return &Native{}
}

var (
	_ Gate = (*Native)(nil)
	_ Gate = (*Chan)(nil)
)
