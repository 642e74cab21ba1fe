package srmutex

import "sync"

// WithLock runs fn with l locked for writing. l is unlocked on every exit
// path, including a panic in fn.
func WithLock(l RecursiveSharedLock, fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}

// WithRLock runs fn with l locked for reading.
func WithRLock(l RecursiveSharedLock, fn func()) {
	l.RLock()
	defer l.RUnlock()
	fn()
}

// Acquire locks l for writing and returns the matching release.
// Calling release more than once is safe; only the first call unlocks.
// release must be called by the goroutine that called Acquire.
func Acquire(l RecursiveSharedLock) (release func()) {
	l.Lock()
	var once sync.Once
	return func() { once.Do(l.Unlock) }
}

// AcquireShared locks l for reading and returns the matching release.
func AcquireShared(l RecursiveSharedLock) (release func()) {
	l.RLock()
	var once sync.Once
	return func() { once.Do(l.RUnlock) }
}

// TryAcquire is Acquire built on TryLock. ok is false if the lock was busy,
// in which case release is nil.
func TryAcquire(l RecursiveSharedLock) (release func(), ok bool) {
	if !l.TryLock() {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(l.Unlock) }, true
}
