package bench

import (
	"runtime"

	"go.uber.org/atomic"

	"gitlab.com/slon/srmutex/srmutex"
)

const (
	ScenarioCounter = "counter"
	ScenarioFuzz    = "fuzz"
	ScenarioUpgrade = "upgrade"
	ScenarioTryLock = "trylock"
)

// counter is the resource the scenarios fight over. n is guarded by the
// benchmarked lock, never by anything else; seen records the last value a
// reader observed and is written concurrently by readers.
type counter struct {
	n    int
	seen atomic.Int64
}

func (c *counter) observe() {
	c.seen.Store(int64(c.n))
}

type scenario struct {
	// reentrant scenarios nest holds and would deadlock a plain RWMutex.
	reentrant bool
	step      func(l srmutex.RecursiveSharedLock, c *counter, i int, cfg Config)
	expected  func(cfg Config) int
}

func perIteration(cfg Config) int {
	return cfg.Goroutines * cfg.Iterations
}

var scenarios = map[string]scenario{
	ScenarioCounter: {step: counterStep, expected: perIteration},
	ScenarioFuzz:    {reentrant: true, step: fuzzStep, expected: perIteration},
	ScenarioUpgrade: {
		step: upgradeStep,
		expected: func(cfg Config) int {
			return cfg.Goroutines * ((cfg.Iterations + cfg.UpgradeEvery - 1) / cfg.UpgradeEvery)
		},
	},
	ScenarioTryLock: {step: tryLockStep, expected: perIteration},
}

func counterStep(l srmutex.RecursiveSharedLock, c *counter, _ int, _ Config) {
	srmutex.WithLock(l, func() { c.n++ })
	srmutex.WithRLock(l, c.observe)
}

// fuzzStep mixes every nesting order; each branch adds exactly one.
func fuzzStep(l srmutex.RecursiveSharedLock, c *counter, i int, _ Config) {
	switch {
	case i%5 == 0:
		if release, ok := srmutex.TryAcquire(l); ok {
			c.n++
			release()
			return
		}
		srmutex.WithLock(l, func() { c.n++ })
		l.RLock()
		l.RLock()
		c.observe()
		l.RUnlock()
		l.RUnlock()

	case i%4 == 0:
		l.Lock()
		c.n++
		l.RLock()
		c.observe()
		l.RUnlock()
		l.Unlock()

	case i%3 == 0:
		l.RLock()
		c.observe()
		l.Lock()
		c.n++
		l.Unlock()
		l.RUnlock()

	case i%2 == 0:
		l.Lock()
		c.n--
		l.Lock()
		c.n += 2
		l.RLock()
		c.observe()
		l.RUnlock()
		l.Unlock()
		l.Unlock()

	default:
		l.RLock()
		l.RLock()
		c.observe()
		l.Lock()
		c.n++
		l.Unlock()
		l.RUnlock()
		l.RUnlock()
	}
}

// upgradeStep reads every iteration and writes every UpgradeEvery-th one
// without leaving the read hold.
func upgradeStep(l srmutex.RecursiveSharedLock, c *counter, i int, cfg Config) {
	l.RLock()
	defer l.RUnlock()

	c.observe()
	if i%cfg.UpgradeEvery == 0 {
		upgrade(l, func() { c.n++ })
	}
}

func tryLockStep(l srmutex.RecursiveSharedLock, c *counter, _ int, _ Config) {
	for !l.TryLock() {
		runtime.Gosched()
	}
	c.n++
	l.Unlock()
}

// upgrader is implemented by locks that cannot upgrade by calling Lock.
type upgrader interface {
	Upgrade(fn func())
}

func upgrade(l srmutex.RecursiveSharedLock, fn func()) {
	if u, ok := l.(upgrader); ok {
		u.Upgrade(fn)
		return
	}
	srmutex.WithLock(l, fn)
}
