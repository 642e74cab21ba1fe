package srmutex

import (
	"gitlab.com/slon/srmutex/gate"
	"gitlab.com/slon/srmutex/ownership"
)

// recursive layers reentrancy over a gate.
//
// While a goroutine has Writers > 0 it holds the gate for writing; while it
// has only Readers > 0 it holds the gate for reading. Counters change
// without touching the gate whenever the goroutine already holds it in a
// compatible mode.
type recursive struct {
	reporter
	gate  gate.Gate
	store ownership.Store
}

func newRecursive(o options, store ownership.Store) recursive {
	g := o.gate
	if g == nil {
		g = gate.NewNative()
	}
	return recursive{
		reporter: reporter{name: o.name, log: o.logger},
		gate:     g,
		store:    store,
	}
}

func (r *recursive) counters(op string) *ownership.Counters {
	c, err := r.store.Counters()
	if err != nil {
		r.misuse(op, err)
	}
	return c
}

func (r *recursive) lock() {
	c := r.counters(opLock)
	switch {
	case c.Writers() > 0:
	case c.Readers() > 0:
		// Апгрейд не атомарный: между RUnlock и Lock гейт может забрать
		// другая горутина.
		r.gate.RUnlock()
		r.gate.Lock()
		r.debug("upgraded", c.Load())
	default:
		r.gate.Lock()
	}
	c.AddWriters(1)
}

func (r *recursive) unlock() {
	c := r.counters(opUnlock)
	if c.Writers() == 0 {
		r.store.Release(c)
		r.misuse(opUnlock, errNotWriter)
	}
	c.AddWriters(-1)
	if c.Writers() == 0 {
		r.gate.Unlock()
		if c.Readers() > 0 {
			r.gate.RLock()
			r.debug("downgraded", c.Load())
		}
	}
	r.store.Release(c)
}

func (r *recursive) rlock() {
	c := r.counters(opRLock)
	if c.IsZero() {
		r.gate.RLock()
	}
	c.AddReaders(1)
}

func (r *recursive) runlock() {
	c := r.counters(opRUnlock)
	if c.Readers() == 0 {
		r.store.Release(c)
		r.misuse(opRUnlock, errNotReader)
	}
	c.AddReaders(-1)
	// С Writers > 0 гейт держится на запись и отпускается в unlock.
	if c.IsZero() {
		r.gate.RUnlock()
	}
	r.store.Release(c)
}

func (r *recursive) tryLock() bool {
	c := r.counters(opTryLock)
	switch {
	case c.Writers() > 0:
		c.AddWriters(1)
		return true
	case c.Readers() > 0:
		// Апгрейд без блокировки невозможен.
		return false
	}
	if !r.gate.TryLock() {
		r.store.Release(c)
		return false
	}
	c.AddWriters(1)
	return true
}

func (r *recursive) tryRLock() bool {
	c := r.counters(opTryRLock)
	if !c.IsZero() {
		c.AddReaders(1)
		return true
	}
	if !r.gate.TryRLock() {
		r.store.Release(c)
		return false
	}
	c.AddReaders(1)
	return true
}

func (r *recursive) isLocked() bool {
	return r.store.Peek().Writers > 0
}

func (r *recursive) isRLocked() bool {
	l := r.store.Peek()
	return l.Readers > 0 && l.Writers == 0
}
