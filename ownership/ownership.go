// Package ownership keeps track of how many nested shared and exclusive
// holds each goroutine has on a lock instance.
package ownership

import (
	"errors"

	"github.com/petermattis/goid"
	"go.uber.org/atomic"
)

// ID identifies a goroutine.
type ID = int64

// ErrUnbound is reported when a goroutine uses goroutine-local counters
// without entering through Local.Bind.
var ErrUnbound = errors.New("ownership: goroutine has no local counters bound")

// Current returns the id of the calling goroutine.
func Current() ID {
	return goid.Get()
}

// Level is a copy of the nesting depth of one goroutine's holds.
type Level struct {
	Readers uint32
	Writers uint32
}

// IsZero reports whether the goroutine holds nothing.
func (l Level) IsZero() bool {
	return l.Readers == 0 && l.Writers == 0
}

// Counters are the live holds of one goroutine.
//
// Only the owning goroutine changes them. Other goroutines may load them
// at any time, e.g. from Table.Snapshot.
type Counters struct {
	readers atomic.Uint32
	writers atomic.Uint32
}

func (c *Counters) Readers() uint32 { return c.readers.Load() }

func (c *Counters) Writers() uint32 { return c.writers.Load() }

// AddReaders adds delta, which may be negative, to the read depth.
func (c *Counters) AddReaders(delta int32) { c.readers.Add(uint32(delta)) }

// AddWriters adds delta, which may be negative, to the write depth.
func (c *Counters) AddWriters(delta int32) { c.writers.Add(uint32(delta)) }

// Load copies both counters.
func (c *Counters) Load() Level {
	return Level{Readers: c.Readers(), Writers: c.Writers()}
}

func (c *Counters) IsZero() bool {
	return c.Readers() == 0 && c.Writers() == 0
}

// A Store hands out the counters of the calling goroutine.
type Store interface {
	// Counters returns the counters of the calling goroutine, creating them
	// on first use.
	Counters() (*Counters, error)
	// Peek returns a copy of the calling goroutine's counters without
	// creating an entry.
	Peek() Level
	// Release drops the entry once both counters are back to zero.
	Release(c *Counters)
}

var (
	_ Store = (*Table)(nil)
	_ Store = (*Local)(nil)
)
