package srmutex

import (
	"sync"

	"gitlab.com/slon/srmutex/ownership"
)

// FairMutex is a reentrant reader/writer lock that prefers writers.
//
// Once a goroutine has announced itself as the writer, new readers wait
// until it is done, while goroutines already reading may keep nesting their
// read holds. There is no FIFO order among competing writers.
//
// Upgrade and downgrade happen under the internal mutex, so no other writer
// can slip in while a reader turns into the writer.
type FairMutex struct {
	reporter

	mu sync.Mutex
	// writerGone is broadcast when the writer releases the lock.
	writerGone *sync.Cond
	// readersDrained is signalled when the last reader leaves while a
	// writer waits for them.
	readersDrained *sync.Cond

	owner       ownership.ID
	writerDepth uint32
	// folded counts RLock calls made by the writer, included in writerDepth.
	folded uint32
	// preUpgrade is the read depth the writer had before upgrading.
	preUpgrade     uint32
	readers        map[ownership.ID]uint32
	waitingWriters int
}

// FairStats is a point-in-time view of a FairMutex.
type FairStats struct {
	Owner          ownership.ID
	WriterDepth    uint32
	Readers        int
	WaitingWriters int
}

// NewFair creates *FairMutex.
func NewFair(opts ...Option) *FairMutex {
	o := applyOptions(opts)
	m := &FairMutex{
		reporter: reporter{name: o.name, log: o.logger},
		readers:  make(map[ownership.ID]uint32),
	}
	m.writerGone = sync.NewCond(&m.mu)
	m.readersDrained = sync.NewCond(&m.mu)
	return m
}

// exclusive is the number of Lock calls the writer still owes Unlock for.
func (m *FairMutex) exclusive() uint32 {
	return m.writerDepth - m.folded
}

// Lock locks m for writing.
func (m *FairMutex) Lock() {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner == id {
		m.writerDepth++
		return
	}

	depth := m.readers[id]
	if depth > 0 {
		delete(m.readers, id)
		if m.writerDepth > 0 && len(m.readers) == 0 {
			m.readersDrained.Signal()
		}
	}

	m.waitingWriters++
	for m.writerDepth > 0 {
		m.writerGone.Wait()
	}
	m.waitingWriters--

	// С этого момента новые читатели ждут.
	m.owner = id
	m.writerDepth = 1
	m.preUpgrade = depth
	if depth > 0 {
		m.debug("upgraded", ownership.Level{Readers: depth, Writers: 1})
	}

	for len(m.readers) > 0 {
		m.readersDrained.Wait()
	}
}

// Unlock undoes a single Lock call.
func (m *FairMutex) Unlock() {
	id := ownership.Current()
	m.mu.Lock()

	if m.owner != id || m.exclusive() == 0 {
		m.mu.Unlock()
		m.misuse(opUnlock, errNotWriter)
	}

	m.writerDepth--
	if m.exclusive() > 0 {
		m.mu.Unlock()
		return
	}

	restore := m.preUpgrade + m.folded
	if restore > 0 {
		m.readers[id] = restore
		m.debug("downgraded", ownership.Level{Readers: restore})
	}
	m.owner = 0
	m.writerDepth = 0
	m.folded = 0
	m.preUpgrade = 0
	m.mu.Unlock()

	m.writerGone.Broadcast()
}

// RLock locks m for reading.
func (m *FairMutex) RLock() {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner == id {
		m.writerDepth++
		m.folded++
		return
	}
	if depth := m.readers[id]; depth > 0 {
		m.readers[id] = depth + 1
		return
	}

	for m.writerDepth > 0 {
		m.writerGone.Wait()
	}
	m.readers[id] = 1
}

// RUnlock undoes a single RLock call.
func (m *FairMutex) RUnlock() {
	id := ownership.Current()
	m.mu.Lock()

	if m.owner == id {
		switch {
		case m.folded > 0:
			m.folded--
			m.writerDepth--
		case m.preUpgrade > 0:
			// Отпускаем чтение, взятое до апгрейда.
			m.preUpgrade--
		default:
			m.mu.Unlock()
			m.misuse(opRUnlock, errNotReader)
		}
		m.mu.Unlock()
		return
	}

	depth := m.readers[id]
	switch depth {
	case 0:
		m.mu.Unlock()
		m.misuse(opRUnlock, errNotReader)
	case 1:
		delete(m.readers, id)
	default:
		m.readers[id] = depth - 1
		m.mu.Unlock()
		return
	}

	notify := m.writerDepth > 0 && len(m.readers) == 0
	m.mu.Unlock()
	if notify {
		m.readersDrained.Signal()
	}
}

// TryLock upgrades only when the calling goroutine is the sole reader.
func (m *FairMutex) TryLock() bool {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner == id {
		m.writerDepth++
		return true
	}
	if m.writerDepth > 0 {
		return false
	}

	depth := m.readers[id]
	others := len(m.readers)
	if depth > 0 {
		others--
	}
	if others > 0 {
		return false
	}

	delete(m.readers, id)
	m.owner = id
	m.writerDepth = 1
	m.preUpgrade = depth
	return true
}

// TryRLock fails once another goroutine has claimed m for writing.
func (m *FairMutex) TryRLock() bool {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner == id {
		m.writerDepth++
		m.folded++
		return true
	}
	if depth := m.readers[id]; depth > 0 {
		m.readers[id] = depth + 1
		return true
	}
	if m.writerDepth > 0 {
		return false
	}
	m.readers[id] = 1
	return true
}

// IsLocked reports whether the calling goroutine is the writer.
func (m *FairMutex) IsLocked() bool {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner == id
}

// IsRLocked reports whether the calling goroutine holds m only for reading.
func (m *FairMutex) IsRLocked() bool {
	id := ownership.Current()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readers[id] > 0
}

// Stats returns the current state of m.
func (m *FairMutex) Stats() FairStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return FairStats{
		Owner:          m.owner,
		WriterDepth:    m.writerDepth,
		Readers:        len(m.readers),
		WaitingWriters: m.waitingWriters,
	}
}
