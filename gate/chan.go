package gate

// Chan is a reader/writer Gate built from channels.
//
// The writer token lives in w; the first reader takes it on behalf of all
// readers and the last one puts it back. r guards the reader count.
// Readers are preferred: a steady stream of readers starves writers.
type Chan struct {
	w       chan struct{}
	r       chan struct{}
	readers int
}

// NewChan creates *Chan.
func NewChan() *Chan {
	g := &Chan{
		w: make(chan struct{}, 1),
		r: make(chan struct{}, 1),
	}
	g.w <- struct{}{}
	g.r <- struct{}{}
	return g
}

// RLock locks g for reading.
func (g *Chan) RLock() {
	<-g.r
	if g.readers == 0 {
		<-g.w
	}
	g.readers++
	g.r <- struct{}{}
}

// RUnlock undoes a single RLock call.
// It is a run-time error if g is not locked for reading.
func (g *Chan) RUnlock() {
	<-g.r
	if g.readers == 0 {
		g.r <- struct{}{}
		panic("gate: RUnlock of unlocked Chan")
	}
	g.readers--
	if g.readers == 0 {
		g.w <- struct{}{}
	}
	g.r <- struct{}{}
}

// Lock locks g for writing.
func (g *Chan) Lock() {
	<-g.w
}

// Unlock unlocks g for writing.
// It is a run-time error if g is not locked for writing.
func (g *Chan) Unlock() {
	select {
	case g.w <- struct{}{}:
	default:
		panic("gate: Unlock of unlocked Chan")
	}
}

// TryLock locks g for writing if no one holds it.
func (g *Chan) TryLock() bool {
	select {
	case <-g.w:
		return true
	default:
		return false
	}
}

// TryRLock fails if another goroutine is in the middle of RLock or
// RUnlock, even when the gate is free for reading.
func (g *Chan) TryRLock() bool {
	select {
	case <-g.r:
	default:
		return false
	}
	if g.readers == 0 {
		select {
		case <-g.w:
		default:
			g.r <- struct{}{}
			return false
		}
	}
	g.readers++
	g.r <- struct{}{}
	return true
}
