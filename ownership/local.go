package ownership

import (
	"github.com/jtolds/gls"
)

var locals = gls.NewContextManager()

// Local stores counters in goroutine-local storage.
//
// A goroutine gets its counters by running inside Bind; no map lookup
// keyed by goroutine id is involved. Each Local has its own key, so one
// goroutine may be bound to several Locals at once.
type Local struct {
	key gls.ContextKey
}

// NewLocal creates a *Local with a fresh storage key.
func NewLocal() *Local {
	return &Local{key: gls.GenSym()}
}

// Bind runs fn with counters bound to the calling goroutine. If the
// goroutine is already bound, fn runs with the existing counters.
func (s *Local) Bind(fn func()) {
	if s.Bound() {
		fn()
		return
	}
	locals.SetValues(gls.Values{s.key: &Counters{}}, fn)
}

// Bound reports whether the calling goroutine runs inside Bind.
func (s *Local) Bound() bool {
	_, ok := locals.GetValue(s.key)
	return ok
}

// Counters fails with ErrUnbound outside of Bind.
func (s *Local) Counters() (*Counters, error) {
	v, ok := locals.GetValue(s.key)
	if !ok {
		return nil, ErrUnbound
	}
	return v.(*Counters), nil
}

func (s *Local) Peek() Level {
	v, ok := locals.GetValue(s.key)
	if !ok {
		return Level{}
	}
	return v.(*Counters).Load()
}

// Release is a no-op: counters live as long as the Bind call.
func (s *Local) Release(*Counters) {}
