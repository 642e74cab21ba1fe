package srmutex

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gitlab.com/slon/srmutex/ownership"
)

// ErrMisuse marks violations of the locking discipline.
var ErrMisuse = errors.New("srmutex: misuse")

var (
	errNotWriter = errors.New("not locked for writing by this goroutine")
	errNotReader = errors.New("not locked for reading by this goroutine")
)

// MisuseError is the panic value of a lock whose locking discipline was
// broken. It is a programming error, not a condition to recover from.
type MisuseError struct {
	Lock      string
	Op        string
	Goroutine ownership.ID
	Err       error
}

func (e *MisuseError) Error() string {
	if e.Lock == "" {
		return fmt.Sprintf("srmutex: %s by goroutine %d: %v", e.Op, e.Goroutine, e.Err)
	}
	return fmt.Sprintf("srmutex: %s %q by goroutine %d: %v", e.Op, e.Lock, e.Goroutine, e.Err)
}

func (e *MisuseError) Is(target error) bool {
	return target == ErrMisuse
}

func (e *MisuseError) Unwrap() error {
	return e.Err
}

const (
	opLock     = "Lock"
	opUnlock   = "Unlock"
	opRLock    = "RLock"
	opRUnlock  = "RUnlock"
	opTryLock  = "TryLock"
	opTryRLock = "TryRLock"
)

// reporter is shared by all lock kinds for logging.
type reporter struct {
	name string
	log  *zap.Logger
}

func (r *reporter) misuse(op string, err error) {
	e := &MisuseError{
		Lock:      r.name,
		Op:        op,
		Goroutine: ownership.Current(),
		Err:       err,
	}
	r.log.Error("lock misuse", zap.String("op", op), zap.Int64("goroutine", e.Goroutine), zap.Error(err))
	panic(e)
}

func (r *reporter) debug(msg string, level ownership.Level) {
	if ce := r.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(
			zap.Int64("goroutine", ownership.Current()),
			zap.Uint32("readers", level.Readers),
			zap.Uint32("writers", level.Writers),
		)
	}
}
