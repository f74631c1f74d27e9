package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"habitpet/internal/pkg/errs"
)

// Outcome records the last failed operation of a service so the screen layer can
// show its message.
type Outcome struct {
	mu  sync.Mutex
	err error
}

// Err returns the last recorded failure, or nil after a success.
func (o *Outcome) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Message returns the backend message of the last failure, or fallback.
// It is empty after a success or an expired session.
func (o *Outcome) Message(fallback string) string {
	err := o.Err()
	if err == nil || errs.Classify(err) == errs.KindAuthExpired {
		return ""
	}
	return errs.MessageOf(err, fallback)
}

func (o *Outcome) set(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()
}

// Attempt runs fn and converts its result into a bool. Errors and panics are
// logged and recorded in o; nothing propagates to the caller.
func Attempt(ctx context.Context, logger zerolog.Logger, o *Outcome, op string, fn func(ctx context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s: %v", op, r)
			logger.Error().Err(err).Str("op", op).Msg("Operation panicked")
			if o != nil {
				o.set(err)
			}
			ok = false
		}
	}()

	err := fn(ctx)
	if o != nil {
		o.set(err)
	}
	if err != nil {
		logFailure(logger, op, err)
		return false
	}
	return true
}

// logFailure logs at a level matching the failure kind. Expired sessions are
// already handled by the auto-logout and only logged at debug level.
func logFailure(logger zerolog.Logger, op string, err error) {
	kind := errs.Classify(err)

	var rejected *errs.RejectedError
	event := logger.Warn()
	switch {
	case kind == errs.KindAuthExpired:
		event = logger.Debug()
	case errors.As(err, &rejected):
		event = logger.Info()
	case kind == errs.KindUnknown:
		event = logger.Error()
	}

	event.Err(err).Str("op", op).Str("kind", kind.String()).Msg("Operation failed")
}
