package transport

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"habitpet/internal/app/store"
	"habitpet/internal/pkg/logx"
)

// Coordinator connects auth failures seen by the Transport to whoever owns the
// session, without the Transport depending on it.
//
// It is armed while an authenticated session exists. The first Trigger after arming
// clears the persisted session, disarms, and runs the registered callback. Further
// triggers are no-ops until Arm is called again.
type Coordinator struct {
	mu       sync.Mutex
	callback func()
	armed    bool

	session *store.Session
	logger  zerolog.Logger
}

func NewCoordinator(session *store.Session) *Coordinator {
	return &Coordinator{
		session: session,
		logger:  logx.Component("auto_logout"),
	}
}

// Register sets the callback run on auto-logout. The last registration wins.
func (c *Coordinator) Register(cb func()) {
	c.mu.Lock()
	c.callback = cb
	c.mu.Unlock()
}

// Arm enables the next Trigger. Called when a session becomes authenticated.
func (c *Coordinator) Arm() {
	c.mu.Lock()
	c.armed = true
	c.mu.Unlock()
}

// Disarm makes triggers no-ops. Called on voluntary logout.
func (c *Coordinator) Disarm() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()
}

// Armed reports whether the next Trigger will take effect.
func (c *Coordinator) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// Trigger runs the auto-logout once per armed session and reports whether it did.
// The callback runs after the store is cleared and outside the lock.
func (c *Coordinator) Trigger(ctx context.Context) bool {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return false
	}
	c.armed = false

	if err := c.session.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear persisted session")
	}
	cb := c.callback
	c.mu.Unlock()

	c.logger.Warn().Bool("has_callback", cb != nil).Msg("Session rejected by backend, logging out")

	if cb != nil {
		cb()
	}
	return true
}
