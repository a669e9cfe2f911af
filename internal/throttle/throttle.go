// Package throttle enforces the notification cooldown: at most one outbound
// notification per cooldown window, driven by present/absent frame decisions.
package throttle

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// State records when the last notification fired. The zero value means never
// notified.
type State struct {
	LastNotification time.Time
}

// Notified reports whether a notification has ever fired.
func (s State) Notified() bool {
	return !s.LastNotification.IsZero()
}

// TryAllow is the pure cooldown transition. An absent decision never starts or
// resets the cooldown. A present decision is allowed when no notification has
// fired yet or the cooldown has elapsed since the last one; allowing stamps
// the state with now. A cooldown of zero allows every present decision.
func TryAllow(now time.Time, state State, present bool, cooldown time.Duration) (bool, State) {
	if !present {
		return false, state
	}
	if state.Notified() && now.Sub(state.LastNotification) < cooldown {
		return false, state
	}
	return true, State{LastNotification: now}
}

// Gate wraps TryAllow with a mutex and an injected clock so the live pipeline
// gets an atomic read-compare-write even if other goroutines (IPC status,
// a future settings surface) touch the throttle concurrently. Two allowed
// outcomes can never be less than the cooldown apart.
type Gate struct {
	mu       sync.Mutex
	clk      clock.Clock
	state    State
	cooldown time.Duration
}

// NewGate builds a gate with the given cooldown. A nil clock uses wall time.
func NewGate(cooldown time.Duration, clk clock.Clock) *Gate {
	if clk == nil {
		clk = clock.New()
	}
	return &Gate{clk: clk, cooldown: cooldown}
}

// TryAllow applies the cooldown transition at the current clock time.
func (g *Gate) TryAllow(present bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	allowed, next := TryAllow(g.clk.Now(), g.state, present, g.cooldown)
	g.state = next
	return allowed
}

// LastNotification returns the time of the most recent allowed notification
// and whether one has fired.
func (g *Gate) LastNotification() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.LastNotification, g.state.Notified()
}

// Cooldown returns the configured cooldown window.
func (g *Gate) Cooldown() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cooldown
}
