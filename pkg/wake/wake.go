// Package wake implements the Wake Trigger: a debounced one-shot that
// emits a wake signal to the backend and suppresses re-emission for a
// cooldown window.
package wake

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Cooldown is the fixed window during which a wake signal is suppressed
// after having fired, per spec §3 WakeState.
const Cooldown = 60 * time.Second

// Func is the abstract wake capability: an external side-effecting
// operation invoked with the configured backend identifier. The mechanism
// (Wake-on-LAN magic packet, IPMI call, whatever) is not part of the core;
// see DefaultMagicPacketFunc for the concrete default.
type Func func(backendID string) error

// Trigger is process-wide mutable state guarding at-most-one outstanding
// wake per cooldown window. The zero value is not usable; construct with
// New.
type Trigger struct {
	backendID string
	wake      Func

	// sometimes serializes the debounce decision: Do runs its argument at
	// most once per Cooldown, which is exactly the "at most one wake
	// signal per true->false cycle" invariant in spec §3.
	sometimes rate.Sometimes
	waking    atomic.Bool

	mu        sync.Mutex
	coalesced deque.Deque[string] // player names whose request coalesced into the in-flight wake
}

// New returns a Trigger that invokes wake(backendID) on the first Request
// of each cooldown cycle.
func New(backendID string, wake Func) *Trigger {
	return &Trigger{
		backendID: backendID,
		wake:      wake,
		sometimes: rate.Sometimes{Interval: Cooldown},
	}
}

// Request asks the trigger to wake the backend on behalf of player. If a
// wake is already in flight, the request is coalesced and logged but no
// second signal is emitted.
func (t *Trigger) Request(player string) {
	fired := false
	t.sometimes.Do(func() {
		fired = true
		t.waking.Store(true)
		time.AfterFunc(Cooldown, t.reset)

		if err := t.wake(t.backendID); err != nil {
			zap.L().Error("wake: failed to emit wake signal",
				zap.String("backend", t.backendID), zap.Error(err))
			return
		}
		zap.L().Info("wake: signal emitted",
			zap.String("backend", t.backendID), zap.String("player", player))
	})
	if !fired {
		t.mu.Lock()
		t.coalesced.PushBack(player)
		pending := t.coalesced.Len()
		t.mu.Unlock()
		zap.L().Debug("wake: request coalesced into in-flight wake",
			zap.String("player", player), zap.Int("pending", pending))
	}
}

// Waking reports whether a wake is currently in its cooldown window.
func (t *Trigger) Waking() bool {
	return t.waking.Load()
}

func (t *Trigger) reset() {
	t.waking.Store(false)
	t.mu.Lock()
	t.coalesced.Clear()
	t.mu.Unlock()
}
