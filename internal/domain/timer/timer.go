// Package timer implements the focus countdown.
//
// A Timer moves through four states:
//
//	Idle     remaining == 0, not running
//	Armed    remaining  > 0, not running
//	Running  remaining  > 0, running
//	Expired  remaining == 0, not running, completion signal fired
//
// Exactly one tick source exists per run. Every Start opens a new run
// generation; Pause, Reset and Close end it, and a tick carrying a stale
// generation is dropped, so no tick lands after cancellation.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the externally visible timer state.
type State string

const (
	StateIdle    State = "idle"
	StateArmed   State = "armed"
	StateRunning State = "running"
	StateExpired State = "expired"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Snapshot is a point-in-time view of the timer.
type Snapshot struct {
	Remaining int    `json:"remaining_seconds"`
	Running   bool   `json:"running"`
	State     State  `json:"state"`
	Display   string `json:"display"`
}

// Timer is a single countdown clock. It is safe for concurrent use.
type Timer struct {
	mu        sync.Mutex
	remaining int
	running   bool
	expired   bool
	gen       uint64
	stop      chan struct{}

	clock    Clock
	sound    Sound
	logger   *slog.Logger
	onExpire func()
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock sets the tick source factory.
func WithClock(c Clock) Option {
	return func(t *Timer) { t.clock = c }
}

// WithSound sets the completion sound. The sound is created once by the
// caller and reused for every run.
func WithSound(s Sound) Option {
	return func(t *Timer) { t.sound = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithExpireHook registers fn to run once each time a run reaches zero.
// fn runs on the ticking goroutine without the timer lock held.
func WithExpireHook(fn func()) Option {
	return func(t *Timer) { t.onExpire = fn }
}

// New creates an idle timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		clock:  SystemClock{},
		sound:  BellSound{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetTime arms the timer with minutes*60+seconds and cancels any active
// run. Non-positive totals and negative components leave the timer as is.
func (t *Timer) SetTime(minutes, seconds int) bool {
	if minutes < 0 || seconds < 0 {
		return false
	}
	total := minutes*60 + seconds
	if total <= 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelRunLocked()
	t.remaining = total
	t.expired = false
	return true
}

// Start begins counting down. It reports false when there is nothing to
// count. Starting a running timer is a no-op that reports true.
//
// Before arming the tick source Start unlocks the completion sound; an
// unavailable sound is logged and does not prevent the run.
func (t *Timer) Start(ctx context.Context) bool {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return true
	}
	if t.remaining == 0 {
		t.mu.Unlock()
		return false
	}
	t.mu.Unlock()

	if err := t.sound.Unlock(ctx); err != nil {
		t.logger.Warn("audio unlock attempt failed", "error", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return true
	}
	if t.remaining == 0 {
		return false
	}

	t.gen++
	t.running = true
	t.expired = false
	t.stop = make(chan struct{})

	ticker := t.clock.NewTicker(TickInterval)
	go t.loop(t.gen, ticker, t.stop)

	return true
}

// Pause stops the run and keeps the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelRunLocked()
}

// Reset stops the run and clears the remaining time.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelRunLocked()
	t.remaining = 0
	t.expired = false
}

// Close releases the tick source. The timer keeps its remaining time.
func (t *Timer) Close() {
	t.Pause()
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Remaining: t.remaining,
		Running:   t.running,
		State:     t.stateLocked(),
		Display:   FormatTime(t.remaining),
	}
}

func (t *Timer) stateLocked() State {
	switch {
	case t.running:
		return StateRunning
	case t.remaining > 0:
		return StateArmed
	case t.expired:
		return StateExpired
	default:
		return StateIdle
	}
}

func (t *Timer) loop(gen uint64, ticker Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			t.tick(gen)
		}
	}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen || t.remaining == 0 {
		t.mu.Unlock()
		return
	}

	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}

	t.cancelRunLocked()
	t.expired = true
	t.mu.Unlock()

	t.complete()
}

func (t *Timer) complete() {
	if err := t.sound.Play(context.Background()); err != nil {
		t.logger.Warn("audio play failed", "error", err)
	}
	if t.onExpire != nil {
		t.onExpire()
	}
}

// cancelRunLocked ends the current run. Ticks already queued for it are
// discarded by the generation check.
func (t *Timer) cancelRunLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.running = false
	t.gen++
}

// FormatTime renders seconds as MM:SS. Minutes are not wrapped at 60.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
