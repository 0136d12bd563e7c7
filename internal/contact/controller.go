package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RevertDelay is how long success and error stay visible before the form
// returns to idle.
const RevertDelay = 3 * time.Second

var (
	// ErrSubmitDisabled is returned while a submission is in flight or its
	// success is still being shown.
	ErrSubmitDisabled = errors.New("submit is disabled")
	// ErrSubmitFailed wraps every transport or server failure.
	ErrSubmitFailed = errors.New("contact submission failed")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("contact form closed")
)

// Submitter performs the single outbound request of a submission.
type Submitter interface {
	Submit(ctx context.Context, data FormData) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, data FormData) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, data FormData) error {
	return f(ctx, data)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the clock used for the auto-revert timer.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRevertDelay overrides RevertDelay.
func WithRevertDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger sets the logger for submission failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the view state of one contact form: field values, the
// per-field error map, and the submission status.
//
// Observers registered with OnStatus are called in transition order, outside
// the state lock.
type Controller struct {
	submitter Submitter
	clock     Clock
	delay     time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	data      FormData
	errs      Errors
	status    Status
	revert    Timer
	cycle     uint64
	closed    bool
	observers []func(Status)

	// pending holds transitions not yet delivered; only the goroutine that
	// set delivering hands them to observers.
	pending    []Status
	delivering bool
}

// NewController returns an idle controller with empty fields.
func NewController(s Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: s,
		clock:     realClock{},
		delay:     RevertDelay,
		logger:    zap.NewNop(),
		errs:      Errors{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnStatus registers fn to be called with every new status.
func (c *Controller) OnStatus(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Set updates one field. An active error on that field is cleared; other
// errors are left alone. Edits are ignored while a submission is in flight.
func (c *Controller) Set(f Field, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return false
	}
	c.data = c.data.With(f, value)
	if c.errs.Has(f) {
		delete(c.errs, f)
	}
	return true
}

// Data returns the current field values.
func (c *Controller) Data() FormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Errors returns a copy of the field error map.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.Clone()
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CanSubmit reports whether the submit control is enabled.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	return c.status != StatusSubmitting && c.status != StatusSuccess
}

// Submit validates the form and, if it is valid, sends it. Validation
// failures return a *ValidationError without leaving the current status.
// Send failures move the form to StatusError and return an error wrapping
// ErrSubmitFailed; the fields are kept. On success the fields are cleared.
// Either outcome reverts to StatusIdle after the revert delay.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.canSubmitLocked() {
		c.mu.Unlock()
		return ErrSubmitDisabled
	}

	errs := Validate(c.data)
	c.errs = errs
	if len(errs) > 0 {
		c.mu.Unlock()
		return &ValidationError{Fields: errs.Clone()}
	}

	// A new cycle supersedes any pending revert from the previous one.
	c.stopRevertLocked()
	c.cycle++
	var changes []Status
	if c.status == StatusError {
		c.status, _ = Next(c.status, EventRevert)
		changes = append(changes, c.status)
	}
	c.status, _ = Next(c.status, EventSubmit)
	changes = append(changes, c.status)
	data := c.data
	c.unlockAndNotify(changes...)

	err := c.submitter.Submit(ctx, data)

	c.mu.Lock()
	if err != nil {
		c.status, _ = Next(c.status, EventFailed)
	} else {
		c.status, _ = Next(c.status, EventSucceeded)
		c.data = FormData{}
	}
	c.scheduleRevertLocked()
	c.unlockAndNotify(c.status)

	if err != nil {
		c.logger.Warn("contact submission failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	return nil
}

// Close stops the pending auto-revert. The controller rejects further
// submissions.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopRevertLocked()
}

func (c *Controller) stopRevertLocked() {
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
}

func (c *Controller) scheduleRevertLocked() {
	c.stopRevertLocked()
	if c.closed {
		return
	}
	cycle := c.cycle
	c.revert = c.clock.AfterFunc(c.delay, func() { c.expire(cycle) })
}

// expire reverts a terminal status, unless a newer cycle has started since
// the timer was scheduled.
func (c *Controller) expire(cycle uint64) {
	c.mu.Lock()
	if c.cycle != cycle || !c.status.Terminal() {
		c.mu.Unlock()
		return
	}
	c.revert = nil
	c.status, _ = Next(c.status, EventRevert)
	c.unlockAndNotify(c.status)
}

// unlockAndNotify queues changes and releases mu. If no other goroutine is
// delivering, this one drains the queue to the observers.
func (c *Controller) unlockAndNotify(changes ...Status) {
	c.pending = append(c.pending, changes...)
	if c.delivering || len(c.observers) == 0 {
		if len(c.observers) == 0 {
			c.pending = nil
		}
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for len(c.pending) > 0 {
		batch := c.pending
		c.pending = nil
		observers := append([]func(Status)(nil), c.observers...)
		c.mu.Unlock()
		for _, s := range batch {
			for _, fn := range observers {
				fn(s)
			}
		}
		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}
