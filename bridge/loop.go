package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// mergeTimeout merges the host player's next scheduled deadline with the
// transport's pending-call deadline into a single wait bound. A negative
// input means "no limit" on that side. The result is the minimum of the
// two, floored at zero, or -1 when neither side has a deadline.
func mergeTimeout(host, bus time.Duration) time.Duration {
	switch {
	case host < 0 && bus < 0:
		return -1
	case host < 0:
		host = bus
	case bus < 0:
		bus = host
	}

	merged := host
	if bus < merged {
		merged = bus
	}
	if merged < 0 {
		merged = 0
	}
	return merged
}

// invoke hands a bus request to the event loop and waits for its reply.
// Every exported handler funnels through here, so all player access runs
// on the loop goroutine, run-to-completion.
func (b *Bridge) invoke(fn func() *dbus.Error) *dbus.Error {
	call := &busCall{
		run:      fn,
		done:     make(chan *dbus.Error, 1),
		deadline: time.Now().Add(b.callTimeout),
	}

	select {
	case b.calls <- call:
	case <-b.stopped:
		return dbus.MakeFailedError(errors.New("service is shutting down"))
	}

	select {
	case derr := <-call.done:
		return derr
	case <-b.stopped:
		return dbus.MakeFailedError(errors.New("service is shutting down"))
	}
}

func (b *Bridge) thunk(fn func() *dbus.Error) func() *dbus.Error {
	return func() *dbus.Error {
		return b.invoke(fn)
	}
}

func (b *Bridge) thunkInt(fn func(int64) *dbus.Error) func(int64) *dbus.Error {
	return func(v int64) *dbus.Error {
		return b.invoke(func() *dbus.Error { return fn(v) })
	}
}

func (b *Bridge) thunkStr(fn func(string) *dbus.Error) func(string) *dbus.Error {
	return func(v string) *dbus.Error {
		return b.invoke(func() *dbus.Error { return fn(v) })
	}
}

func (b *Bridge) thunkPos(fn func(dbus.ObjectPath, int64) *dbus.Error) func(dbus.ObjectPath, int64) *dbus.Error {
	return func(p dbus.ObjectPath, v int64) *dbus.Error {
		return b.invoke(func() *dbus.Error { return fn(p, v) })
	}
}

// Run is the event loop. Each iteration waits on the player's wakeup
// channel and the bus-call queue, bounded by the merged timeout, then
// serves pending bus requests before dispatching the player's own events.
// It returns when the player stops running, the context is cancelled, or
// event dispatch fails.
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.stopped)

	for b.player.Running() {
		wait := mergeTimeout(b.player.NextTimeout(), b.pendingTimeout())

		var timer *time.Timer
		var timerC <-chan time.Time
		if wait >= 0 {
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-b.player.Wakeup():
		case call := <-b.calls:
			b.queued = append(b.queued, call)
		case <-timerC:
		}
		if timer != nil {
			timer.Stop()
		}

		// Bus messages first, then the player's own pending events.
		b.processCalls()
		if err := b.player.Dispatch(); err != nil {
			return fmt.Errorf("player event dispatch: %w", err)
		}
	}

	return nil
}

// pendingTimeout returns the time until the earliest queued bus call
// expires, or -1 when nothing is queued.
func (b *Bridge) pendingTimeout() time.Duration {
	if len(b.queued) == 0 {
		return -1
	}
	earliest := b.queued[0].deadline
	for _, call := range b.queued[1:] {
		if call.deadline.Before(earliest) {
			earliest = call.deadline
		}
	}
	d := time.Until(earliest)
	if d < 0 {
		return 0
	}
	return d
}

// processCalls drains the call channel and serves every queued request.
// Requests that outlived their deadline are answered with a failure
// instead of being run.
func (b *Bridge) processCalls() {
	draining := true
	for draining {
		select {
		case call := <-b.calls:
			b.queued = append(b.queued, call)
		default:
			draining = false
		}
	}

	for _, call := range b.queued {
		if time.Now().After(call.deadline) {
			call.done <- dbus.MakeFailedError(&CallExpiredError{})
			continue
		}
		call.done <- call.run()
	}
	b.queued = b.queued[:0]
}
