package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestMergeTimeout(t *testing.T) {
	tests := []struct {
		name string
		host time.Duration
		bus  time.Duration
		want time.Duration
	}{
		{"no deadlines", -1, -1, -1},
		{"host only", 300 * time.Millisecond, -1, 300 * time.Millisecond},
		{"bus only", -1, 300 * time.Millisecond, 300 * time.Millisecond},
		{"bus sooner", 500 * time.Millisecond, 200 * time.Millisecond, 200 * time.Millisecond},
		{"host sooner", 200 * time.Millisecond, 500 * time.Millisecond, 200 * time.Millisecond},
		{"equal", time.Second, time.Second, time.Second},
		{"zero host", 0, -1, 0},
		{"zero bus", -1, 0, 0},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeTimeout(tt.host, tt.bus); got != tt.want {
				t.Errorf("mergeTimeout(%v, %v) = %v, want %v", tt.host, tt.bus, got, tt.want)
			}
		})
	}
}

func TestMergeTimeoutNeverNegativeWithDeadline(t *testing.T) {
	// Any combination with at least one deadline must yield >= 0.
	values := []time.Duration{-1, 0, time.Millisecond, time.Second}
	for _, host := range values {
		for _, bus := range values {
			got := mergeTimeout(host, bus)
			if host < 0 && bus < 0 {
				if got != -1 {
					t.Errorf("mergeTimeout(%v, %v) = %v, want -1", host, bus, got)
				}
				continue
			}
			if got < 0 {
				t.Errorf("mergeTimeout(%v, %v) = %v, must not be negative", host, bus, got)
			}
		}
	}
}

func TestPendingTimeout(t *testing.T) {
	p := newFakePlayer()
	b, _ := newTestBridge(t, p, nil)

	if got := b.pendingTimeout(); got != -1 {
		t.Errorf("pendingTimeout() with empty queue = %v, want -1", got)
	}

	b.queued = []*busCall{
		{deadline: time.Now().Add(time.Hour)},
		{deadline: time.Now().Add(time.Minute)},
	}
	got := b.pendingTimeout()
	if got <= 0 || got > time.Minute {
		t.Errorf("pendingTimeout() = %v, want the earliest deadline (about a minute)", got)
	}

	b.queued = []*busCall{{deadline: time.Now().Add(-time.Second)}}
	if got := b.pendingTimeout(); got != 0 {
		t.Errorf("pendingTimeout() with expired call = %v, want 0", got)
	}
}

func TestProcessCallsServesQueuedRequests(t *testing.T) {
	p := newFakePlayer()
	b, _ := newTestBridge(t, p, nil)

	ran := false
	call := &busCall{
		run:      func() *dbus.Error { ran = true; return nil },
		done:     make(chan *dbus.Error, 1),
		deadline: time.Now().Add(time.Second),
	}
	b.queued = append(b.queued, call)

	b.processCalls()

	if !ran {
		t.Error("queued call did not run")
	}
	if derr := <-call.done; derr != nil {
		t.Errorf("call replied %v, want nil", derr)
	}
	if len(b.queued) != 0 {
		t.Errorf("queue not drained: %d left", len(b.queued))
	}
}

func TestProcessCallsExpiresStaleRequests(t *testing.T) {
	p := newFakePlayer()
	b, _ := newTestBridge(t, p, nil)

	ran := false
	call := &busCall{
		run:      func() *dbus.Error { ran = true; return nil },
		done:     make(chan *dbus.Error, 1),
		deadline: time.Now().Add(-time.Second),
	}
	b.queued = append(b.queued, call)

	b.processCalls()

	if ran {
		t.Error("expired call must not run")
	}
	if derr := <-call.done; derr == nil {
		t.Error("expired call should reply with an error")
	}
}

func TestRunServesInvokedCalls(t *testing.T) {
	p := newFakePlayer()
	b, _ := newTestBridge(t, p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- b.Run(ctx) }()

	ran := make(chan struct{})
	if derr := b.invoke(func() *dbus.Error {
		close(ran)
		return nil
	}); derr != nil {
		t.Fatalf("invoke() replied %v, want nil", derr)
	}

	select {
	case <-ran:
	default:
		t.Error("invoked function did not run before the reply")
	}

	cancel()
	select {
	case err := <-loopDone:
		if err != nil {
			t.Errorf("Run() = %v, want nil on context cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after context cancel")
	}
}

func TestRunReturnsWhenPlayerStops(t *testing.T) {
	p := newFakePlayer()
	p.running = false
	b, _ := newTestBridge(t, p, nil)

	if err := b.Run(context.Background()); err != nil {
		t.Errorf("Run() with stopped player = %v, want nil", err)
	}
}

func TestInvokeAfterShutdownFails(t *testing.T) {
	p := newFakePlayer()
	p.running = false
	b, _ := newTestBridge(t, p, nil)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if derr := b.invoke(func() *dbus.Error { return nil }); derr == nil {
		t.Error("invoke() after shutdown should fail")
	}
}
