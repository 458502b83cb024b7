package bridge

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPropertyChangedEmitsSingleProperty(t *testing.T) {
	p := newFakePlayer()
	p.props[propPause] = true
	b, em := newTestBridge(t, p, nil)

	b.propertyChanged(b.ctrl, "PlaybackStatus")

	if len(em.signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(em.signals))
	}
	sig := em.signals[0]
	if sig.path != pathMPRIS {
		t.Errorf("signal path = %v, want %v", sig.path, pathMPRIS)
	}
	if sig.name != sigPropertiesChanged {
		t.Errorf("signal name = %q, want %q", sig.name, sigPropertiesChanged)
	}
	if got := sig.values[0]; got != ifacePlayer {
		t.Errorf("interface argument = %v, want %q", got, ifacePlayer)
	}

	changed := sig.values[1].(map[string]dbus.Variant)
	if len(changed) != 1 {
		t.Fatalf("changed map names %d properties, want exactly 1: %v", len(changed), changed)
	}
	if got := changed["PlaybackStatus"].Value(); got != statusPaused {
		t.Errorf("PlaybackStatus = %v, want %q", got, statusPaused)
	}

	invalidated := sig.values[2].([]string)
	if len(invalidated) != 0 {
		t.Errorf("invalidated = %v, want empty", invalidated)
	}
}

func TestPropertyChangedRecomputesValue(t *testing.T) {
	p := newFakePlayer()
	p.props[propPause] = false
	b, em := newTestBridge(t, p, nil)

	b.propertyChanged(b.ctrl, "PlaybackStatus")
	p.props[propPause] = true
	b.propertyChanged(b.ctrl, "PlaybackStatus")

	if len(em.signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(em.signals))
	}
	first := em.signals[0].values[1].(map[string]dbus.Variant)["PlaybackStatus"].Value()
	second := em.signals[1].values[1].(map[string]dbus.Variant)["PlaybackStatus"].Value()
	if first != statusPlaying || second != statusPaused {
		t.Errorf("statuses = %v, %v, want %q then %q", first, second, statusPlaying, statusPaused)
	}
}

func TestPropertyChangedUnknownProperty(t *testing.T) {
	p := newFakePlayer()
	b, em := newTestBridge(t, p, nil)

	b.propertyChanged(b.ctrl, "NoSuchProperty")
	if len(em.signals) != 0 {
		t.Errorf("unknown property must not emit, got %v", em.signals)
	}
}

func TestPropertyChangedSkipsFailedGetter(t *testing.T) {
	p := newFakePlayer()
	b, em := newTestBridge(t, p, nil)
	b.ctrl.props["Rate"].get = func() (interface{}, error) {
		return nil, errors.New("getter broken")
	}

	b.propertyChanged(b.ctrl, "Rate")
	if len(em.signals) != 0 {
		t.Errorf("failed getter must not emit, got %v", em.signals)
	}
}

func TestSeekedEmittedOncePerSeek(t *testing.T) {
	p := newFakePlayer()
	p.props[propTimePos] = 12.5
	b, em := newTestBridge(t, p, nil)

	b.seekStarted()
	b.playbackRestarted()

	if len(em.signals) != 1 {
		t.Fatalf("expected 1 Seeked signal, got %d", len(em.signals))
	}
	sig := em.signals[0]
	if sig.name != sigSeeked {
		t.Errorf("signal name = %q, want %q", sig.name, sigSeeked)
	}
	if got := sig.values[0]; got != int64(12_500_000) {
		t.Errorf("Seeked position = %v, want 12500000", got)
	}

	// A later restart without a new seek stays silent.
	b.playbackRestarted()
	if len(em.signals) != 1 {
		t.Errorf("restart without seek emitted %d extra signals", len(em.signals)-1)
	}
}

func TestSeekedNotEmittedForBareRestart(t *testing.T) {
	p := newFakePlayer()
	b, em := newTestBridge(t, p, nil)

	b.playbackRestarted()
	if len(em.signals) != 0 {
		t.Errorf("bare playback restart must not emit Seeked, got %v", em.signals)
	}
}

func TestSeekedCoalescesConsecutiveSeeks(t *testing.T) {
	p := newFakePlayer()
	p.props[propTimePos] = 3.0
	b, em := newTestBridge(t, p, nil)

	b.seekStarted()
	b.seekStarted()
	b.playbackRestarted()

	if len(em.signals) != 1 {
		t.Errorf("two seeks before one restart emitted %d signals, want 1", len(em.signals))
	}
}

func TestSeekedStateRearms(t *testing.T) {
	p := newFakePlayer()
	p.props[propTimePos] = 1.0
	b, em := newTestBridge(t, p, nil)

	b.seekStarted()
	b.playbackRestarted()
	p.props[propTimePos] = 2.0
	b.seekStarted()
	b.playbackRestarted()

	if len(em.signals) != 2 {
		t.Fatalf("expected 2 Seeked signals, got %d", len(em.signals))
	}
	if got := em.signals[1].values[0]; got != int64(2_000_000) {
		t.Errorf("second Seeked position = %v, want 2000000", got)
	}
}
