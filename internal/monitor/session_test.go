package monitor

import (
	"testing"
	"time"

	"github.com/snappaste/snappaste/internal/focus"
)

func TestSessionSingleActive(t *testing.T) {
	s := NewSession()

	if !s.Activate() {
		t.Fatal("first Activate returned false")
	}
	if s.Activate() {
		t.Error("second Activate must return false while active")
	}

	s.Deactivate()
	if !s.Activate() {
		t.Error("Activate after Deactivate returned false")
	}
}

func TestSessionGenerationSupersedes(t *testing.T) {
	s := NewSession()

	s.Activate()
	gen := s.NextGeneration()
	if !s.Live(gen) {
		t.Fatal("fresh generation not live")
	}

	s.Deactivate()
	if s.Live(gen) {
		t.Error("generation live after Deactivate")
	}

	// A restart starts a newer generation; the old one stays dead even
	// though the session is active again.
	s.Activate()
	gen2 := s.NextGeneration()
	if s.Live(gen) {
		t.Error("superseded generation reported live")
	}
	if !s.Live(gen2) {
		t.Error("current generation not live")
	}
}

func TestSignatureSlot(t *testing.T) {
	s := NewSession()

	// Nothing observed yet: the first signature always counts as a change.
	if !s.UpdateSignature("text:a") {
		t.Error("first signature not a change")
	}
	if s.UpdateSignature("text:a") {
		t.Error("identical signature reported as change")
	}
	if !s.UpdateSignature("text:b") {
		t.Error("new signature not a change")
	}

	s.SeedSignature("text:seeded", true)
	if s.UpdateSignature("text:seeded") {
		t.Error("seeded signature reported as change")
	}

	// Seeding with ok=false clears the slot entirely.
	s.SeedSignature("", false)
	if !s.UpdateSignature("text:seeded") {
		t.Error("signature after cleared slot not a change")
	}
}

func TestIgnoreNextConsumedOnce(t *testing.T) {
	s := NewSession()

	if s.ConsumeIgnoreNext() {
		t.Error("flag set without arming")
	}
	s.SetIgnoreNext()
	if !s.ConsumeIgnoreNext() {
		t.Error("armed flag not consumed")
	}
	if s.ConsumeIgnoreNext() {
		t.Error("flag survived consumption")
	}
}

func TestWithPasteInProgressAlwaysResets(t *testing.T) {
	s := NewSession()

	var sawFlag bool
	s.WithPasteInProgress(func() error {
		sawFlag = s.PasteInProgress()
		return nil
	})
	if !sawFlag {
		t.Error("flag not set inside the callback")
	}
	if s.PasteInProgress() {
		t.Error("flag not reset after success")
	}

	defer func() {
		recover()
		if s.PasteInProgress() {
			t.Error("flag not reset after panic")
		}
	}()
	s.WithPasteInProgress(func() error { panic("boom") })
}

func TestImageInterval(t *testing.T) {
	s := NewSession()
	now := time.Now()

	// Never recorded: the gate is open.
	if !s.ImageIntervalElapsed(now, time.Second) {
		t.Error("gate closed before any image record")
	}

	s.MarkImageRecorded(now)
	if s.ImageIntervalElapsed(now.Add(500*time.Millisecond), time.Second) {
		t.Error("gate open inside the interval")
	}
	if !s.ImageIntervalElapsed(now.Add(time.Second), time.Second) {
		t.Error("gate closed at the interval boundary")
	}
}

func TestTargetWindowConsumeOnce(t *testing.T) {
	s := NewSession()

	if s.ConsumeTarget() != 0 {
		t.Error("fresh session holds a target")
	}

	s.StoreTarget(focus.Window(7))
	s.StoreTarget(focus.Window(9)) // last capture wins
	if got := s.ConsumeTarget(); got != 9 {
		t.Errorf("ConsumeTarget = %d, want 9", got)
	}
	if s.ConsumeTarget() != 0 {
		t.Error("target survived consumption")
	}
}
