package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/snappaste/snappaste/internal/focus"
)

// Session holds the shared coordination state of the monitoring core:
// the single-active-session contract, the last-seen signature slot, the
// paste mutual-exclusion and echo-suppression flags, and the captured
// target window. One Session is constructed per process and shared by
// every spawned loop, instead of hiding the same state in package globals.
//
// None of the locks here are ever held across clipboard or window I/O.
type Session struct {
	active     atomic.Bool
	generation atomic.Uint64

	// Last-seen signature slot. hasSig distinguishes "nothing observed
	// yet" from an observed empty signature.
	sigMu   sync.Mutex
	lastSig string
	hasSig  bool

	// ignoreNext suppresses the echo of the core's own clipboard write:
	// set before a self-write, consumed by exactly one subsequent
	// change-processing pass.
	ignoreNext atomic.Bool

	// pasteInProgress gates detection while a paste runs. Checked, not
	// locked — a detector may still race into a read, which is why
	// ignoreNext is the authoritative de-duplication mechanism.
	pasteInProgress atomic.Bool

	// lastImageRecord is the unix-millisecond timestamp of the most recent
	// persisted image record, for burst throttling.
	lastImageRecord atomic.Int64

	// targetWindow is the window to restore focus to on the next paste.
	// Write-on-capture, swap-on-consume; last capture wins.
	targetWindow atomic.Uintptr
}

// NewSession returns an inactive session.
func NewSession() *Session {
	return &Session{}
}

// Activate marks the session active. Returns false when it already was —
// the caller must not start a second monitoring loop.
func (s *Session) Activate() bool {
	return !s.active.Swap(true)
}

// Deactivate flips the session inactive and bumps the generation so every
// running loop observes non-membership on its next liveness check.
func (s *Session) Deactivate() {
	s.active.Store(false)
	s.generation.Add(1)
}

// NextGeneration allocates a generation strictly greater than any previous.
func (s *Session) NextGeneration() uint64 {
	return s.generation.Add(1)
}

// Live reports whether the session is active and gen is still the current
// generation. Every loop iteration re-checks this before and after any
// blocking operation and terminates once it returns false; that is the only
// cancellation mechanism — there is no shared teardown signal.
func (s *Session) Live(gen uint64) bool {
	return s.active.Load() && s.generation.Load() == gen
}

// SeedSignature resets the last-seen slot from a one-time startup read, so
// the first change after start is measured against present clipboard state.
func (s *Session) SeedSignature(sig string, ok bool) {
	s.sigMu.Lock()
	s.lastSig, s.hasSig = sig, ok
	s.sigMu.Unlock()
}

// UpdateSignature compares sig against the last-seen slot and stores it.
// Returns false when the clipboard is unchanged. Signature equality is the
// sole change criterion.
func (s *Session) UpdateSignature(sig string) bool {
	s.sigMu.Lock()
	defer s.sigMu.Unlock()
	if s.hasSig && s.lastSig == sig {
		return false
	}
	s.lastSig, s.hasSig = sig, true
	return true
}

// SetIgnoreNext arms echo suppression for the next observed change.
func (s *Session) SetIgnoreNext() {
	s.ignoreNext.Store(true)
}

// ConsumeIgnoreNext test-and-clears the echo suppression flag.
func (s *Session) ConsumeIgnoreNext() bool {
	return s.ignoreNext.Swap(false)
}

// PasteInProgress reports whether a paste operation is currently running.
func (s *Session) PasteInProgress() bool {
	return s.pasteInProgress.Load()
}

// WithPasteInProgress runs f with the paste flag set, guaranteeing reset on
// every exit path.
func (s *Session) WithPasteInProgress(f func() error) error {
	s.pasteInProgress.Store(true)
	defer s.pasteInProgress.Store(false)
	return f()
}

// ImageIntervalElapsed reports whether at least min has passed since the
// last persisted image record.
func (s *Session) ImageIntervalElapsed(now time.Time, min time.Duration) bool {
	last := s.lastImageRecord.Load()
	return now.UnixMilli()-last >= min.Milliseconds()
}

// MarkImageRecorded stamps the image burst throttle.
func (s *Session) MarkImageRecorded(now time.Time) {
	s.lastImageRecord.Store(now.UnixMilli())
}

// StoreTarget records the window to restore focus to. Last capture wins.
func (s *Session) StoreTarget(w focus.Window) {
	s.targetWindow.Store(uintptr(w))
}

// ConsumeTarget clears and returns the captured target window.
func (s *Session) ConsumeTarget() focus.Window {
	return focus.Window(s.targetWindow.Swap(0))
}
