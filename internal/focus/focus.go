// Package focus manipulates OS input focus for paste automation: capturing
// the foreground window before the picker UI is shown, force-restoring focus
// to it afterwards, naming the foreground application, and injecting the
// platform paste shortcut.
//
// Everything here is best-effort. A failed focus restore must never abort a
// paste; callers log and carry on.
package focus

import (
	"errors"
	"time"
)

// Window is an opaque platform window reference. Zero means "none captured".
type Window uintptr

// ErrFocusRestore indicates the captured window could not be brought back
// to the foreground. Best-effort: the paste proceeds regardless.
var ErrFocusRestore = errors.New("focus restore failed")

// KeyStepDelay separates the key transitions of the injected paste chord so
// target applications register discrete key events rather than one atomic
// chord.
const KeyStepDelay = 2 * time.Millisecond

// Automator is the platform focus/input implementation.
type Automator interface {
	// CaptureForeground snapshots the currently focused window.
	// Returns 0 when unobtainable.
	CaptureForeground() Window

	// Restore transfers input focus to w. Returns ErrFocusRestore (or a
	// wrapped platform error) when the transfer did not take effect.
	Restore(w Window) error

	// ForegroundApp returns a short label for the foreground application,
	// or "Unknown" when it cannot be determined.
	ForegroundApp() string

	// SendPasteChord simulates modifier-down, 'v', modifier-up with
	// KeyStepDelay between transitions. The modifier is Cmd on macOS and
	// Ctrl everywhere else.
	SendPasteChord() error
}
