//go:build darwin

package focus

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type darwinAutomator struct{}

// New returns the macOS focus automator. macOS raises the previous
// application automatically when the picker window hides, so capture and
// restore are no-ops; the chord and source-app lookup go through osascript.
func New() Automator { return darwinAutomator{} }

func (darwinAutomator) CaptureForeground() Window { return 0 }
func (darwinAutomator) Restore(Window) error      { return nil }

func (darwinAutomator) ForegroundApp() string {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of first process whose frontmost is true`).Output()
	if err != nil {
		return "Unknown"
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "Unknown"
	}
	return name
}

// SendPasteChord injects Cmd+V. The paste modifier on macOS is Command,
// not Control.
func (darwinAutomator) SendPasteChord() error {
	time.Sleep(KeyStepDelay)
	err := exec.Command("osascript", "-e",
		`tell application "System Events" to keystroke "v" using command down`).Run()
	if err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}
	return nil
}
