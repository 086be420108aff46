//go:build linux

package focus

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type linuxAutomator struct{}

// New returns the Linux (X11) focus automator, built on xdotool. Every call
// degrades to a no-op / "Unknown" when xdotool is absent or the session is
// Wayland without XWayland.
func New() Automator { return linuxAutomator{} }

func (linuxAutomator) CaptureForeground() Window {
	out, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0
	}
	return Window(id)
}

func (linuxAutomator) Restore(w Window) error {
	if w == 0 {
		return nil
	}
	if err := exec.Command("xdotool", "windowactivate", strconv.FormatUint(uint64(w), 10)).Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrFocusRestore, err)
	}
	return nil
}

func (linuxAutomator) ForegroundApp() string {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return "Unknown"
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "Unknown"
	}
	return name
}

func (linuxAutomator) SendPasteChord() error {
	time.Sleep(KeyStepDelay)
	if err := exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v").Run(); err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}
	return nil
}
