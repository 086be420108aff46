//go:build !darwin && !windows && !linux

package focus

type stubAutomator struct{}

// New returns a no-op automator for platforms without input automation.
func New() Automator { return stubAutomator{} }

func (stubAutomator) CaptureForeground() Window { return 0 }
func (stubAutomator) Restore(Window) error      { return nil }
func (stubAutomator) ForegroundApp() string     { return "Unknown" }
func (stubAutomator) SendPasteChord() error     { return nil }
