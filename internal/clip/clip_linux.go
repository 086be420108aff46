//go:build linux

package clip

import (
	"context"
	"log/slog"

	"golang.design/x/clipboard"
)

type linuxBackend struct {
	golangDesignBackend
}

// New returns the Linux clipboard backend, or a headless no-op backend if
// the display environment is unavailable (e.g. a headless server without X11
// or Wayland). clipboard.Init is called here rather than in init() so that
// CLI sub-commands that never construct a Backend don't trigger the warning.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return &linuxBackend{}
}

func (b *linuxBackend) Name() string { return "Linux clipboard (poll)" }

// Subscribe always fails on Linux: X11/Wayland expose no portable clipboard
// change notification, so the monitor falls back to polling.
func (b *linuxBackend) Subscribe(context.Context) (<-chan struct{}, error) {
	return nil, ErrNoNativeWatch
}

func (b *linuxBackend) Close() {}
