//go:build darwin

package clip

import (
	"context"
	"log/slog"

	"golang.design/x/clipboard"
)

type darwinBackend struct {
	golangDesignBackend
}

// New returns the macOS clipboard backend.
// clipboard.Init is called here rather than in init() so that CLI sub-commands
// that never construct a Backend don't log spurious warnings on headless systems.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return &darwinBackend{}
}

func (b *darwinBackend) Name() string { return "macOS NSPasteboard (poll)" }

// Subscribe always fails on macOS: NSPasteboard only exposes a changeCount
// to poll, so the monitor uses its polling detector here.
func (b *darwinBackend) Subscribe(context.Context) (<-chan struct{}, error) {
	return nil, ErrNoNativeWatch
}

func (b *darwinBackend) Close() {}
