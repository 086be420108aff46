// Package clip provides a unified interface to the system clipboard across
// platforms. Build constraints select the appropriate implementation:
//
//	clip_windows.go — golang.design/x/clipboard + AddClipboardFormatListener
//	clip_darwin.go  — golang.design/x/clipboard, polling only
//	clip_linux.go   — golang.design/x/clipboard, polling only
//	clip_other.go   — headless / container stub
package clip

import (
	"context"
	"errors"

	"github.com/snappaste/snappaste/internal/imaging"
)

// ErrNoNativeWatch is returned by Subscribe on platforms without a native
// clipboard-change notification source. Callers fall back to polling.
var ErrNoNativeWatch = errors.New("no native clipboard change notification on this platform")

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. ok is false when the
	// clipboard holds no text or is transiently unreadable (for example
	// while another process is writing to it).
	ReadText() (text string, ok bool)

	// ReadImage returns the current clipboard image as a raw RGBA buffer,
	// or nil, nil when the clipboard holds no image.
	ReadImage() (*imaging.Image, error)

	// WriteText sets the clipboard to the literal text.
	WriteText(text string) error

	// WriteImage sets the clipboard to the image as a native image payload.
	WriteImage(img *imaging.Image) error

	// Subscribe returns a channel that receives a signal whenever the OS
	// reports a clipboard change, or ErrNoNativeWatch where the platform
	// has no such notification source. The channel closes when ctx is done
	// or the subscription terminates abruptly; callers resubscribe with
	// backoff.
	Subscribe(ctx context.Context) (<-chan struct{}, error)

	// Close releases any resources held by the backend.
	Close()
}

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.).
// It never reports content and silently discards writes.
type headlessBackend struct{}

func (headlessBackend) Name() string                       { return "headless (no-op)" }
func (headlessBackend) ReadText() (string, bool)           { return "", false }
func (headlessBackend) ReadImage() (*imaging.Image, error) { return nil, nil }
func (headlessBackend) WriteText(string) error             { return nil }
func (headlessBackend) WriteImage(*imaging.Image) error    { return nil }
func (headlessBackend) Close()                             {}

func (headlessBackend) Subscribe(context.Context) (<-chan struct{}, error) {
	return nil, ErrNoNativeWatch
}
