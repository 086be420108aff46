//go:build windows

package clip

// #cgo LDFLAGS: -luser32
//
// #include <windows.h>
// #include <stdlib.h>
//
// static HWND snappaste_create_listener_window();
// static void snappaste_pump_messages(HWND hwnd, int* changed);
//
// static LRESULT CALLBACK snappaste_wnd_proc(HWND hwnd, UINT msg, WPARAM wp, LPARAM lp) {
//     if (msg == WM_CLIPBOARDUPDATE) {
//         PostMessage(hwnd, WM_USER + 1, 0, 0);
//         return 0;
//     }
//     return DefWindowProc(hwnd, msg, wp, lp);
// }
//
// static HWND snappaste_create_listener_window() {
//     WNDCLASS wc = {0};
//     wc.lpfnWndProc   = snappaste_wnd_proc;
//     wc.hInstance     = GetModuleHandle(NULL);
//     wc.lpszClassName = "SnappasteClipboard";
//     RegisterClass(&wc);
//     HWND hwnd = CreateWindowEx(0, "SnappasteClipboard", NULL, 0,
//         0, 0, 0, 0, HWND_MESSAGE, NULL, GetModuleHandle(NULL), NULL);
//     if (hwnd == NULL) { return NULL; }
//     if (!AddClipboardFormatListener(hwnd)) {
//         DestroyWindow(hwnd);
//         return NULL;
//     }
//     return hwnd;
// }
//
// static void snappaste_pump_messages(HWND hwnd, int* changed) {
//     MSG msg;
//     *changed = 0;
//     while (PeekMessage(&msg, hwnd, 0, 0, PM_REMOVE)) {
//         if (msg.message == WM_USER + 1) { *changed = 1; }
//         TranslateMessage(&msg);
//         DispatchMessage(&msg);
//     }
// }
import "C"

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.design/x/clipboard"
)

const windowsPumpInterval = 50 * time.Millisecond

type windowsBackend struct {
	golangDesignBackend
	done chan struct{}
}

// New returns the Windows clipboard backend using AddClipboardFormatListener.
// clipboard.Init is called here rather than in init() so that CLI sub-commands
// that never construct a Backend don't log spurious warnings.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
	}
	return &windowsBackend{done: make(chan struct{})}
}

func (b *windowsBackend) Name() string { return "Windows Clipboard" }

// Subscribe registers a message-only listener window and pumps its queue,
// forwarding every WM_CLIPBOARDUPDATE as a signal. The window is created and
// pumped on a single locked OS thread; Win32 window handles have thread
// affinity. The channel closes when ctx is done.
func (b *windowsBackend) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	setup := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		hwnd := C.snappaste_create_listener_window()
		if hwnd == nil {
			setup <- errors.New("AddClipboardFormatListener registration failed")
			return
		}
		setup <- nil

		defer close(ch)
		defer C.DestroyWindow(hwnd)
		t := time.NewTicker(windowsPumpInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case <-t.C:
				var changed C.int
				C.snappaste_pump_messages(hwnd, &changed)
				if changed != 0 {
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	if err := <-setup; err != nil {
		return nil, err
	}
	return ch, nil
}

func (b *windowsBackend) Close() { close(b.done) }
