//go:build windows

package focus

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procGetWindowThreadPID  = user32.NewProc("GetWindowThreadProcessId")
	procAttachThreadInput   = user32.NewProc("AttachThreadInput")
	procKeybdEvent          = user32.NewProc("keybd_event")
)

const (
	vkControl      = 0x11
	vkV            = 0x56
	keyeventfKeyup = 0x0002
)

type winAutomator struct{}

// New returns the Windows focus automator.
func New() Automator { return winAutomator{} }

func (winAutomator) CaptureForeground() Window {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return Window(hwnd)
}

// Restore brings w back to the foreground. SetForegroundWindow is refused
// by the OS unless the calling thread shares input state with the target
// window's thread, so the input queues are attached for the duration of
// the call and always detached again — even when the attach failed.
func (winAutomator) Restore(w Window) error {
	if w == 0 {
		return nil
	}
	if fg, _, _ := procGetForegroundWindow.Call(); Window(fg) == w {
		return nil
	}

	targetThread, _, _ := procGetWindowThreadPID.Call(uintptr(w), 0)
	if targetThread == 0 {
		return fmt.Errorf("%w: window thread unresolvable", ErrFocusRestore)
	}

	currentThread := uintptr(windows.GetCurrentThreadId())
	if currentThread == targetThread {
		if ok, _, _ := procSetForegroundWindow.Call(uintptr(w)); ok == 0 {
			return ErrFocusRestore
		}
		return nil
	}

	attached, _, _ := procAttachThreadInput.Call(currentThread, targetThread, 1)
	ok, _, _ := procSetForegroundWindow.Call(uintptr(w))
	if attached != 0 {
		// Never leave the attachment in place; it corrupts input routing
		// between unrelated threads.
		procAttachThreadInput.Call(currentThread, targetThread, 0)
	}
	if ok == 0 {
		return ErrFocusRestore
	}
	return nil
}

// ForegroundApp returns the executable stem of the foreground window's
// process (chrome, Code, explorer, ...).
func (winAutomator) ForegroundApp() string {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return "Unknown"
	}

	var pid uint32
	procGetWindowThreadPID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return "Unknown"
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "Unknown"
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil || size == 0 {
		return "Unknown"
	}

	path := windows.UTF16ToString(buf[:size])
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	return name
}

func (winAutomator) SendPasteChord() error {
	keybd(vkControl, 0)
	time.Sleep(KeyStepDelay)
	keybd(vkV, 0)
	keybd(vkV, keyeventfKeyup)
	time.Sleep(KeyStepDelay)
	keybd(vkControl, keyeventfKeyup)
	return nil
}

func keybd(vk, flags uintptr) {
	procKeybdEvent.Call(vk, 0, flags, 0)
}
