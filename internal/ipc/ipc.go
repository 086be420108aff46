// Package ipc provides helpers for the local socket the CLI sub-commands
// (copy/paste/history/status) use to talk to a running snappaste daemon.
//
// The channel carries the newline-delimited JSON protocol from
// internal/message. The daemon listens on the socket; CLI sub-commands
// probe for it and fail with a hint when it is absent.
package ipc

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux / macOS: $TMPDIR/snappaste.sock  (override with $SNAPPASTE_SOCKET)
//   - Windows:       127.0.0.1 loopback, see ipc_windows.go
func SocketPath() string {
	if s := os.Getenv("SNAPPASTE_SOCKET"); s != "" {
		return s
	}
	if runtime.GOOS == "windows" {
		return windowsAddr
	}
	return filepath.Join(os.TempDir(), "snappaste.sock")
}

// IsRunning reports whether a snappaste daemon appears to be listening on
// the IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial()
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path,
// removing any stale socket file from a previous (crashed) run first.
func Listen() (net.Listener, error) {
	return listenIPC(SocketPath())
}

// Dial connects to a listening daemon.
func Dial() (net.Conn, error) {
	return dialIPC(SocketPath())
}
