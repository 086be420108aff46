//go:build windows

package ipc

import "net"

// windowsAddr is the loopback address used in place of a Unix socket.
// Named pipes would need an extra dependency; a localhost listener is
// equivalent for a single-user desktop utility.
const windowsAddr = "127.0.0.1:48752"

func listenIPC(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

func dialIPC(addr string) (net.Conn, error) {
	return net.Dial("tcp", addr)
}
