package main

import (
	"errors"
	"fmt"

	"github.com/snappaste/snappaste/internal/ipc"
	"github.com/snappaste/snappaste/internal/message"
	"github.com/snappaste/snappaste/internal/wire"
)

// errNoDaemon is returned when no daemon is listening on the IPC socket.
var errNoDaemon = errors.New(`no snappaste daemon running (start one with "snappaste serve")`)

// requestDaemon sends one request to the running daemon and returns its
// response. ERROR responses are surfaced as Go errors.
func requestDaemon(msg *message.Message) (*message.Message, error) {
	if !ipc.IsRunning() {
		return nil, errNoDaemon
	}
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("ipc dial: %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("ipc write: %w", err)
	}
	resp, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("ipc read: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}
