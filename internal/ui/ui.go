// Package ui defines the seam between the monitoring core and whatever
// frontend shell surrounds it (tray menu, picker window, IPC subscribers).
// The core only ever notifies the frontend of history changes and asks it
// to hide its window before a paste; window lifecycle stays on the other
// side of this interface.
package ui

import "log/slog"

// Frontend is the UI collaborator the monitor core talks to.
type Frontend interface {
	// NotifyHistoryChanged tells the frontend that the history list is stale.
	NotifyHistoryChanged()

	// HideMainWindow hides the picker window so the paste target regains
	// the foreground.
	HideMainWindow() error

	// IsReady reports whether the frontend can act on requests immediately;
	// callers queue show requests while it is false.
	IsReady() bool
}

// LogFrontend is a Frontend for frontend-less daemon runs. History change
// notifications are forwarded to the registered listener (the IPC status
// fan-out) and window operations are no-ops.
type LogFrontend struct {
	OnHistoryChanged func()
}

func (f *LogFrontend) NotifyHistoryChanged() {
	slog.Debug("history changed")
	if f.OnHistoryChanged != nil {
		f.OnHistoryChanged()
	}
}

func (f *LogFrontend) HideMainWindow() error { return nil }
func (f *LogFrontend) IsReady() bool         { return true }
