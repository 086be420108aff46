package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/snappaste/snappaste/internal/clip"
)

// pasteBackoff is how long the polling detector waits before looking again
// while a paste operation holds the clipboard.
const pasteBackoff = 120 * time.Millisecond

// livenessInterval bounds how long the event detector waits between
// liveness re-checks when no events arrive, so a superseded session
// converges to exit within one interval.
const livenessInterval = time.Second

// run selects the detection strategy once per session: the native change
// subscription where the platform offers one, the polling fallback
// otherwise. Both feed processChange.
func (m *Monitor) run(gen uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.backend.Subscribe(ctx)
	if errors.Is(err, clip.ErrNoNativeWatch) {
		m.strategy.Store("poll")
		slog.Info("clipboard monitor started", "strategy", "poll", "backend", m.backend.Name(), "interval", m.cfg.PollInterval)
		m.runPollingLoop(gen)
		return
	}

	m.strategy.Store("event")
	slog.Info("clipboard monitor started", "strategy", "event", "backend", m.backend.Name())
	m.runEventLoop(ctx, gen, ch, err)
}

// runPollingLoop is the fixed-interval fallback. It re-checks liveness
// before and after sleeping and skips the tick entirely while a paste is in
// progress, so it never races the controller's own clipboard write.
func (m *Monitor) runPollingLoop(gen uint64) {
	for m.session.Live(gen) {
		if m.session.PasteInProgress() {
			time.Sleep(pasteBackoff)
			continue
		}

		time.Sleep(m.cfg.PollInterval)
		if !m.session.Live(gen) {
			break
		}
		m.processChange()
	}
	slog.Debug("polling monitor loop exited", "generation", gen)
}

// runEventLoop consumes the native change stream, resubscribing with
// exponential backoff (RetryMin doubling to RetryMax, reset on success)
// whenever the subscription fails or terminates abruptly. ch/subErr are the
// result of the initial capability probe.
func (m *Monitor) runEventLoop(ctx context.Context, gen uint64, ch <-chan struct{}, subErr error) {
	delay := m.cfg.RetryMin

	for m.session.Live(gen) {
		if subErr == nil {
			delay = m.cfg.RetryMin
			m.consumeEvents(gen, ch)
		} else {
			slog.Warn("clipboard subscription failed, retrying", "err", subErr, "delay", delay)
		}

		if !m.session.Live(gen) {
			break
		}

		time.Sleep(delay)
		if delay *= 2; delay > m.cfg.RetryMax {
			delay = m.cfg.RetryMax
		}
		if !m.session.Live(gen) {
			break
		}

		ch, subErr = m.backend.Subscribe(ctx)
	}
	slog.Debug("event monitor loop exited", "generation", gen)
}

// consumeEvents drains one subscription until it closes or the session dies.
func (m *Monitor) consumeEvents(gen uint64, ch <-chan struct{}) {
	t := time.NewTicker(livenessInterval)
	defer t.Stop()

	for {
		select {
		case _, ok := <-ch:
			if !ok {
				// Abrupt termination; caller resubscribes with backoff.
				return
			}
			if !m.session.Live(gen) {
				return
			}
			m.processChange()
		case <-t.C:
			if !m.session.Live(gen) {
				return
			}
		}
	}
}
