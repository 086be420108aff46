// Package monitor implements the clipboard monitoring core: change
// detection, deduplication by payload signature, record capture, and the
// paste-back automation that re-injects a stored entry into the previously
// focused window.
package monitor

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/snappaste/snappaste/internal/clip"
	"github.com/snappaste/snappaste/internal/focus"
	"github.com/snappaste/snappaste/internal/imaging"
	"github.com/snappaste/snappaste/internal/record"
	"github.com/snappaste/snappaste/internal/signature"
	"github.com/snappaste/snappaste/internal/ui"
)

// Store is the slice of the persistent store the monitor core depends on.
type Store interface {
	AddRecord(r *record.Record) (int64, error)
	GetRecordByID(id int64) (*record.Record, error)
}

// Config tunes the monitor's timing knobs. Zero values are replaced by the
// defaults below.
type Config struct {
	// PollInterval is the tick of the polling fallback detector.
	PollInterval time.Duration

	// RetryMin/RetryMax bound the event detector's reconnect backoff.
	RetryMin time.Duration
	RetryMax time.Duration

	// MinImageInterval throttles image captures during rapid copy bursts.
	MinImageInterval time.Duration

	// SettleText/SettleImage is the pause between focus restore and the
	// injected paste chord. Image consumers need longer to react.
	SettleText  time.Duration
	SettleImage time.Duration

	// CaptureImages enables image recording. Text is always recorded.
	CaptureImages bool
}

// DefaultConfig returns the stock timing configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:     500 * time.Millisecond,
		RetryMin:         300 * time.Millisecond,
		RetryMax:         3 * time.Second,
		MinImageInterval: 1200 * time.Millisecond,
		SettleText:       5 * time.Millisecond,
		SettleImage:      20 * time.Millisecond,
		CaptureImages:    true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.RetryMin <= 0 {
		c.RetryMin = d.RetryMin
	}
	if c.RetryMax <= 0 {
		c.RetryMax = d.RetryMax
	}
	if c.MinImageInterval <= 0 {
		c.MinImageInterval = d.MinImageInterval
	}
	if c.SettleText <= 0 {
		c.SettleText = d.SettleText
	}
	if c.SettleImage <= 0 {
		c.SettleImage = d.SettleImage
	}
	return c
}

// Monitor owns the monitoring session and the paste automation controller.
type Monitor struct {
	backend  clip.Backend
	store    Store
	frontend ui.Frontend
	auto     focus.Automator
	session  *Session
	cfg      Config

	// strategy is set once by run when the detection strategy is selected
	// ("event" or "poll"); read by the status surface.
	strategy atomic.Value
}

// New wires a Monitor. Nothing runs until Start.
func New(backend clip.Backend, store Store, frontend ui.Frontend, auto focus.Automator, cfg Config) *Monitor {
	return &Monitor{
		backend:  backend,
		store:    store,
		frontend: frontend,
		auto:     auto,
		session:  NewSession(),
		cfg:      cfg.withDefaults(),
	}
}

// Session exposes the coordination state, mainly for tests.
func (m *Monitor) Session() *Session { return m.session }

// BackendName names the active clipboard backend.
func (m *Monitor) BackendName() string { return m.backend.Name() }

// Strategy names the active detection strategy ("event" or "poll"), or ""
// before the first Start selected one.
func (m *Monitor) Strategy() string {
	s, _ := m.strategy.Load().(string)
	return s
}

// Start begins monitoring. Idempotent: when a session is already active it
// returns immediately without starting a second loop. A new call after Stop
// supersedes any loop still draining its last wait.
func (m *Monitor) Start() {
	if !m.session.Activate() {
		return
	}

	gen := m.session.NextGeneration()

	// Seed from present clipboard state so the first observed change is
	// measured against what was there at startup, not recorded as new.
	sig, ok := m.startupSignature()
	m.session.SeedSignature(sig, ok)

	go m.run(gen)
}

// Stop deactivates the session. Running loops observe the liveness flip and
// terminate within one wait interval; there is no forced termination.
func (m *Monitor) Stop() {
	m.session.Deactivate()
}

// startupSignature performs the one-time startup read of the clipboard.
func (m *Monitor) startupSignature() (string, bool) {
	if m.cfg.CaptureImages {
		if img, err := m.backend.ReadImage(); err == nil && img != nil {
			return signature.Image(img.Width, img.Height, img.Pix), true
		}
	}
	if text, ok := m.backend.ReadText(); ok {
		return signature.Text(text), true
	}
	return "", false
}

// processChange is the single entry point both detection strategies feed.
func (m *Monitor) processChange() {
	if m.session.PasteInProgress() {
		return
	}

	if m.cfg.CaptureImages {
		img, err := m.backend.ReadImage()
		if err != nil {
			// Transiently unreadable clipboards are routine (another
			// process mid-write); skip the iteration.
			slog.Debug("clipboard image unreadable, skipping", "err", err)
			return
		}
		if img != nil {
			m.processImage(img)
			return
		}
	}

	text, ok := m.backend.ReadText()
	if !ok {
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	m.processText(text)
}

func (m *Monitor) processText(text string) {
	if !m.session.UpdateSignature(signature.Text(text)) {
		return
	}
	if m.session.ConsumeIgnoreNext() {
		return
	}

	rec := record.NewTextRecord(text, m.auto.ForegroundApp())
	id, err := m.store.AddRecord(rec)
	if err != nil {
		slog.Error("persisting text record failed", "err", err)
		return
	}
	slog.Debug("captured text record", "id", id, "type", rec.ContentType, "source_app", rec.SourceApp)
	m.frontend.NotifyHistoryChanged()
}

func (m *Monitor) processImage(img *imaging.Image) {
	// The slot is updated even when the record is later throttled or
	// rejected, so a burst does not replay once the gate reopens.
	if !m.session.UpdateSignature(signature.Image(img.Width, img.Height, img.Pix)) {
		return
	}
	if m.session.ConsumeIgnoreNext() {
		return
	}

	if err := imaging.CheckRawSize(img); err != nil {
		slog.Warn("image capture rejected", "err", err)
		return
	}

	now := time.Now()
	if !m.session.ImageIntervalElapsed(now, m.cfg.MinImageInterval) {
		slog.Debug("image capture throttled")
		return
	}

	normalized, scaled := imaging.Normalize(img)
	png, err := imaging.EncodePNG(normalized)
	if err != nil {
		if errors.Is(err, imaging.ErrImageTooLarge) {
			slog.Warn("image capture rejected", "err", err)
		} else {
			slog.Error("image encode failed", "err", err)
		}
		return
	}

	caption := record.ImageCaption(normalized.Width, normalized.Height, img.Width, img.Height, scaled)
	rec := record.NewImageRecord(caption, png, m.auto.ForegroundApp())
	id, err := m.store.AddRecord(rec)
	if err != nil {
		slog.Error("persisting image record failed", "err", err)
		return
	}
	m.session.MarkImageRecorded(now)
	slog.Debug("captured image record", "id", id, "caption", caption)
	m.frontend.NotifyHistoryChanged()
}
