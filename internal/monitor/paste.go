package monitor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/snappaste/snappaste/internal/imaging"
)

// focusSettle is the pause after a successful focus restore, before the
// longer content-type-dependent settle delay.
const focusSettle = 20 * time.Millisecond

// CaptureTargetWindow snapshots the currently focused window. Call this
// right before the picker UI is shown — at paste time the picker itself is
// the foreground window. Best-effort: when no window can be captured the
// later focus restore silently no-ops.
func (m *Monitor) CaptureTargetWindow() {
	m.session.StoreTarget(m.auto.CaptureForeground())
}

// SetClipboardText writes text directly to the OS clipboard, bypassing
// history capture entirely. Used by manual copy actions. Ignore-next is
// armed so the detector discards the resulting change.
func (m *Monitor) SetClipboardText(text string) error {
	m.session.SetIgnoreNext()
	return m.backend.WriteText(text)
}

// PasteRecordContent loads the record, writes it back to the OS clipboard,
// hides the picker, restores focus to the window captured at show time, and
// injects the platform paste shortcut.
//
// The whole operation runs under the paste-in-progress flag so detectors
// stand down, and arms ignore-next so the detector discards the echo of the
// clipboard write. The flag reset is guaranteed on every exit path.
func (m *Monitor) PasteRecordContent(id int64) error {
	return m.session.WithPasteInProgress(func() error {
		rec, err := m.store.GetRecordByID(id)
		if err != nil {
			return err
		}
		isImage := rec.IsImage()

		// Armed before the write. If the write fails the flag stays set
		// and suppresses the next real change instead — a minor accepted
		// imprecision of the bare-boolean scheme.
		m.session.SetIgnoreNext()

		if isImage {
			if len(rec.ImageData) == 0 {
				return fmt.Errorf("image record %d missing image data", id)
			}
			img, err := imaging.DecodePNG(rec.ImageData)
			if err != nil {
				return err
			}
			if err := m.backend.WriteImage(img); err != nil {
				return fmt.Errorf("clipboard write: %w", err)
			}
		} else {
			if err := m.backend.WriteText(rec.Content); err != nil {
				return fmt.Errorf("clipboard write: %w", err)
			}
		}

		if err := m.frontend.HideMainWindow(); err != nil {
			return fmt.Errorf("hiding window: %w", err)
		}

		if target := m.session.ConsumeTarget(); target != 0 {
			if err := m.auto.Restore(target); err != nil {
				// Best-effort; the paste proceeds without focus restore.
				slog.Warn("focus restore failed", "err", err)
			} else {
				time.Sleep(focusSettle)
			}
		}

		settle := m.cfg.SettleText
		if isImage {
			settle = m.cfg.SettleImage
		}
		time.Sleep(settle)

		if err := m.auto.SendPasteChord(); err != nil {
			return fmt.Errorf("paste injection: %w", err)
		}
		return nil
	})
}
