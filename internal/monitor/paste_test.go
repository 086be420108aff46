package monitor

import (
	"testing"
	"time"

	"github.com/snappaste/snappaste/internal/focus"
	"github.com/snappaste/snappaste/internal/imaging"
	"github.com/snappaste/snappaste/internal/record"
)

func TestPasteTextRoundTrip(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	id, err := h.store.AddRecord(record.NewTextRecord("stored entry", "test-app"))
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	if err := h.monitor.PasteRecordContent(id); err != nil {
		t.Fatalf("PasteRecordContent: %v", err)
	}

	if got, ok := h.backend.ReadText(); !ok || got != "stored entry" {
		t.Errorf("clipboard = %q, %v", got, ok)
	}
	if h.frontend.hidden != 1 {
		t.Errorf("hidden = %d, want 1", h.frontend.hidden)
	}
	if h.auto.chords != 1 {
		t.Errorf("paste chords = %d, want 1", h.auto.chords)
	}
	if h.monitor.session.PasteInProgress() {
		t.Error("paste flag still set after completion")
	}
}

func TestPasteImageRoundTrip(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	src := testImage(7)
	png, err := imaging.EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	id, err := h.store.AddRecord(record.NewImageRecord("image 8x8", png, "test-app"))
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	if err := h.monitor.PasteRecordContent(id); err != nil {
		t.Fatalf("PasteRecordContent: %v", err)
	}

	img, err := h.backend.ReadImage()
	if err != nil || img == nil {
		t.Fatalf("clipboard image missing: %v", err)
	}
	if img.Width != src.Width || img.Height != src.Height {
		t.Errorf("pasted image %dx%d, want %dx%d", img.Width, img.Height, src.Width, src.Height)
	}
}

func TestPasteEchoSuppressed(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	id, err := h.store.AddRecord(record.NewTextRecord("echo me", "test-app"))
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	before := h.store.count()

	if err := h.monitor.PasteRecordContent(id); err != nil {
		t.Fatalf("PasteRecordContent: %v", err)
	}

	// The detector now observes the clipboard change caused by the paste
	// itself; it must be discarded, not captured as a new record.
	h.monitor.processChange()
	if n := h.store.count(); n != before {
		t.Errorf("records = %d, want %d: paste echo captured", n, before)
	}

	// A genuinely new copy afterwards is captured normally.
	h.backend.setText("fresh content")
	h.monitor.processChange()
	if n := h.store.count(); n != before+1 {
		t.Errorf("records = %d, want %d", n, before+1)
	}
}

func TestPasteMissingRecord(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	if err := h.monitor.PasteRecordContent(999); err == nil {
		t.Fatal("expected error for missing record")
	}
	if h.monitor.session.PasteInProgress() {
		t.Error("paste flag still set after failed paste")
	}
	if h.monitor.session.ConsumeIgnoreNext() {
		t.Error("ignore-next armed although nothing was written")
	}
	if h.auto.chords != 0 {
		t.Errorf("paste chord sent despite failure: %d", h.auto.chords)
	}
}

func TestPasteRestoresCapturedWindow(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})
	h.auto.foreground = focus.Window(42)

	id, err := h.store.AddRecord(record.NewTextRecord("target test", "test-app"))
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	h.monitor.CaptureTargetWindow()
	if err := h.monitor.PasteRecordContent(id); err != nil {
		t.Fatalf("PasteRecordContent: %v", err)
	}
	if len(h.auto.restored) != 1 || h.auto.restored[0] != 42 {
		t.Fatalf("restored = %v, want [42]", h.auto.restored)
	}

	// Target is consumed; a second paste without a fresh capture must not
	// restore again.
	if err := h.monitor.PasteRecordContent(id); err != nil {
		t.Fatalf("second PasteRecordContent: %v", err)
	}
	if len(h.auto.restored) != 1 {
		t.Errorf("restored = %v, want a single restore", h.auto.restored)
	}
}

func TestSetClipboardTextBypassesHistory(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	if err := h.monitor.SetClipboardText("manual copy"); err != nil {
		t.Fatalf("SetClipboardText: %v", err)
	}
	if got, ok := h.backend.ReadText(); !ok || got != "manual copy" {
		t.Errorf("clipboard = %q, %v", got, ok)
	}

	h.monitor.processChange()
	if n := h.store.count(); n != 0 {
		t.Errorf("records = %d, want 0: manual copy must not capture", n)
	}
}

func TestImageSettleLongerThanText(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SettleImage <= cfg.SettleText {
		t.Errorf("SettleImage %v must exceed SettleText %v", cfg.SettleImage, cfg.SettleText)
	}
	if cfg.MinImageInterval < time.Second {
		t.Errorf("MinImageInterval %v unexpectedly short", cfg.MinImageInterval)
	}
}
