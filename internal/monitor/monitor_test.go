package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/snappaste/snappaste/internal/clip"
	"github.com/snappaste/snappaste/internal/focus"
	"github.com/snappaste/snappaste/internal/imaging"
	"github.com/snappaste/snappaste/internal/record"
)

// fakeBackend is an in-memory clipboard. Writes land in the same slot reads
// come from, so a self-write is observed as a change exactly like the real
// clipboard.
type fakeBackend struct {
	mu   sync.Mutex
	text string
	img  *imaging.Image
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) ReadText() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.img != nil || b.text == "" {
		return "", false
	}
	return b.text, true
}

func (b *fakeBackend) ReadImage() (*imaging.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.img, nil
}

func (b *fakeBackend) WriteText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text, b.img = text, nil
	return nil
}

func (b *fakeBackend) WriteImage(img *imaging.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text, b.img = "", img
	return nil
}

func (b *fakeBackend) Subscribe(context.Context) (<-chan struct{}, error) {
	return nil, clip.ErrNoNativeWatch
}

func (b *fakeBackend) Close() {}

// setText simulates another application copying text.
func (b *fakeBackend) setText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text, b.img = text, nil
}

// setImage simulates another application copying an image.
func (b *fakeBackend) setImage(img *imaging.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text, b.img = "", img
}

type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*record.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]*record.Record)}
}

func (s *fakeStore) AddRecord(r *record.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *r
	cp.ID = s.nextID
	s.records[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeStore) GetRecordByID(id int64) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record not found: %d", id)
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakeFrontend struct {
	mu       sync.Mutex
	notified int
	hidden   int
}

func (f *fakeFrontend) NotifyHistoryChanged() {
	f.mu.Lock()
	f.notified++
	f.mu.Unlock()
}

func (f *fakeFrontend) HideMainWindow() error {
	f.mu.Lock()
	f.hidden++
	f.mu.Unlock()
	return nil
}

func (f *fakeFrontend) IsReady() bool { return true }

type fakeAutomator struct {
	mu         sync.Mutex
	foreground focus.Window
	restored   []focus.Window
	chords     int
}

func (a *fakeAutomator) CaptureForeground() focus.Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.foreground
}

func (a *fakeAutomator) Restore(w focus.Window) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.restored = append(a.restored, w)
	return nil
}

func (a *fakeAutomator) ForegroundApp() string { return "test-app" }

func (a *fakeAutomator) SendPasteChord() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chords++
	return nil
}

type harness struct {
	backend  *fakeBackend
	store    *fakeStore
	frontend *fakeFrontend
	auto     *fakeAutomator
	monitor  *Monitor
}

// newHarness wires a Monitor around fakes with fast test timings and seeds
// the signature slot from whatever the backend currently holds, the same way
// Start does.
func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		backend:  &fakeBackend{},
		store:    newFakeStore(),
		frontend: &fakeFrontend{},
		auto:     &fakeAutomator{},
	}
	if cfg.SettleText == 0 {
		cfg.SettleText = time.Millisecond
	}
	if cfg.SettleImage == 0 {
		cfg.SettleImage = time.Millisecond
	}
	h.monitor = New(h.backend, h.store, h.frontend, h.auto, cfg)
	sig, ok := h.monitor.startupSignature()
	h.monitor.session.SeedSignature(sig, ok)
	return h
}

func testImage(seed byte) *imaging.Image {
	pix := make([]byte, 8*8*4)
	for i := range pix {
		pix[i] = seed + byte(i)
	}
	return &imaging.Image{Width: 8, Height: 8, Pix: pix}
}

func TestTextChangeRecordedOnce(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setText("hello")
	h.monitor.processChange()
	h.monitor.processChange()

	if n := h.store.count(); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
	if h.frontend.notified != 1 {
		t.Errorf("notifications = %d, want 1", h.frontend.notified)
	}
}

func TestSameTextAfterOtherContentRecordedAgain(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setText("first")
	h.monitor.processChange()
	h.backend.setText("second")
	h.monitor.processChange()
	h.backend.setText("first")
	h.monitor.processChange()

	// Only consecutive duplicates are suppressed; the store layer owns
	// content-level deduplication.
	if n := h.store.count(); n != 3 {
		t.Errorf("records = %d, want 3", n)
	}
}

func TestEmptyTextRejected(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setText("   \n\t  ")
	h.monitor.processChange()

	if n := h.store.count(); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}
}

func TestStartupContentNotRecorded(t *testing.T) {
	h := &harness{
		backend:  &fakeBackend{},
		store:    newFakeStore(),
		frontend: &fakeFrontend{},
		auto:     &fakeAutomator{},
	}
	h.backend.setText("already there before start")
	h.monitor = New(h.backend, h.store, h.frontend, h.auto, Config{CaptureImages: true})
	sig, ok := h.monitor.startupSignature()
	h.monitor.session.SeedSignature(sig, ok)

	h.monitor.processChange()
	if n := h.store.count(); n != 0 {
		t.Errorf("pre-existing clipboard content recorded: %d records", n)
	}

	h.backend.setText("copied after start")
	h.monitor.processChange()
	if n := h.store.count(); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

func TestRecordsCarrySourceApp(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setText("attributed")
	h.monitor.processChange()

	r, err := h.store.GetRecordByID(1)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if r.SourceApp != "test-app" {
		t.Errorf("SourceApp = %q, want test-app", r.SourceApp)
	}
}

func TestPasteInProgressSkipsProcessing(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setText("written mid-paste")
	h.monitor.session.WithPasteInProgress(func() error {
		h.monitor.processChange()
		return nil
	})

	if n := h.store.count(); n != 0 {
		t.Errorf("records = %d, want 0 while paste in progress", n)
	}
}

func TestImageRecorded(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	h.backend.setImage(testImage(1))
	h.monitor.processChange()

	if n := h.store.count(); n != 1 {
		t.Fatalf("records = %d, want 1", n)
	}
	r, _ := h.store.GetRecordByID(1)
	if r.ContentType != record.TypeImage {
		t.Errorf("ContentType = %v, want image", r.ContentType)
	}
	if len(r.ImageData) == 0 {
		t.Error("image record missing PNG payload")
	}
	if r.Content != "image 8x8" {
		t.Errorf("caption = %q", r.Content)
	}
}

func TestImageBurstThrottled(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true, MinImageInterval: 80 * time.Millisecond})

	h.backend.setImage(testImage(1))
	h.monitor.processChange()
	h.backend.setImage(testImage(2))
	h.monitor.processChange()

	if n := h.store.count(); n != 1 {
		t.Fatalf("records = %d, want 1 (burst throttled)", n)
	}

	time.Sleep(100 * time.Millisecond)
	h.backend.setImage(testImage(3))
	h.monitor.processChange()

	if n := h.store.count(); n != 2 {
		t.Errorf("records = %d, want 2 after throttle interval", n)
	}
}

func TestThrottledImageNotReplayed(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true, MinImageInterval: 50 * time.Millisecond})

	h.backend.setImage(testImage(1))
	h.monitor.processChange()
	h.backend.setImage(testImage(2))
	h.monitor.processChange() // throttled, but signature already advanced

	time.Sleep(70 * time.Millisecond)
	h.monitor.processChange() // same clipboard content, gate now open

	if n := h.store.count(); n != 1 {
		t.Errorf("records = %d, want 1: throttled content must not replay", n)
	}
}

func TestImageCaptureDisabled(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: false})

	h.backend.setImage(testImage(1))
	h.monitor.processChange()

	if n := h.store.count(); n != 0 {
		t.Errorf("records = %d, want 0 with image capture disabled", n)
	}
}

func TestOversizedRawImageRejected(t *testing.T) {
	h := newHarness(t, Config{CaptureImages: true})

	big := &imaging.Image{Width: 1, Height: 1, Pix: make([]byte, imaging.MaxRawBytes+1)}
	h.backend.setImage(big)
	h.monitor.processChange()

	if n := h.store.count(); n != 0 {
		t.Errorf("records = %d, want 0 for oversized raw image", n)
	}
}

func TestStartStopLoopLifecycle(t *testing.T) {
	h := &harness{
		backend:  &fakeBackend{},
		store:    newFakeStore(),
		frontend: &fakeFrontend{},
		auto:     &fakeAutomator{},
	}
	h.monitor = New(h.backend, h.store, h.frontend, h.auto, Config{
		PollInterval:  5 * time.Millisecond,
		CaptureImages: true,
	})

	h.monitor.Start()
	h.monitor.Start() // idempotent; must not spawn a second loop

	h.backend.setText("picked up by the loop")
	deadline := time.Now().Add(2 * time.Second)
	for h.store.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := h.store.count(); n != 1 {
		t.Fatalf("records = %d, want 1 via polling loop", n)
	}

	h.monitor.Stop()
	time.Sleep(50 * time.Millisecond) // let the loop observe the dead generation

	h.backend.setText("copied after stop")
	time.Sleep(50 * time.Millisecond)
	if n := h.store.count(); n != 1 {
		t.Errorf("records = %d, want 1: stopped monitor must not capture", n)
	}
}
