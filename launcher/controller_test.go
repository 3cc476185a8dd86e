package launcher

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
	"github.com/yllada/lexair-launcher/session"
)

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// countingClock wraps a real clock and counts lifecycle calls.
type countingClock struct {
	*session.Clock
	starts atomic.Int32
	resets atomic.Int32
}

func (c *countingClock) Start() {
	c.starts.Add(1)
	c.Clock.Start()
}

func (c *countingClock) Reset() {
	c.resets.Add(1)
	c.Clock.Reset()
}

type fakeWindow struct {
	mu           sync.Mutex
	callbacks    []func()
	destroyed    int
	destroyErr   error
	destroyPanic bool
}

func (w *fakeWindow) Destroy() error {
	w.mu.Lock()
	w.destroyed++
	panicNow, err := w.destroyPanic, w.destroyErr
	w.mu.Unlock()
	if panicNow {
		panic("destroy exploded")
	}
	return err
}

func (w *fakeWindow) OnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// fireClosed simulates the host reporting the window closed.
func (w *fakeWindow) fireClosed() {
	w.mu.Lock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

func (w *fakeWindow) destroyCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

type fakeHost struct {
	mu          sync.Mutex
	windows     []*fakeWindow
	configs     []WindowConfig
	createErr   error
	createPanic bool
	forced      int
	forceErr    error
	// duringCreate runs while the window is being created.
	duringCreate func()
	// prepare customizes each new window.
	prepare func(*fakeWindow)
}

func (h *fakeHost) CreateWindow(cfg WindowConfig) (Window, error) {
	if h.duringCreate != nil {
		h.duringCreate()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.createPanic {
		panic("no display")
	}
	if h.createErr != nil {
		return nil, h.createErr
	}
	w := &fakeWindow{}
	if h.prepare != nil {
		h.prepare(w)
	}
	h.windows = append(h.windows, w)
	h.configs = append(h.configs, cfg)
	return w, nil
}

func (h *fakeHost) ForceDestroy(w Window) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forced++
	return h.forceErr
}

func (h *fakeHost) windowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}

func (h *fakeHost) last() *fakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.windows[len(h.windows)-1]
}

func newTestController(host *fakeHost) (*Controller, *countingClock, *manualTime) {
	src := &manualTime{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := &countingClock{Clock: session.NewClock(src)}
	return NewController(host, clock), clock, src
}

func windowConfig() WindowConfig {
	prefs := config.DefaultPreferences()
	prefs.LaunchMode = config.LaunchModeWindow
	return NewWindowConfig(prefs, common.LauncherURL)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "Closed"},
		{StateOpening, "Opening"},
		{StateOpen, "Open"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("State.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewWindowConfig(t *testing.T) {
	prefs := config.DefaultPreferences()
	prefs.WindowWidth, prefs.WindowHeight = 1600, 900

	fullscreen := NewWindowConfig(prefs, common.LauncherURL)
	if fullscreen.Mode != config.LaunchModeFullscreen {
		t.Errorf("unset mode should open fullscreen, got %v", fullscreen.Mode)
	}
	if fullscreen.Width != 0 || fullscreen.Height != 0 || fullscreen.Resizable {
		t.Errorf("fullscreen config should carry no size: %+v", fullscreen)
	}

	prefs.LaunchMode = config.LaunchModeWindow
	windowed := NewWindowConfig(prefs, common.LauncherURL)
	if windowed.Width != 1600 || windowed.Height != 900 || !windowed.Resizable {
		t.Errorf("window config = %+v, want 1600x900 resizable", windowed)
	}
	if windowed.URL != common.LauncherURL || windowed.Title != common.LauncherTitle || !windowed.ConfirmClose {
		t.Errorf("window config = %+v, want launcher title, URL and close confirmation", windowed)
	}
	if windowed.String() != "window 1600x900" {
		t.Errorf("String() = %q", windowed.String())
	}
}

func TestController_OpenIsIdempotent(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var started atomic.Int32
	ctrl.SetOnSessionStarted(func(SessionInfo) { started.Add(1) })

	for i := 0; i < 2; i++ {
		if err := ctrl.Open(windowConfig()); err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
	}

	if got := host.windowCount(); got != 1 {
		t.Errorf("windows created = %d, want 1", got)
	}
	if got := clock.starts.Load(); got != 1 {
		t.Errorf("clock starts = %d, want 1", got)
	}
	if got := started.Load(); got != 1 {
		t.Errorf("session started callbacks = %d, want 1", got)
	}
	if !ctrl.IsOpen() {
		t.Error("controller should be open")
	}
	if cfg := host.configs[0]; cfg.Width != common.DefaultWindowWidth || cfg.Height != common.DefaultWindowHeight {
		t.Errorf("host got %+v, want stored dimensions", cfg)
	}
}

func TestController_ElapsedTime(t *testing.T) {
	host := &fakeHost{}
	ctrl, _, src := newTestController(host)

	if got := ctrl.ElapsedSeconds(); got != 0 {
		t.Errorf("ElapsedSeconds() before open = %d, want 0", got)
	}

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatal(err)
	}
	src.Advance(3 * time.Second)
	if got := ctrl.ElapsedSeconds(); got < 3 {
		t.Errorf("ElapsedSeconds() = %d, want >= 3", got)
	}

	ctrl.Close()
	if got := ctrl.ElapsedSeconds(); got != 0 {
		t.Errorf("ElapsedSeconds() after close = %d, want 0", got)
	}
}

func TestController_CloseDestroysAndReports(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, src := newTestController(host)

	var ended []SessionInfo
	ctrl.SetOnSessionEnded(func(info SessionInfo) { ended = append(ended, info) })

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatal(err)
	}
	current, ok := ctrl.Current()
	if !ok || current.ID == "" {
		t.Fatalf("Current() = %+v, %v; want running session with an ID", current, ok)
	}

	src.Advance(90 * time.Second)
	if err := ctrl.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := host.last().destroyCount(); got != 1 {
		t.Errorf("destroy calls = %d, want 1", got)
	}
	if ctrl.State() != StateClosed {
		t.Errorf("State() = %v, want Closed", ctrl.State())
	}
	if got := clock.resets.Load(); got != 1 {
		t.Errorf("clock resets = %d, want 1", got)
	}
	if len(ended) != 1 {
		t.Fatalf("ended callbacks = %d, want 1", len(ended))
	}
	if ended[0].ID != current.ID || ended[0].Duration != 90*time.Second || ended[0].Reason != ReasonClosedByShell {
		t.Errorf("ended session = %+v", ended[0])
	}
	if !ended[0].EndedAt.Equal(ended[0].StartedAt.Add(90 * time.Second)) {
		t.Errorf("EndedAt = %v, StartedAt = %v", ended[0].EndedAt, ended[0].StartedAt)
	}
	if _, ok := ctrl.Current(); ok {
		t.Error("Current() should report no session after close")
	}
}

func TestController_CloseWhenClosedIsNoop(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	if err := ctrl.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if got := clock.resets.Load(); got != 0 {
		t.Errorf("clock resets = %d, want 0", got)
	}
}

func TestController_HostNotification(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var reasons []EndReason
	ctrl.SetOnSessionEnded(func(info SessionInfo) { reasons = append(reasons, info.Reason) })

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatal(err)
	}
	w := host.last()
	w.fireClosed()
	w.fireClosed()

	if ctrl.State() != StateClosed {
		t.Errorf("State() = %v, want Closed", ctrl.State())
	}
	if got := clock.resets.Load(); got != 1 {
		t.Errorf("clock resets = %d, want 1", got)
	}
	if len(reasons) != 1 || reasons[0] != ReasonClosedByUser {
		t.Errorf("end reasons = %v, want one closed-by-user", reasons)
	}
	if got := w.destroyCount(); got != 0 {
		t.Errorf("a user-closed window should not be destroyed again, got %d", got)
	}

	// A fresh window opens after the user closed the previous one.
	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatal(err)
	}
	if host.windowCount() != 2 || !ctrl.IsOpen() {
		t.Error("reopen after user close should create a new window")
	}

	// A late signal from the first window must not close the second one.
	w.fireClosed()
	if !ctrl.IsOpen() {
		t.Error("stale close notification closed the new window")
	}
}

func TestController_CloseThenNotification(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var ended atomic.Int32
	ctrl.SetOnSessionEnded(func(SessionInfo) { ended.Add(1) })

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatal(err)
	}
	w := host.last()

	// The destroy signal of a shell-closed window arrives afterwards.
	ctrl.Close()
	w.fireClosed()

	if got := clock.resets.Load(); got != 1 {
		t.Errorf("clock resets = %d, want 1", got)
	}
	if got := ended.Load(); got != 1 {
		t.Errorf("ended callbacks = %d, want 1", got)
	}
}

func TestController_ConvergentCloseRace(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var ended atomic.Int32
	ctrl.SetOnSessionEnded(func(SessionInfo) { ended.Add(1) })

	const rounds = 200
	for i := 0; i < rounds; i++ {
		if err := ctrl.Open(windowConfig()); err != nil {
			t.Fatal(err)
		}
		w := host.last()

		var wg sync.WaitGroup
		start := make(chan struct{})
		wg.Add(3)
		go func() {
			defer wg.Done()
			<-start
			ctrl.Close()
		}()
		go func() {
			defer wg.Done()
			<-start
			w.fireClosed()
		}()
		go func() {
			defer wg.Done()
			<-start
			w.fireClosed()
		}()
		close(start)
		wg.Wait()

		if ctrl.State() != StateClosed {
			t.Fatalf("round %d: State() = %v, want Closed", i, ctrl.State())
		}
		if got := ctrl.ElapsedSeconds(); got != 0 {
			t.Fatalf("round %d: ElapsedSeconds() = %d, want 0", i, got)
		}
	}

	if got := clock.resets.Load(); got != rounds {
		t.Errorf("clock resets = %d, want %d", got, rounds)
	}
	if got := ended.Load(); got != rounds {
		t.Errorf("ended callbacks = %d, want %d", got, rounds)
	}
}

func TestController_DestroyFallback(t *testing.T) {
	tests := []struct {
		name       string
		destroyErr error
		panics     bool
		forceErr   error
		wantForced int
	}{
		{name: "graceful", wantForced: 0},
		{name: "error falls back", destroyErr: errors.New("already gone"), wantForced: 1},
		{name: "panic falls back", panics: true, wantForced: 1},
		{name: "both fail", destroyErr: errors.New("stuck"), forceErr: errors.New("still stuck"), wantForced: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{forceErr: tt.forceErr}
			host.prepare = func(w *fakeWindow) {
				w.destroyErr = tt.destroyErr
				w.destroyPanic = tt.panics
			}
			ctrl, clock, _ := newTestController(host)

			if err := ctrl.Open(windowConfig()); err != nil {
				t.Fatal(err)
			}
			if err := ctrl.Close(); err != nil {
				t.Errorf("Close() error = %v, want nil", err)
			}

			if host.forced != tt.wantForced {
				t.Errorf("forced destroys = %d, want %d", host.forced, tt.wantForced)
			}
			if ctrl.State() != StateClosed || clock.resets.Load() != 1 {
				t.Errorf("state = %v, resets = %d; want Closed after one reset", ctrl.State(), clock.resets.Load())
			}

			// The shell can open a new window afterwards.
			if err := ctrl.Open(windowConfig()); err != nil || !ctrl.IsOpen() {
				t.Errorf("reopen failed: %v", err)
			}
		})
	}
}

func TestController_OpenFailure(t *testing.T) {
	tests := []struct {
		name string
		host *fakeHost
	}{
		{"error", &fakeHost{createErr: errors.New("no display")}},
		{"panic", &fakeHost{createPanic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, clock, _ := newTestController(tt.host)

			err := ctrl.Open(windowConfig())
			if !errors.Is(err, common.ErrWindowCreate) {
				t.Errorf("Open() error = %v, want ErrWindowCreate", err)
			}
			if ctrl.State() != StateClosed {
				t.Errorf("State() = %v, want Closed", ctrl.State())
			}
			if clock.starts.Load() != 0 {
				t.Error("clock must not start when creation fails")
			}
		})
	}
}

func TestController_CloseWhileOpening(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var started atomic.Int32
	ctrl.SetOnSessionStarted(func(SessionInfo) { started.Add(1) })

	host.duringCreate = func() {
		if ctrl.State() != StateOpening {
			t.Errorf("State() during creation = %v, want Opening", ctrl.State())
		}
		// A second open is a no-op, a close abandons the open in flight.
		if err := ctrl.Open(windowConfig()); err != nil {
			t.Errorf("nested Open() error = %v", err)
		}
		if err := ctrl.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := host.windowCount(); got != 1 {
		t.Fatalf("windows created = %d, want 1", got)
	}
	if got := host.last().destroyCount(); got != 1 {
		t.Errorf("abandoned window destroyed %d times, want 1", got)
	}
	if ctrl.State() != StateClosed {
		t.Errorf("State() = %v, want Closed", ctrl.State())
	}
	if clock.starts.Load() != 0 || started.Load() != 0 {
		t.Error("an abandoned open must not start a session")
	}
}

func TestController_ReopenWhileOpening(t *testing.T) {
	host := &fakeHost{}
	ctrl, clock, _ := newTestController(host)

	var started atomic.Int32
	ctrl.SetOnSessionStarted(func(SessionInfo) { started.Add(1) })

	// The last request wins: close then open during creation keeps the window.
	host.duringCreate = func() {
		if err := ctrl.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if err := ctrl.Open(windowConfig()); err != nil {
			t.Errorf("nested Open() error = %v", err)
		}
	}

	if err := ctrl.Open(windowConfig()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := host.windowCount(); got != 1 {
		t.Fatalf("windows created = %d, want 1", got)
	}
	if got := host.last().destroyCount(); got != 0 {
		t.Errorf("kept window destroyed %d times, want 0", got)
	}
	if ctrl.State() != StateOpen {
		t.Errorf("State() = %v, want Open", ctrl.State())
	}
	if clock.starts.Load() != 1 || started.Load() != 1 {
		t.Errorf("clock starts = %d, sessions started = %d, want 1 each", clock.starts.Load(), started.Load())
	}
}
