package launcher

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yllada/lexair-launcher/common"
)

var errNoWindow = errors.New("host returned no window")

// Controller manages the single launcher window.
//
// All state changes happen under mu. Host calls are made without holding
// it, so a host that reports a close from inside Destroy cannot deadlock.
// Every opened window gets a generation number; a close notification only
// counts when it matches the live generation, which makes cleanup run
// exactly once per window however many close signals race.
type Controller struct {
	mu         sync.Mutex
	host       Host
	clock      SessionClock
	state      State
	window     Window
	generation uint64
	abandoned  bool
	current    SessionInfo

	onStarted func(SessionInfo)
	onEnded   func(SessionInfo)
}

// NewController creates a controller in the closed state.
func NewController(host Host, clock SessionClock) *Controller {
	return &Controller{
		host:  host,
		clock: clock,
		state: StateClosed,
	}
}

// SetOnSessionStarted sets a callback for newly opened windows.
func (c *Controller) SetOnSessionStarted(callback func(SessionInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStarted = callback
}

// SetOnSessionEnded sets a callback that runs once per closed window.
func (c *Controller) SetOnSessionEnded(callback func(SessionInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnded = callback
}

// Open creates the launcher window unless one is already open or opening.
// A repeated call is a no-op that returns nil. An open that follows a close
// while the window is still being created keeps that window.
func (c *Controller) Open(cfg WindowConfig) error {
	c.mu.Lock()
	if c.state == StateOpening && c.abandoned {
		c.abandoned = false
		c.mu.Unlock()
		common.LogDebug("Open requested again while launcher is opening, keeping new window")
		return nil
	}
	if c.state != StateClosed {
		state := c.state
		c.mu.Unlock()
		common.LogDebug("Launcher already %s, ignoring open", state)
		return nil
	}
	c.state = StateOpening
	c.abandoned = false
	c.mu.Unlock()

	common.LogInfo("Opening launcher (%s)", cfg)

	var w Window
	err := safeCall("create window", func() error {
		var createErr error
		w, createErr = c.host.CreateWindow(cfg)
		return createErr
	})
	if err == nil && w == nil {
		err = errNoWindow
	}

	c.mu.Lock()
	if err != nil {
		c.state = StateClosed
		c.abandoned = false
		c.mu.Unlock()
		common.LogError("Could not open launcher: %v", err)
		return fmt.Errorf("%w: %v", common.ErrWindowCreate, err)
	}

	if c.abandoned {
		// Close arrived while the host was still creating the window.
		c.state = StateClosed
		c.abandoned = false
		c.mu.Unlock()
		common.LogInfo("Launcher closed while opening, discarding new window")
		c.destroy(w)
		return nil
	}

	c.generation++
	gen := c.generation
	c.window = w
	c.state = StateOpen
	c.clock.Start()
	startedAt, _ := c.clock.StartedAt()
	c.current = SessionInfo{
		ID:        uuid.NewString(),
		Mode:      cfg.Mode,
		Width:     cfg.Width,
		Height:    cfg.Height,
		StartedAt: startedAt,
	}
	info := c.current
	onStarted := c.onStarted
	c.mu.Unlock()

	if err := safeCall("subscribe close", func() error {
		w.OnClosed(func() { c.handleClosed(gen) })
		return nil
	}); err != nil {
		common.LogWarn("Could not watch launcher window: %v", err)
	}

	if onStarted != nil {
		onStarted(info)
	}
	return nil
}

// Close destroys the launcher window. Bookkeeping is reset first and
// unconditionally; a failing graceful destroy falls back to the host's
// forced path. Close always returns nil.
func (c *Controller) Close() error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return nil
	case StateOpening:
		c.abandoned = true
		c.mu.Unlock()
		common.LogDebug("Close requested while launcher is opening")
		return nil
	}

	w := c.window
	info := c.finishLocked(ReasonClosedByShell)
	onEnded := c.onEnded
	c.mu.Unlock()

	c.destroy(w)

	common.LogInfo("Launcher closed after %s", common.FormatClock(int(info.Duration.Seconds())))
	if onEnded != nil {
		onEnded(info)
	}
	return nil
}

// handleClosed is the host close notification for window generation gen.
func (c *Controller) handleClosed(gen uint64) {
	c.mu.Lock()
	if c.state != StateOpen || c.generation != gen {
		c.mu.Unlock()
		common.LogDebug("Ignoring stale close notification (generation %d)", gen)
		return
	}

	info := c.finishLocked(ReasonClosedByUser)
	onEnded := c.onEnded
	c.mu.Unlock()

	common.LogInfo("Launcher window closed by user after %s", common.FormatClock(int(info.Duration.Seconds())))
	if onEnded != nil {
		onEnded(info)
	}
}

// finishLocked moves an open controller to closed and returns the finished session.
// c.mu must be held.
func (c *Controller) finishLocked(reason EndReason) SessionInfo {
	info := c.current
	info.Duration = c.clock.Elapsed()
	info.EndedAt = info.StartedAt.Add(info.Duration)
	info.Reason = reason

	c.clock.Reset()
	c.window = nil
	c.current = SessionInfo{}
	c.state = StateClosed
	c.generation++
	return info
}

// destroy tears a window down, falling back to the forced path.
func (c *Controller) destroy(w Window) {
	err := safeCall("destroy window", w.Destroy)
	if err == nil {
		return
	}

	common.LogWarn("Graceful destroy failed (%v), forcing", err)
	if err := safeCall("force destroy window", func() error { return c.host.ForceDestroy(w) }); err != nil {
		common.LogError("%v: %v", common.ErrWindowDestroy, err)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether a launcher window is live.
func (c *Controller) IsOpen() bool {
	return c.State() == StateOpen
}

// Current returns the running session, if any.
func (c *Controller) Current() (SessionInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen {
		return SessionInfo{}, false
	}
	return c.current, true
}

// ElapsedSeconds returns the open time of the current window, or 0.
func (c *Controller) ElapsedSeconds() int {
	return c.clock.ElapsedSeconds()
}
