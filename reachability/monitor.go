// Package reachability watches whether the launcher server accepts
// connections, so the control window can warn before the kiosk window
// shows a blank page.
package reachability

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/yllada/lexair-launcher/common"
)

// State represents the reachability of the launcher server.
type State int

const (
	StateUnknown State = iota
	StateReachable
	StateDegraded
	StateUnreachable
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateReachable:
		return "Reachable"
	case StateDegraded:
		return "Degraded"
	case StateUnreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

// Config holds configuration for the monitor.
type Config struct {
	// CheckInterval is how often to probe the server.
	CheckInterval time.Duration
	// FailureThreshold is how many consecutive failures before marking unreachable.
	FailureThreshold int
	// Timeout bounds a single probe.
	Timeout time.Duration
}

// DefaultConfig returns the defaults used by the application.
func DefaultConfig() Config {
	return Config{
		CheckInterval:    30 * time.Second,
		FailureThreshold: 3,
		Timeout:          5 * time.Second,
	}
}

// DialFunc opens a connection. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Status is a snapshot of the last probe results.
type Status struct {
	Address          string
	State            State
	LastCheck        time.Time
	LastSuccess      time.Time
	ConsecutiveFails int
	Latency          time.Duration
}

// Monitor periodically probes the launcher server.
type Monitor struct {
	mu       sync.RWMutex
	config   Config
	dial     DialFunc
	running  bool
	stopChan chan struct{}
	status   Status
	onChange func(oldState, newState State)
}

// NewMonitor creates a monitor for the server behind rawURL.
func NewMonitor(rawURL string, config Config) (*Monitor, error) {
	address, err := Address(rawURL)
	if err != nil {
		return nil, err
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 1
	}
	dialer := &net.Dialer{}
	return &Monitor{
		config:   config,
		dial:     dialer.DialContext,
		stopChan: make(chan struct{}),
		status:   Status{Address: address, State: StateUnknown},
	}, nil
}

// Address returns the host:port to probe for rawURL.
func Address(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrServerUnreachable, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: no host in %q", common.ErrServerUnreachable, rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", fmt.Errorf("%w: unsupported scheme %q", common.ErrServerUnreachable, u.Scheme)
		}
	}
	return net.JoinHostPort(host, port), nil
}

// SetDialer replaces the function used to open probe connections.
func (m *Monitor) SetDialer(dial DialFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dial = dial
}

// SetOnChange sets a callback for state changes. It runs on its own goroutine.
func (m *Monitor) SetOnChange(callback func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = callback
}

// Start begins the probing loop. The first probe runs immediately.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	stop := m.stopChan
	m.mu.Unlock()

	common.LogInfo("Reachability monitor started for %s (interval: %v)", m.status.Address, m.config.CheckInterval)

	go m.runLoop(stop)
}

// Stop stops the probing loop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	common.LogInfo("Reachability monitor stopped")
}

// IsRunning returns whether the probing loop is active.
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Status returns a copy of the last probe results.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) runLoop(stop chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	m.Check(ctx)

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check probes the server once and returns the resulting status.
func (m *Monitor) Check(ctx context.Context) Status {
	m.mu.RLock()
	dial, address, timeout := m.dial, m.status.Address, m.config.Timeout
	m.mu.RUnlock()

	latency, err := probe(ctx, dial, address, timeout)

	m.mu.Lock()
	s := &m.status
	s.LastCheck = time.Now()
	oldState := s.State

	if err != nil {
		s.ConsecutiveFails++
		s.Latency = 0
		common.LogWarn("Launcher server probe failed (attempt %d/%d): %v",
			s.ConsecutiveFails, m.config.FailureThreshold, err)

		if s.ConsecutiveFails >= m.config.FailureThreshold {
			s.State = StateUnreachable
		} else {
			s.State = StateDegraded
		}
	} else {
		s.ConsecutiveFails = 0
		s.LastSuccess = s.LastCheck
		s.Latency = latency
		s.State = StateReachable
	}

	snapshot := *s
	onChange := m.onChange
	m.mu.Unlock()

	if oldState != snapshot.State {
		common.LogInfo("Launcher server state changed: %s -> %s", oldState, snapshot.State)
		if onChange != nil {
			go onChange(oldState, snapshot.State)
		}
	}
	return snapshot
}

// probe opens and closes one TCP connection, returning its latency.
func probe(ctx context.Context, dial DialFunc, address string, timeout time.Duration) (time.Duration, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := dial(ctx, "tcp", address)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrServerUnreachable, err)
	}
	conn.Close()
	return time.Since(start), nil
}
