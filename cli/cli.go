// Package cli provides command-line access to the launcher.
// It edits the stored preferences and runs shell commands without
// launching the GUI application.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/config"
	"github.com/yllada/lexair-launcher/history"
	"github.com/yllada/lexair-launcher/launcher"
	"github.com/yllada/lexair-launcher/reachability"
	"github.com/yllada/lexair-launcher/session"
	"github.com/yllada/lexair-launcher/shell"
)

var errHeadless = errors.New("no display in command line mode")

// headlessHost refuses to create windows.
type headlessHost struct{}

func (headlessHost) CreateWindow(launcher.WindowConfig) (launcher.Window, error) {
	return nil, errHeadless
}

func (headlessHost) ForceDestroy(launcher.Window) error {
	return nil
}

// CLI represents the command-line interface.
type CLI struct {
	store       *config.Store
	shell       *shell.Shell
	bridge      *shell.Bridge
	historyPath string
	out         *printer
}

// New creates a CLI over the preference file at prefsPath.
func New(prefsPath, url, historyPath string, out io.Writer) *CLI {
	if prefsPath == "" {
		prefsPath = common.DefaultPreferencesPath()
	}

	store := config.Load(prefsPath)
	ctrl := launcher.NewController(headlessHost{}, session.NewClock(nil))
	sh := shell.New(store, ctrl, url)
	sh.SetExitFunc(func(code int) {
		common.LogDebug("Exit requested with code %d in command line mode", code)
	})

	return &CLI{
		store:       store,
		shell:       sh,
		bridge:      shell.NewBridge(sh),
		historyPath: historyPath,
		out:         newPrinter(out),
	}
}

// Status prints the stored preferences and the session summary.
// When check is set it also probes the launcher server once.
func (c *CLI) Status(ctx context.Context, check bool) error {
	state := c.shell.GetInitialState()

	mode := "unset (opens fullscreen)"
	if state.LaunchMode != nil {
		mode = *state.LaunchMode
	}
	policies := "pending"
	if state.PoliciesAccepted {
		policies = "accepted"
	}

	c.out.section("Preferences")
	c.out.field("File", c.store.Path())
	c.out.field("Policies", policies)
	c.out.field("Launch mode", mode)
	c.out.field("Window size", fmt.Sprintf("%d x %d", state.WindowWidth, state.WindowHeight))
	c.out.field("Language", state.Language)
	c.out.field("Launcher URL", c.shell.URL())

	if check {
		c.checkServer(ctx)
	}

	store, err := c.openHistory()
	if err != nil {
		c.out.note("Session history unavailable: %v", err)
		return nil
	}
	defer store.Close()

	sum, err := store.Summary(ctx)
	if err != nil {
		return err
	}
	c.out.section("Sessions")
	c.out.field("Recorded", fmt.Sprintf("%d", sum.Sessions))
	c.out.field("Total time", common.FormatClock(sum.TotalSeconds))
	if !sum.LastEnded.IsZero() {
		c.out.field("Last session", sum.LastEnded.Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *CLI) checkServer(ctx context.Context) {
	monitor, err := reachability.NewMonitor(c.shell.URL(), reachability.DefaultConfig())
	if err != nil {
		c.out.fail("%v", err)
		return
	}
	s := monitor.Check(ctx)
	if s.State == reachability.StateReachable {
		c.out.field("Server", fmt.Sprintf("%s (%s, %v)", s.State, s.Address, s.Latency.Round(time.Millisecond)))
		return
	}
	c.out.field("Server", fmt.Sprintf("%s (%s)", reachability.StateUnreachable, s.Address))
}

// SetMode stores the launch mode. width and height may be nil.
func (c *CLI) SetMode(mode string, width, height *int) error {
	if err := c.shell.SetLaunchMode(mode, width, height); err != nil {
		return err
	}
	info := c.shell.GetLaunchMode()
	if *info.Mode == common.LaunchModeWindow {
		c.out.ok("Launch mode set to window (%d x %d)", info.WindowWidth, info.WindowHeight)
	} else {
		c.out.ok("Launch mode set to %s", *info.Mode)
	}
	return nil
}

// SetLanguage stores the language code.
func (c *CLI) SetLanguage(code string) error {
	c.shell.SetLanguage(code)
	stored := c.shell.GetInitialState().Language
	if stored != code {
		c.out.note("Language %q is not supported", code)
	}
	c.out.ok("Language set to %s", stored)
	return nil
}

// AcceptPolicies records the acceptance of the usage policies.
func (c *CLI) AcceptPolicies() error {
	c.shell.AcceptPolicies()
	c.out.ok("Usage policies accepted")
	return nil
}

// Call runs one bridge command and prints the JSON response.
// args is the JSON argument object and may be empty.
func (c *CLI) Call(command, args string) error {
	req := shell.Request{Version: shell.ProtocolVersion, Command: command}
	if strings.TrimSpace(args) != "" {
		req.Args = json.RawMessage(args)
	}

	resp := c.bridge.Call(req)
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out.w, string(data))

	if !resp.OK {
		return resp.Error
	}
	return nil
}

// Commands prints the bridge command names.
func (c *CLI) Commands() {
	for _, name := range c.bridge.Commands() {
		fmt.Fprintln(c.out.w, name)
	}
}

// History prints the most recent sessions.
func (c *CLI) History(ctx context.Context, limit int) error {
	store, err := c.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		c.out.note("No sessions recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(c.out.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tMODE\tSIZE\tENDED BY")
	fmt.Fprintln(w, "-------\t--------\t----\t----\t--------")
	for _, e := range entries {
		size := "-"
		if e.Mode == common.LaunchModeWindow {
			size = fmt.Sprintf("%dx%d", e.Width, e.Height)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Format("2006-01-02 15:04"), common.FormatClock(e.Seconds), e.Mode, size, e.Reason)
	}
	return w.Flush()
}

func (c *CLI) openHistory() (*history.Store, error) {
	path := c.historyPath
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	if !common.FileExists(path) {
		return nil, fmt.Errorf("%w: no database at %s", common.ErrHistoryUnavailable, path)
	}
	return history.Open(path)
}
