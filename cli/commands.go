package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yllada/lexair-launcher/common"
)

// BuildInfo holds the values injected at build time.
type BuildInfo struct {
	Version string
	Time    string
	Commit  string
}

// GUIOptions configures the graphical application started by the root command.
type GUIOptions struct {
	// Context is cancelled when the process is asked to stop.
	Context         context.Context
	Version         string
	PreferencesPath string
	URL             string
	HistoryPath     string
	NoTray          bool
}

// GUIFunc runs the graphical application and returns its exit code.
type GUIFunc func(opts GUIOptions) int

type rootFlags struct {
	config   string
	url      string
	history  string
	verbose  bool
	logLevel string
	noTray   bool
}

// NewRootCommand builds the command tree. Without a subcommand the root
// command starts the graphical application through gui and stores its exit
// code in exitCode.
func NewRootCommand(info BuildInfo, gui GUIFunc, exitCode *int) *cobra.Command {
	flags := &rootFlags{}

	newCLI := func(cmd *cobra.Command) *CLI {
		return New(flags.config, flags.url, flags.history, cmd.OutOrStdout())
	}

	root := &cobra.Command{
		Use:           "lexair-launcher",
		Short:         "Desktop shell for the " + common.AppName,
		Long:          "Shows the usage policies, stores the launch preferences and opens the web launcher in a kiosk window.",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			common.LogInfo("Starting %s v%s", common.AppName, info.Version)
			code := gui(GUIOptions{
				Context:         cmd.Context(),
				Version:         info.Version,
				PreferencesPath: flags.config,
				URL:             flags.url,
				HistoryPath:     flags.history,
				NoTray:          flags.noTray,
			})
			if code != 0 {
				common.LogWarn("Application exited with code %d", code)
			}
			if exitCode != nil {
				*exitCode = code
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.config, "config", "", "preferences file (default "+common.DefaultPreferencesPath()+")")
	root.PersistentFlags().StringVar(&flags.history, "history", "", "session history database")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.url, "url", "", "launcher page (default "+common.LauncherURL+")")
	root.Flags().BoolVar(&flags.noTray, "no-tray", false, "quit when the control window closes")

	root.AddCommand(
		newStatusCommand(newCLI),
		newModeCommand(newCLI),
		newLanguageCommand(newCLI),
		newAcceptCommand(newCLI),
		newCallCommand(newCLI),
		newHistoryCommand(newCLI),
		newVersionCommand(info),
	)

	return root
}

func initLogging(flags *rootFlags) error {
	level := common.ParseLevel(flags.logLevel)
	if flags.verbose {
		level = common.LevelDebug
	}

	if err := common.InitLogger(common.LogConfig{
		Level:       level,
		EnableFile:  true,
		MaxFileSize: 5 * 1024 * 1024, // 5MB
		MaxBackups:  5,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	return nil
}

func newStatusCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored preferences and session totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newCLI(cmd).Status(cmd.Context(), check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "probe the launcher server")
	return cmd
}

func newModeCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode <fullscreen|window> [WIDTHxHEIGHT]",
		Short: "Set the launch mode",
		Long: "Set the launch mode. In window mode an optional size such as 1600x900 " +
			"replaces the stored window size.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var width, height *int
			if len(args) == 2 {
				w, h, err := parseSize(args[1])
				if err != nil {
					return err
				}
				width, height = &w, &h
			}
			return newCLI(cmd).SetMode(args[0], width, height)
		},
	}
	return cmd
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not WIDTHxHEIGHT", common.ErrInvalidDimensions, s)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(ws))
	h, errH := strconv.Atoi(strings.TrimSpace(hs))
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("%w: %q is not WIDTHxHEIGHT", common.ErrInvalidDimensions, s)
	}
	return w, h, nil
}

func newLanguageCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "language <code>",
		Short: "Set the interface language (" + strings.Join(common.SupportedLanguages, ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newCLI(cmd).SetLanguage(args[0])
		},
	}
}

func newAcceptCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "accept-policies",
		Short: "Record that the usage policies were accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newCLI(cmd).AcceptPolicies()
		},
	}
}

func newCallCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "call <command> [json-args]",
		Short: "Run a page command and print the JSON response",
		Long: "Run one of the commands the launcher page uses, for example:\n\n" +
			"  lexair-launcher call getInitialState\n" +
			"  lexair-launcher call setLaunchMode '{\"mode\":\"window\",\"width\":1280,\"height\":720}'",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCLI(cmd)
			if list {
				c.Commands()
				return nil
			}
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			return c.Call(args[0], raw)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the available commands")
	return cmd
}

func newHistoryCommand(newCLI func(*cobra.Command) *CLI) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent launcher sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newCLI(cmd).History(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to show")
	return cmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p := newPrinter(cmd.OutOrStdout())
			fmt.Fprintf(p.w, "%s v%s\n", common.AppName, info.Version)
			if info.Time != "unknown" && info.Time != "" {
				p.field("Build", info.Time)
				p.field("Commit", info.Commit)
			}
		},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, info BuildInfo, gui GUIFunc) int {
	exitCode := 0
	root := NewRootCommand(info, gui, &exitCode)
	if err := root.ExecuteContext(ctx); err != nil {
		newPrinter(root.ErrOrStderr()).fail("%v", err)
		return 1
	}
	return exitCode
}
