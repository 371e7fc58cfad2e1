package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/mbrowse/internal/config"
	"github.com/marcus/mbrowse/internal/output"
	"github.com/marcus/mbrowse/internal/suggest"
	"github.com/marcus/mbrowse/internal/workdir"
)

var (
	version string
	baseDir string
	cfg     *config.Config

	closeLog = func() error { return nil }
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "mbrowse",
	Short: "Select items from entity browser list views",
	Long: `mbrowse - select items from server-rendered entity browser list views.

Loads a list view document, resolves the widget's configuration from the page,
its embedder, the local settings store or a settings file, and lets you pick
items in the terminal while enforcing the field's cardinality.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(withDefaultCommand(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Selection:"},
		&cobra.Group{ID: "system", Title: "Settings and tools:"},
	)

	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (default from config)")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")

	rootCmd.SetFlagErrorFunc(flagError)
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	baseDir = workdir.ResolveBaseDir(baseDir)
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// setup loads the config and installs the logger. Flags override config.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(getBaseDir())
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	closer, err := setupLogging(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	closeLog = closer
	return nil
}

// firstNonFlagArg returns the first argument that is not a flag.
func firstNonFlagArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// withDefaultCommand turns "mbrowse page.html" into "mbrowse browse
// page.html" when the first argument is an existing file and not a command.
func withDefaultCommand(args []string) []string {
	first := firstNonFlagArg(args)
	if first == "" || isCommand(first) {
		return args
	}
	if info, err := os.Stat(first); err != nil || info.IsDir() {
		return args
	}
	return append([]string{browseCmd.Name()}, args...)
}

func isCommand(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// flagError adds suggestions to unknown flag errors.
func flagError(cmd *cobra.Command, err error) error {
	const marker = "unknown flag: "
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return err
	}
	name := strings.TrimSpace(msg[i+len(marker):])

	if hint := suggest.GetFlagHint(name); hint != "" {
		return fmt.Errorf("%w (try %s)", err, hint)
	}

	var valid []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		valid = append(valid, "--"+f.Name)
	})
	if matches := suggest.Flag(name, valid); len(matches) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(matches, ", "))
	}
	return err
}
