// Package main provides the entry point for the clatter CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/config"
	"github.com/dgnsrekt/clatter/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	catalogFile string
	debug       bool
	style       string
	width       uint
	mouse       bool
	showMascot  bool

	// cfg is loaded before any command runs.
	cfg       config.Config
	logCloser = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "clatter",
		Short: "A scrummy guide to onomatopoeia, with sound!",
		Long: paragraph(
			fmt.Sprintf("\nLearn sound words and %s.", keyword("hear what they sound like")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		RunE:             execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(config.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err //nolint:wrapcheck
	}
	cfg = c
	if debug {
		cfg.Log.Level = "debug"
	}

	// The TUI owns the terminal, so it always logs to the file.
	closer, err := setupLog(cfg.Log, debug && cmd != rootCmd)
	if err != nil {
		return err
	}
	logCloser = closer
	log.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "cache", cfg.Cache.Dir)

	// grab UI values from the loaded config
	style = cfg.UI.Style
	width = cfg.UI.Width
	mouse = cfg.UI.Mouse
	showMascot = cfg.UI.Mascot

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = styles.NoTTYStyle
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func execute(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	return runTUI(cmd.Context(), a)
}

func runTUI(ctx context.Context, a *app) error {
	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or the configured one if unset
	if uiCfg.GlamourStyle == styles.AutoStyle || config.ValidateStyle(uiCfg.GlamourStyle) != nil {
		uiCfg.GlamourStyle = style
	}
	if uiCfg.GlamourStyle == styles.NoTTYStyle {
		uiCfg.GlamourStyle = styles.AutoStyle
	}

	uiCfg.GlamourMaxWidth = width
	uiCfg.EnableMouse = mouse
	uiCfg.CatalogFile = a.cfg.Catalog.File
	uiCfg.ShowMascot = uiCfg.ShowMascot && showMascot

	// Run Bubble Tea program
	if _, err := ui.NewProgram(ctx, uiCfg, a.player, a.catalog).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logCloser()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the rootCmd literal: validateOptions
	// refers to rootCmd, which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return validateOptions(cmd)
	}
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", configFile, "config file")
	flags.StringVar(&catalogFile, "catalog", "", "YAML word list replacing the built-in catalog")
	flags.BoolVar(&debug, "debug", false, "log debug output (to stderr outside the TUI)")
	flags.StringVarP(&style, "style", "s", styles.AutoStyle, "style name or JSON path")
	flags.UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to fit the terminal)")
	flags.BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel (TUI-mode only)")
	flags.BoolVar(&showMascot, "mascot", true, "show the cupcake (TUI-mode only)")
	_ = flags.MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("catalog.file", flags.Lookup("catalog"))
	_ = viper.BindPFlag("ui.style", flags.Lookup("style"))
	_ = viper.BindPFlag("ui.width", flags.Lookup("width"))
	_ = viper.BindPFlag("ui.mouse", flags.Lookup("mouse"))
	_ = viper.BindPFlag("ui.mascot", flags.Lookup("mascot"))

	rootCmd.AddCommand(
		playCmd,
		wordsCmd,
		showCmd,
		quizCmd,
		cacheCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	file, err := config.ReadInConfig(v)
	if err != nil {
		log.Warn("Could not parse configuration file", "err", err)
		return
	}
	configFile = file

	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
}
