package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	setwallpaper "github.com/ln64-git/setwallpaper/internal"
	"github.com/ln64-git/setwallpaper/src/config"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// CLI holds the configuration and the per-invocation app for command handlers
type CLI struct {
	config  *config.Config
	version string
	logger  *utility.Logger
	app     *setwallpaper.App

	verbose    bool
	logMode    string
	slideshow  string
	syncConfig bool

	// newApp builds the App once flags are parsed; replaced in tests
	newApp func(logger *utility.Logger, cfg *config.Config) *setwallpaper.App
}

// NewCLI creates a new CLI instance
func NewCLI(cfg *config.Config, version string) *CLI {
	if cfg == nil {
		cfg = config.Default()
	}
	return &CLI{
		config:  cfg,
		version: version,
		newApp: func(logger *utility.Logger, cfg *config.Config) *setwallpaper.App {
			return setwallpaper.NewApp(logger, cfg)
		},
	}
}

// Logger returns the logger built for this invocation, or a console logger
// when no command has run yet
func (c *CLI) Logger() *utility.Logger {
	if c.logger == nil {
		c.logger = utility.NewLogger("cli", utility.INFO)
	}
	return c.logger
}

// Close releases the logger
func (c *CLI) Close() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Close()
}

// CreateCommands creates all CLI commands
func (c *CLI) CreateCommands() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "setwallpaper <image> | --slideshow <delay_seconds> <image>...",
		Short: "setwallpaper - X11 / Wayland wallpaper setter",
		Long: `setwallpaper sets the desktop background on X11 and Wayland sessions.

On X11 the image is scaled to the root window and installed directly, with
extra synchronization for LXQt and LXDE. On Wayland an installed compositor
tool (swww, swaybg, wbg, feh) is used, falling back to GNOME or KDE settings.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runRoot,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&c.logMode, "log-mode", "", "Log mode: cli, file or journal (default from SETWALLPAPER_LOG_MODE)")

	rootCmd.Flags().StringVar(&c.slideshow, "slideshow", "", "Cycle the images, showing each for this many seconds")
	rootCmd.Flags().BoolVar(&c.syncConfig, "sync-config", false, "Record the wallpaper in the pcmanfm-qt settings file")

	rootCmd.AddCommand(c.createDetectCmd())
	rootCmd.AddCommand(c.createVersionCmd())

	return rootCmd
}

// setup builds the logger and app from config and global flags
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg := *c.config
	if c.logMode != "" {
		cfg.LogMode = c.logMode
	}
	if c.verbose {
		cfg.LogLevel = config.LogLevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Close()
	}
	c.logger = utility.NewLoggerWithDir(cfg.LogMode, utility.ParseLogLevel(string(cfg.LogLevel)), cfg.LogDir)
	c.logger.Debug("Loaded %s", cfg.String())
	c.app = c.newApp(c.logger, &cfg)
	return nil
}

func (c *CLI) runRoot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Flags().Changed("slideshow") {
		delay, err := parseDelay(c.slideshow)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return fmt.Errorf("--slideshow needs at least one image")
		}
		return c.warnOnly(c.app.Slideshow(ctx, args, delay, c.syncConfig))
	}

	if len(args) != 1 {
		return fmt.Errorf("expected exactly one image, got %d (see --help)", len(args))
	}
	return c.warnOnly(c.app.SetWallpaper(ctx, args[0], c.syncConfig))
}

// warnOnly downgrades non-fatal errors to warnings
func (c *CLI) warnOnly(err error) error {
	if err == nil || IsFatal(err) {
		return err
	}
	c.logger.Warn("%v", err)
	return nil
}

func (c *CLI) createDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the detected session, desktop and wallpaper back end",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.app.DetectStatus(cmd.Context()))
		},
	}
}

func (c *CLI) createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "setwallpaper v%s\n", c.version)
		},
	}
}
