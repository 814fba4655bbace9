/**
 * setwallpaper - X11 / Wayland wallpaper setter
 *
 * App wires the feature packages together:
 * - Environment probing (session and desktop classification)
 * - Back end dispatch (native X11 render, compositor tools, desktop settings)
 * - pcmanfm-qt settings persistence
 * - Slideshow over one display connection
 */

package setwallpaper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ln64-git/setwallpaper/src/config"
	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/features/dispatcher"
	"github.com/ln64-git/setwallpaper/src/features/environment"
	"github.com/ln64-git/setwallpaper/src/features/persister"
	"github.com/ln64-git/setwallpaper/src/features/renderer"
	"github.com/ln64-git/setwallpaper/src/features/slideshow"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// App is the main orchestrator for one invocation
type App struct {
	logger     *utility.Logger
	config     *config.Config
	env        environment.Env
	shell      dispatcher.Runner
	open       renderer.Opener
	renderer   *renderer.Renderer
	dispatcher *dispatcher.Dispatcher
	sleep      func(time.Duration)

	dispatcherOpts []dispatcher.Option
}

// Option customizes an App
type Option func(*App)

// WithEnv replaces the process environment
func WithEnv(env environment.Env) Option {
	return func(a *App) { a.env = env }
}

// WithRunner replaces the subprocess runner
func WithRunner(r dispatcher.Runner) Option {
	return func(a *App) { a.shell = r }
}

// WithOpener replaces the X11 display opener
func WithOpener(open renderer.Opener) Option {
	return func(a *App) { a.open = open }
}

// WithSleep replaces time.Sleep for slideshow and desktop sync waits
func WithSleep(sleep func(time.Duration)) Option {
	return func(a *App) { a.sleep = sleep }
}

// WithDispatcherOptions passes options through to the dispatcher
func WithDispatcherOptions(opts ...dispatcher.Option) Option {
	return func(a *App) { a.dispatcherOpts = append(a.dispatcherOpts, opts...) }
}

// NewApp creates a new App instance
func NewApp(logger *utility.Logger, cfg *config.Config, opts ...Option) *App {
	if logger == nil {
		logger = utility.Discard()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		logger: logger,
		config: cfg,
		env:    environment.OSEnv{},
		open:   renderer.OpenDisplay,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.shell == nil {
		a.shell = utility.NewShell(logger, cfg.CommandTimeout)
	}

	a.renderer = renderer.NewRenderer(logger, cfg.Scaler)
	dopts := []dispatcher.Option{
		dispatcher.WithNativeBackends(
			dispatcher.NewNativeRender(a.open, a.renderer),
			dispatcher.NewEnhancedRender(a.open, a.renderer),
		),
	}
	if a.sleep != nil {
		dopts = append(dopts, dispatcher.WithSleep(a.sleep))
	}
	a.dispatcher = dispatcher.New(logger, a.shell, cfg, append(dopts, a.dispatcherOpts...)...)
	return a
}

// Classify probes the environment
func (a *App) Classify() environment.Classification {
	return environment.Probe(a.env)
}

// Persister returns the settings persister for the current user
func (a *App) Persister() *persister.Persister {
	path := persister.Resolve(a.config.ConfigFile, environment.HomeDir(a.env), a.config.PcmanfmProfile)
	return persister.New(path, persister.WithLogger(a.logger))
}

// SetWallpaper applies imagePath once and, when syncConfig is set, records it
// in the desktop settings. Only fatal errors are returned.
func (a *App) SetWallpaper(ctx context.Context, imagePath string, syncConfig bool) error {
	if !utility.IsRegularFile(imagePath) {
		return wperrors.WithPath(wperrors.KindImageLoad, "open image", imagePath,
			fmt.Errorf("not a regular file"))
	}
	abs, err := utility.AbsolutePath(imagePath)
	if err != nil {
		return wperrors.WithPath(wperrors.KindImageLoad, "resolve image", imagePath, err)
	}

	cls := a.Classify()
	a.logger.Debug("Session %s, desktop %s", cls.Session, cls.Desktop)

	if err := a.dispatcher.Dispatch(ctx, cls, abs); err != nil {
		return err
	}
	a.logger.Info("Wallpaper set: %s", abs)

	if syncConfig {
		a.syncConfig(abs)
	}
	return nil
}

// Slideshow shows each image for delay on one display connection
func (a *App) Slideshow(ctx context.Context, images []string, delay time.Duration, syncConfig bool) error {
	driver := &slideshow.Driver{
		Renderer:  a.renderer,
		Open:      a.open,
		Persister: a.Persister(),
		Sleep:     a.sleep,
		Logger:    a.logger,
	}
	return driver.Run(ctx, images, delay, syncConfig)
}

func (a *App) syncConfig(abs string) {
	p := a.Persister()
	if err := p.Persist(abs); err != nil {
		a.logger.Warn("Config sync failed: %v", err)
		return
	}
	a.logger.Info("Config updated: %s", p.Path)
}

// DetectStatus describes the environment and the back end that would be used
func (a *App) DetectStatus(ctx context.Context) string {
	cls := a.Classify()
	kind, name := a.dispatcher.Plan(cls)

	lines := []string{
		"Wallpaper Environment",
		strings.Repeat("=", 50),
		"",
		"Session:",
		fmt.Sprintf("  Type: %s", cls.Session),
		fmt.Sprintf("  Desktop: %s", cls.Desktop),
		fmt.Sprintf("  Native setter: %s", boolToYesNo(cls.Desktop.HasNativeSetter())),
		fmt.Sprintf("  Enhanced render: %s", boolToYesNo(cls.Desktop.RacesWithRenderer())),
		"",
		"Back end:",
	}

	if kind == "" {
		lines = append(lines, "  none (install swww, swaybg, wbg or feh)")
	} else {
		lines = append(lines, fmt.Sprintf("  %s: %s", kind, name))
	}

	if cls.Session != environment.SessionWayland {
		lines = append(lines, "", "Display:", "  "+a.displayInfo())
		running := a.shell.IsRunning(ctx, a.config.DesktopShell)
		lines = append(lines, fmt.Sprintf("  %s running: %s", a.config.DesktopShell, boolToYesNo(running)))
	}

	lines = append(lines, "", "Config file:")
	if path := a.Persister().Path; path != "" {
		lines = append(lines, "  "+path)
	} else {
		lines = append(lines, "  unknown (HOME is not set)")
	}

	return strings.Join(lines, "\n")
}

func (a *App) displayInfo() string {
	s, err := a.open()
	if err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	defer s.Close()
	w, h := s.Size()
	return fmt.Sprintf("Root window: %dx%d", w, h)
}

func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
