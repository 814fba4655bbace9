/**
 * Dispatcher - picks the wallpaper back end for the current session
 *
 * Wayland sessions go through an external compositor tool or the desktop's
 * own setting. X11 sessions are rendered natively, with an enhanced retry and
 * desktop shell synchronization for shells that repaint the root window. When
 * both renders fail, installed X11 setters such as feh or hsetroot are tried.
 */

package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/ln64-git/setwallpaper/src/config"
	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/features/environment"
	"github.com/ln64-git/setwallpaper/src/features/renderer"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// Dispatcher routes Dispatch calls to a back end
type Dispatcher struct {
	logger *utility.Logger
	runner Runner

	native   Backend
	enhanced Backend
	syncer   Syncer
	plasma   PlasmaScripter
	tools    []CompositorTool
	x11Tools []CompositorTool

	threshold time.Duration
	now       func() time.Time
	sleep     func(time.Duration)
	lastApply time.Time
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithClock replaces time.Now for rapid-call detection
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithSleep replaces time.Sleep for desktop synchronization
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = sleep }
}

// WithNativeBackends replaces the plain and enhanced X11 back ends
func WithNativeBackends(native, enhanced Backend) Option {
	return func(d *Dispatcher) {
		d.native = native
		d.enhanced = enhanced
	}
}

// WithSyncer replaces the desktop shell synchronization routine
func WithSyncer(s Syncer) Option {
	return func(d *Dispatcher) { d.syncer = s }
}

// WithPlasma replaces the D-Bus client used for KDE
func WithPlasma(p PlasmaScripter) Option {
	return func(d *Dispatcher) { d.plasma = p }
}

// WithTools replaces the compositor tool candidates
func WithTools(tools []CompositorTool) Option {
	return func(d *Dispatcher) { d.tools = tools }
}

// WithX11Tools replaces the X11 fallback setters
func WithX11Tools(tools []CompositorTool) Option {
	return func(d *Dispatcher) { d.x11Tools = tools }
}

// New creates a Dispatcher configured from cfg
func New(logger *utility.Logger, runner Runner, cfg *config.Config, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = utility.Discard()
	}
	d := &Dispatcher{
		logger:    logger,
		runner:    runner,
		tools:     OrderTools(DefaultCompositorTools, cfg.WaylandTools),
		x11Tools:  DefaultX11Tools,
		threshold: cfg.RapidThreshold,
		now:       time.Now,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.native == nil || d.enhanced == nil {
		r := renderer.NewRenderer(logger, cfg.Scaler)
		d.native = NewNativeRender(renderer.OpenDisplay, r)
		d.enhanced = NewEnhancedRender(renderer.OpenDisplay, r)
	}
	if d.syncer == nil {
		d.syncer = NewDesktopSync(runner, logger, cfg.DesktopShell, cfg.SettleInterval, cfg.SyncDelay, d.sleep)
	}
	return d
}

// Plan returns the back end Dispatch would try first for cls
func (d *Dispatcher) Plan(cls environment.Classification) (BackendKind, string) {
	if cls.Session != environment.SessionWayland {
		return KindNativeRender, d.native.Name()
	}
	if tool, ok := DetectCompositorTool(d.runner, d.tools); ok {
		return KindExternalTool, tool.Program
	}
	if cls.Desktop.HasNativeSetter() {
		return KindDesktopNativeCommand, string(cls.Desktop)
	}
	return "", ""
}

// Dispatch sets imagePath as the wallpaper using the back end suited to cls
func (d *Dispatcher) Dispatch(ctx context.Context, cls environment.Classification, imagePath string) error {
	now := d.now()
	rapid := !d.lastApply.IsZero() && now.Sub(d.lastApply) < d.threshold
	d.lastApply = now

	if cls.Session == environment.SessionWayland {
		return d.dispatchWayland(ctx, cls, imagePath)
	}
	return d.dispatchX11(ctx, cls, imagePath, rapid)
}

func (d *Dispatcher) dispatchWayland(ctx context.Context, cls environment.Classification, imagePath string) error {
	if tool, ok := DetectCompositorTool(d.runner, d.tools); ok {
		d.logger.Debug("Using compositor tool %s", tool.Program)
		return NewExternalCompositorTool(d.runner, tool).Apply(ctx, imagePath)
	}

	if cls.Desktop.HasNativeSetter() {
		d.logger.Debug("No compositor tool found, using %s settings", cls.Desktop)
		return NewDesktopNativeCommand(cls.Desktop, d.runner, d.plasma, d.logger).Apply(ctx, imagePath)
	}

	return wperrors.New(wperrors.KindNoWaylandTool, "wayland dispatch",
		fmt.Errorf("none of the supported tools is installed (desktop %s)", cls.Desktop))
}

func (d *Dispatcher) dispatchX11(ctx context.Context, cls environment.Classification, imagePath string, rapid bool) error {
	if rapid {
		d.logger.Debug("Rapid successive call, synchronizing desktop first")
		d.synchronize(ctx)
	}

	err := d.native.Apply(ctx, imagePath)
	if err == nil && !cls.Desktop.RacesWithRenderer() {
		return nil
	}
	if wperrors.Is(err, wperrors.KindImageLoad) {
		return err
	}
	if err != nil {
		d.logger.Warn("Native render failed, retrying enhanced: %v", err)
	}

	if err := d.enhanced.Apply(ctx, imagePath); err != nil {
		if wperrors.Is(err, wperrors.KindImageLoad) {
			return err
		}
		return d.fallbackX11(ctx, imagePath, err)
	}
	d.synchronize(ctx)
	return nil
}

// fallbackX11 tries each installed X11 setter until one succeeds. renderErr is
// returned when none is installed or all of them fail.
func (d *Dispatcher) fallbackX11(ctx context.Context, imagePath string, renderErr error) error {
	for _, tool := range d.x11Tools {
		if !d.runner.LookPath(tool.Program) {
			continue
		}
		d.logger.Warn("Enhanced render failed, trying %s: %v", tool.Program, renderErr)
		if err := NewExternalCompositorTool(d.runner, tool).Apply(ctx, imagePath); err != nil {
			d.logger.Warn("X11 fallback: %v", err)
			continue
		}
		return nil
	}
	return renderErr
}

// synchronize runs the desktop sync and reports failure as a warning only
func (d *Dispatcher) synchronize(ctx context.Context) {
	if err := d.syncer.Sync(ctx); err != nil {
		d.logger.Warn("Desktop sync: %v", err)
	}
}
