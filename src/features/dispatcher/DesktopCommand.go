package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/ln64-git/setwallpaper/src/features/environment"
	"github.com/ln64-git/setwallpaper/src/utility"
)

const (
	plasmaService = "org.kde.plasmashell"
	plasmaPath    = "/PlasmaShell"
	plasmaMethod  = "org.kde.PlasmaShell.evaluateScript"

	gnomeSchema = "org.gnome.desktop.background"
)

// PlasmaScripter evaluates a Plasma desktop script
type PlasmaScripter interface {
	EvaluateScript(ctx context.Context, script string) error
}

// SessionBusPlasma talks to plasmashell over the D-Bus session bus
type SessionBusPlasma struct{}

// EvaluateScript implements PlasmaScripter
func (SessionBusPlasma) EvaluateScript(ctx context.Context, script string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(plasmaService, dbus.ObjectPath(plasmaPath))
	if call := obj.CallWithContext(ctx, plasmaMethod, 0, script); call.Err != nil {
		return fmt.Errorf("%s: %w", plasmaMethod, call.Err)
	}
	return nil
}

// DesktopNativeCommand uses the desktop environment's own wallpaper setting
type DesktopNativeCommand struct {
	desktop environment.Desktop
	runner  Runner
	plasma  PlasmaScripter
	logger  *utility.Logger
}

// NewDesktopNativeCommand creates the back end for a GNOME or KDE session
func NewDesktopNativeCommand(desktop environment.Desktop, runner Runner, plasma PlasmaScripter, logger *utility.Logger) *DesktopNativeCommand {
	if plasma == nil {
		plasma = SessionBusPlasma{}
	}
	if logger == nil {
		logger = utility.Discard()
	}
	return &DesktopNativeCommand{desktop: desktop, runner: runner, plasma: plasma, logger: logger}
}

// Name implements Backend
func (d *DesktopNativeCommand) Name() string {
	return string(d.desktop) + "-native"
}

// Apply implements Backend
func (d *DesktopNativeCommand) Apply(ctx context.Context, imagePath string) error {
	switch d.desktop {
	case environment.DesktopGNOME:
		return d.applyGNOME(ctx, imagePath)
	case environment.DesktopKDE:
		return d.applyKDE(ctx, imagePath)
	default:
		return fmt.Errorf("%s has no native wallpaper command", d.desktop)
	}
}

func (d *DesktopNativeCommand) applyGNOME(ctx context.Context, imagePath string) error {
	uri := "file://" + imagePath
	if _, err := d.runner.Run(ctx, "gsettings", "set", gnomeSchema, "picture-uri", uri); err != nil {
		return fmt.Errorf("gsettings picture-uri: %w", err)
	}
	// Releases before GNOME 42 have no dark variant key
	if _, err := d.runner.Run(ctx, "gsettings", "set", gnomeSchema, "picture-uri-dark", uri); err != nil {
		d.logger.Debug("gsettings picture-uri-dark: %v", err)
	}
	return nil
}

func (d *DesktopNativeCommand) applyKDE(ctx context.Context, imagePath string) error {
	script := plasmaScript(imagePath)

	err := d.plasma.EvaluateScript(ctx, script)
	if err == nil {
		return nil
	}
	d.logger.Debug("Plasma D-Bus call failed, trying qdbus: %v", err)

	for _, qdbus := range []string{"qdbus", "qdbus6"} {
		if !d.runner.LookPath(qdbus) {
			continue
		}
		if _, qerr := d.runner.Run(ctx, qdbus, plasmaService, plasmaPath, plasmaMethod, script); qerr != nil {
			return fmt.Errorf("%s: %w", qdbus, qerr)
		}
		return nil
	}
	return fmt.Errorf("plasma script: %w", err)
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// plasmaScript sets the image plugin wallpaper on every desktop
func plasmaScript(imagePath string) string {
	uri := jsEscaper.Replace("file://" + imagePath)
	return `var allDesktops = desktops();
for (var i = 0; i < allDesktops.length; i++) {
    var d = allDesktops[i];
    d.wallpaperPlugin = "org.kde.image";
    d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
    d.writeConfig("Image", "` + uri + `");
}`
}
