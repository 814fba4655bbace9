/**
 * Environment prober type definitions
 */

package environment

// Session is the windowing protocol of the running graphical session
type Session string

const (
	SessionX11     Session = "x11"
	SessionWayland Session = "wayland"
	SessionUnknown Session = "unknown"
)

// Desktop is the desktop environment family
type Desktop string

const (
	DesktopLXQt     Desktop = "lxqt"
	DesktopLXDE     Desktop = "lxde"
	DesktopGNOME    Desktop = "gnome"
	DesktopKDE      Desktop = "kde"
	DesktopXFCE     Desktop = "xfce"
	DesktopMATE     Desktop = "mate"
	DesktopCinnamon Desktop = "cinnamon"
	DesktopUnity    Desktop = "unity"
	DesktopWayland  Desktop = "wayland"
	DesktopUnknown  Desktop = "unknown"
)

// Environment variables consulted by the prober
const (
	VarSessionType    = "XDG_SESSION_TYPE"
	VarWaylandDisplay = "WAYLAND_DISPLAY"
	VarDisplay        = "DISPLAY"
	VarDesktopSession = "DESKTOP_SESSION"
	VarCurrentDesktop = "XDG_CURRENT_DESKTOP"
	VarHome           = "HOME"
)

// Classification is computed once per invocation and never changed afterwards
type Classification struct {
	Session Session
	Desktop Desktop
}

// RacesWithRenderer reports whether the desktop's file-manager shell repaints
// the root window on its own and can blank a freshly drawn background.
func (d Desktop) RacesWithRenderer() bool {
	return d == DesktopLXQt || d == DesktopLXDE
}

// HasNativeSetter reports whether the desktop exposes its own wallpaper setting
func (d Desktop) HasNativeSetter() bool {
	return d == DesktopGNOME || d == DesktopKDE
}
