/**
 * Environment prober - classifies the graphical session from environment variables
 */

package environment

import (
	"os"
	"strings"
)

// Env is a read-only view of environment variables
type Env interface {
	Getenv(key string) string
}

// OSEnv reads the process environment
type OSEnv struct{}

// Getenv implements Env
func (OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

// MapEnv is a fixed environment, used by tests and embedders
type MapEnv map[string]string

// Getenv implements Env
func (m MapEnv) Getenv(key string) string {
	return m[key]
}

// desktopOrder is the match order for desktop session names. Earlier entries win.
var desktopOrder = []struct {
	desktop Desktop
	needles []string
}{
	{DesktopLXQt, []string{"lxqt"}},
	{DesktopLXDE, []string{"lxde"}},
	{DesktopGNOME, []string{"gnome"}},
	{DesktopKDE, []string{"kde", "plasma"}},
	{DesktopXFCE, []string{"xfce"}},
	{DesktopMATE, []string{"mate"}},
	{DesktopCinnamon, []string{"cinnamon"}},
	{DesktopUnity, []string{"unity"}},
}

// ClassifySession determines the windowing protocol. A non-empty
// WAYLAND_DISPLAY always means Wayland.
func ClassifySession(env Env) Session {
	if env.Getenv(VarWaylandDisplay) != "" {
		return SessionWayland
	}

	switch strings.ToLower(strings.TrimSpace(env.Getenv(VarSessionType))) {
	case "wayland":
		return SessionWayland
	case "x11":
		return SessionX11
	}

	if env.Getenv(VarDisplay) != "" {
		return SessionX11
	}

	return SessionUnknown
}

// ClassifyDesktop determines the desktop environment family
func ClassifyDesktop(env Env) Desktop {
	return classifyDesktop(env, ClassifySession(env))
}

func classifyDesktop(env Env, session Session) Desktop {
	current := strings.ToLower(env.Getenv(VarCurrentDesktop))

	if session == SessionWayland {
		switch {
		case strings.Contains(current, "gnome"):
			return DesktopGNOME
		case strings.Contains(current, "kde"), strings.Contains(current, "plasma"):
			return DesktopKDE
		default:
			return DesktopWayland
		}
	}

	if d := matchDesktop(strings.ToLower(env.Getenv(VarDesktopSession))); d != DesktopUnknown {
		return d
	}
	return matchDesktop(current)
}

func matchDesktop(name string) Desktop {
	if name == "" {
		return DesktopUnknown
	}
	for _, entry := range desktopOrder {
		for _, needle := range entry.needles {
			if strings.Contains(name, needle) {
				return entry.desktop
			}
		}
	}
	return DesktopUnknown
}

// Probe classifies both the session and the desktop in one pass
func Probe(env Env) Classification {
	session := ClassifySession(env)
	return Classification{
		Session: session,
		Desktop: classifyDesktop(env, session),
	}
}

// HomeDir returns the user's home directory, or "" when HOME is unset
func HomeDir(env Env) string {
	return env.Getenv(VarHome)
}
