package environment

import (
	"strings"
	"testing"
)

func TestClassifySession(t *testing.T) {
	tests := []struct {
		name string
		env  MapEnv
		want Session
	}{
		{"nothing set", MapEnv{}, SessionUnknown},
		{"display only", MapEnv{VarDisplay: ":0"}, SessionX11},
		{"wayland display wins over x11 hint", MapEnv{VarWaylandDisplay: "wayland-0", VarSessionType: "x11", VarDisplay: ":0"}, SessionWayland},
		{"session type wayland", MapEnv{VarSessionType: "Wayland"}, SessionWayland},
		{"session type x11 without display", MapEnv{VarSessionType: "x11"}, SessionX11},
		{"tty session with display", MapEnv{VarSessionType: "tty", VarDisplay: ":1"}, SessionX11},
		{"tty session alone", MapEnv{VarSessionType: "tty"}, SessionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySession(tt.env); got != tt.want {
				t.Errorf("ClassifySession() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyDesktop(t *testing.T) {
	tests := []struct {
		name string
		env  MapEnv
		want Desktop
	}{
		{"nothing set", MapEnv{}, DesktopUnknown},
		{"lxqt session", MapEnv{VarDisplay: ":0", VarDesktopSession: "LXQt"}, DesktopLXQt},
		{"lubuntu falls back to current desktop", MapEnv{VarDisplay: ":0", VarDesktopSession: "Lubuntu", VarCurrentDesktop: "LXQt"}, DesktopLXQt},
		{"plasma session", MapEnv{VarDisplay: ":0", VarDesktopSession: "plasma"}, DesktopKDE},
		{"session beats current desktop", MapEnv{VarDisplay: ":0", VarDesktopSession: "xfce", VarCurrentDesktop: "GNOME"}, DesktopXFCE},
		{"cinnamon current desktop", MapEnv{VarDisplay: ":0", VarCurrentDesktop: "X-Cinnamon"}, DesktopCinnamon},
		{"unity", MapEnv{VarDesktopSession: "unity"}, DesktopUnity},
		{"mate", MapEnv{VarCurrentDesktop: "MATE"}, DesktopMATE},
		{"lxde", MapEnv{VarDesktopSession: "LXDE-pi"}, DesktopLXDE},
		{"wayland gnome", MapEnv{VarWaylandDisplay: "wayland-0", VarCurrentDesktop: "ubuntu:GNOME"}, DesktopGNOME},
		{"wayland kde", MapEnv{VarWaylandDisplay: "wayland-0", VarCurrentDesktop: "KDE"}, DesktopKDE},
		{"wayland plasma", MapEnv{VarWaylandDisplay: "wayland-0", VarCurrentDesktop: "plasma"}, DesktopKDE},
		{"wayland ignores desktop session", MapEnv{VarWaylandDisplay: "wayland-0", VarDesktopSession: "lxqt", VarCurrentDesktop: "sway"}, DesktopWayland},
		{"wayland with nothing else", MapEnv{VarWaylandDisplay: "wayland-1"}, DesktopWayland},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDesktop(tt.env); got != tt.want {
				t.Errorf("ClassifyDesktop() = %q, want %q", got, tt.want)
			}
		})
	}
}

// expectedDesktop restates the precedence rules independently of the implementation.
func expectedDesktop(env MapEnv) Desktop {
	current := strings.ToLower(env[VarCurrentDesktop])
	if ClassifySession(env) == SessionWayland {
		if strings.Contains(current, "gnome") {
			return DesktopGNOME
		}
		if strings.Contains(current, "kde") || strings.Contains(current, "plasma") {
			return DesktopKDE
		}
		return DesktopWayland
	}
	lookup := func(s string) Desktop {
		s = strings.ToLower(s)
		checks := []struct {
			sub string
			d   Desktop
		}{
			{"lxqt", DesktopLXQt}, {"lxde", DesktopLXDE}, {"gnome", DesktopGNOME},
			{"kde", DesktopKDE}, {"plasma", DesktopKDE}, {"xfce", DesktopXFCE},
			{"mate", DesktopMATE}, {"cinnamon", DesktopCinnamon}, {"unity", DesktopUnity},
		}
		for _, c := range checks {
			if s != "" && strings.Contains(s, c.sub) {
				return c.d
			}
		}
		return DesktopUnknown
	}
	if d := lookup(env[VarDesktopSession]); d != DesktopUnknown {
		return d
	}
	return lookup(current)
}

func TestProbeCrossProduct(t *testing.T) {
	waylandDisplays := []string{"", "wayland-0"}
	sessionTypes := []string{"", "x11", "wayland", "tty"}
	displays := []string{"", ":0"}
	desktopSessions := []string{"", "lxqt", "LXDE", "gnome", "plasma", "xfce", "mate", "cinnamon", "unity", "i3"}
	currentDesktops := []string{"", "LXQt", "GNOME", "KDE", "plasma", "XFCE", "X-Cinnamon", "sway"}

	count := 0
	for _, wd := range waylandDisplays {
		for _, st := range sessionTypes {
			for _, d := range displays {
				for _, ds := range desktopSessions {
					for _, cd := range currentDesktops {
						env := MapEnv{
							VarWaylandDisplay: wd,
							VarSessionType:    st,
							VarDisplay:        d,
							VarDesktopSession: ds,
							VarCurrentDesktop: cd,
						}
						first := Probe(env)
						second := Probe(env)
						if first != second {
							t.Fatalf("Probe not deterministic for %v: %v vs %v", env, first, second)
						}
						if wd != "" && first.Session != SessionWayland {
							t.Errorf("WAYLAND_DISPLAY set but session = %q (%v)", first.Session, env)
						}
						if want := expectedDesktop(env); first.Desktop != want {
							t.Errorf("Probe(%v).Desktop = %q, want %q", env, first.Desktop, want)
						}
						count++
					}
				}
			}
		}
	}
	if count != 2*4*2*10*8 {
		t.Errorf("covered %d combinations", count)
	}
}

func TestDesktopTraits(t *testing.T) {
	if !DesktopLXQt.RacesWithRenderer() || !DesktopLXDE.RacesWithRenderer() {
		t.Error("LXQt and LXDE race with the renderer")
	}
	if DesktopGNOME.RacesWithRenderer() {
		t.Error("GNOME does not race with the renderer")
	}
	if !DesktopGNOME.HasNativeSetter() || !DesktopKDE.HasNativeSetter() || DesktopXFCE.HasNativeSetter() {
		t.Error("only GNOME and KDE have native setters")
	}
}

func TestHomeDir(t *testing.T) {
	if got := HomeDir(MapEnv{VarHome: "/home/alice"}); got != "/home/alice" {
		t.Errorf("HomeDir() = %q", got)
	}
	t.Setenv(VarHome, "/tmp/h")
	if got := HomeDir(OSEnv{}); got != "/tmp/h" {
		t.Errorf("HomeDir(OSEnv) = %q", got)
	}
}
