package dispatcher

import (
	"context"
	"fmt"
	"strings"
)

// CompositorTool describes one external Wayland wallpaper program
type CompositorTool struct {
	Program string
	Args    func(imagePath string) []string

	// Detached tools keep running to hold the surface and are spawned, not waited on
	Detached bool
}

// DefaultCompositorTools is the candidate list in priority order
var DefaultCompositorTools = []CompositorTool{
	{Program: "swww", Args: func(p string) []string { return []string{"img", p} }},
	{Program: "swaybg", Args: func(p string) []string { return []string{"-i", p, "-m", "fill"} }, Detached: true},
	{Program: "wbg", Args: func(p string) []string { return []string{p} }, Detached: true},
	{Program: "feh", Args: func(p string) []string { return []string{"--bg-fill", p} }},
}

// DefaultX11Tools are the external setters tried in order when both native
// renders fail on an X11 session
var DefaultX11Tools = []CompositorTool{
	{Program: "feh", Args: func(p string) []string { return []string{"--bg-fill", p} }},
	{Program: "nitrogen", Args: func(p string) []string { return []string{"--set-zoom-fill", p} }},
	{Program: "pcmanfm-qt", Args: func(p string) []string {
		return []string{"--set-wallpaper", p, "--wallpaper-mode=stretch", "--desktop"}
	}, Detached: true},
	{Program: "xwallpaper", Args: func(p string) []string { return []string{"--zoom", p} }},
	{Program: "hsetroot", Args: func(p string) []string { return []string{"-fill", p} }},
	{Program: "xloadimage", Args: func(p string) []string { return []string{"-onroot", "-fullscreen", p} }},
}

// OrderTools returns the candidates restricted to and ordered by names. Unknown
// names are ignored. An empty names list keeps the default order.
func OrderTools(candidates []CompositorTool, names []string) []CompositorTool {
	if len(names) == 0 {
		return candidates
	}
	byName := make(map[string]CompositorTool, len(candidates))
	for _, tool := range candidates {
		byName[tool.Program] = tool
	}
	ordered := make([]CompositorTool, 0, len(names))
	for _, name := range names {
		if tool, ok := byName[strings.TrimSpace(name)]; ok {
			ordered = append(ordered, tool)
		}
	}
	return ordered
}

// DetectCompositorTool returns the first candidate found on PATH
func DetectCompositorTool(runner Runner, candidates []CompositorTool) (CompositorTool, bool) {
	for _, tool := range candidates {
		if runner.LookPath(tool.Program) {
			return tool, true
		}
	}
	return CompositorTool{}, false
}

// ExternalCompositorTool applies the wallpaper through one detected tool
type ExternalCompositorTool struct {
	runner Runner
	tool   CompositorTool
}

// NewExternalCompositorTool wraps tool as a Backend
func NewExternalCompositorTool(runner Runner, tool CompositorTool) *ExternalCompositorTool {
	return &ExternalCompositorTool{runner: runner, tool: tool}
}

// Name implements Backend
func (e *ExternalCompositorTool) Name() string {
	return e.tool.Program
}

// Apply implements Backend
func (e *ExternalCompositorTool) Apply(ctx context.Context, imagePath string) error {
	args := e.tool.Args(imagePath)
	if e.tool.Detached {
		if err := e.runner.Start(e.tool.Program, args...); err != nil {
			return fmt.Errorf("%s: %w", e.tool.Program, err)
		}
		return nil
	}
	if _, err := e.runner.Run(ctx, e.tool.Program, args...); err != nil {
		return fmt.Errorf("%s: %w", e.tool.Program, err)
	}
	return nil
}
