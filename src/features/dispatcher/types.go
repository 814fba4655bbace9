/**
 * Dispatcher type definitions
 */

package dispatcher

import (
	"context"

	"github.com/ln64-git/setwallpaper/src/utility"
)

// Backend is one way of applying a wallpaper
type Backend interface {
	Name() string
	Apply(ctx context.Context, imagePath string) error
}

// Runner executes external programs. *utility.Shell satisfies it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*utility.Result, error)
	Start(name string, args ...string) error
	LookPath(name string) bool
	IsRunning(ctx context.Context, name string) bool
}

// BackendKind names the three families of back end
type BackendKind string

const (
	KindNativeRender         BackendKind = "native-render"
	KindDesktopNativeCommand BackendKind = "desktop-native-command"
	KindExternalTool         BackendKind = "external-compositor-tool"
)
