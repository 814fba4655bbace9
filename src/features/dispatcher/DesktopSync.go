package dispatcher

import (
	"context"
	"fmt"
	"time"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// Syncer waits until the desktop shell has caught up with a root window change
type Syncer interface {
	Sync(ctx context.Context) error
}

// DesktopSync makes sure the desktop shell process is up before the wallpaper
// is redrawn, and gives it time to repaint when it already is.
type DesktopSync struct {
	runner Runner
	logger *utility.Logger
	shell  string
	settle time.Duration
	delay  time.Duration
	sleep  func(time.Duration)
}

// NewDesktopSync creates a DesktopSync for the named shell process
func NewDesktopSync(runner Runner, logger *utility.Logger, shell string, settle, delay time.Duration, sleep func(time.Duration)) *DesktopSync {
	if sleep == nil {
		sleep = time.Sleep
	}
	if logger == nil {
		logger = utility.Discard()
	}
	return &DesktopSync{runner: runner, logger: logger, shell: shell, settle: settle, delay: delay, sleep: sleep}
}

// Sync implements Syncer. A shell that cannot be brought up yields a
// DesktopSyncTimeout error.
func (d *DesktopSync) Sync(ctx context.Context) error {
	if d.runner.IsRunning(ctx, d.shell) {
		d.sleep(d.delay)
		return nil
	}

	d.logger.Info("%s is not running, starting desktop", d.shell)
	if err := d.runner.Start(d.shell, "--desktop"); err != nil {
		return wperrors.New(wperrors.KindDesktopSyncTimeout, "start "+d.shell, err)
	}
	d.sleep(d.settle)

	if !d.runner.IsRunning(ctx, d.shell) {
		return wperrors.New(wperrors.KindDesktopSyncTimeout, "wait for "+d.shell,
			fmt.Errorf("not running after %s", d.settle))
	}
	return nil
}
