/**
 * Slideshow Driver - cycles images on one display connection
 */

package slideshow

import (
	"context"
	"fmt"
	"time"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/features/renderer"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// Painter renders one image onto an open surface
type Painter interface {
	Render(s renderer.Surface, imagePath string) error
}

// Persister records the final wallpaper
type Persister interface {
	Persist(absPath string) error
}

// Driver runs a slideshow. Open and Renderer are required. A nil Sleep waits
// on a timer and returns early when the context is cancelled.
type Driver struct {
	Renderer  Painter
	Open      renderer.Opener
	Persister Persister
	Sleep     func(time.Duration)
	Logger    *utility.Logger
}

// Run shows each image for delay. Missing files and undecodable images are
// skipped without waiting. Only a display failure is returned as an error.
func (d *Driver) Run(ctx context.Context, images []string, delay time.Duration, syncAtEnd bool) error {
	if delay <= 0 {
		return fmt.Errorf("slideshow delay must be positive, got %s", delay)
	}
	logger := d.Logger
	if logger == nil {
		logger = utility.Discard()
	}

	s, err := d.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	last := ""
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			logger.Info("Slideshow stopped after %d of %d images", i, len(images))
			break
		}

		if !utility.IsRegularFile(img) {
			logger.Warn("Skipping %s: not a regular file", img)
			continue
		}

		if err := d.Renderer.Render(s, img); err != nil {
			if wperrors.Is(err, wperrors.KindDisplayUnavailable) {
				return err
			}
			logger.Warn("Skipping %s: %v", img, err)
			continue
		}

		logger.Info("[%d/%d] %s", i+1, len(images), img)
		last = img
		d.wait(ctx, delay)
	}

	if syncAtEnd && last != "" && d.Persister != nil {
		abs, err := utility.AbsolutePath(last)
		if err != nil {
			logger.Warn("Cannot resolve %s: %v", last, err)
			return nil
		}
		if err := d.Persister.Persist(abs); err != nil {
			logger.Warn("Config sync failed: %v", err)
		}
	}
	return nil
}

func (d *Driver) wait(ctx context.Context, delay time.Duration) {
	if d.Sleep != nil {
		d.Sleep(delay)
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
