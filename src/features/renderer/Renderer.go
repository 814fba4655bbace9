/**
 * Renderer - paints an image file onto the root window background
 */

package renderer

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ln64-git/setwallpaper/src/config"
	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// Renderer runs the load, scale, paint and install sequence against a Surface
type Renderer struct {
	logger *utility.Logger
	interp draw.Interpolator
}

// NewRenderer creates a Renderer using the given resampling quality
func NewRenderer(logger *utility.Logger, scaler config.Scaler) *Renderer {
	if logger == nil {
		logger = utility.Discard()
	}
	return &Renderer{logger: logger, interp: Interpolator(scaler)}
}

// Render sets imagePath as the background of the surface's root window
func (r *Renderer) Render(s Surface, imagePath string) error {
	return r.render(s, imagePath, false)
}

// RenderEnhanced is Render with a synchronous round trip and an event queue
// drain before the root pixmap property is published. Desktops whose shell
// repaints the root window asynchronously need this to avoid a blank background.
func (r *Renderer) RenderEnhanced(s Surface, imagePath string) error {
	return r.render(s, imagePath, true)
}

func (r *Renderer) render(s Surface, imagePath string, enhanced bool) (err error) {
	scaled, err := r.prepare(s, imagePath)
	if err != nil {
		return err
	}
	width, height := scaled.Rect.Dx(), scaled.Rect.Dy()

	pix, err := s.CreatePixmap(width, height)
	if err != nil {
		return fmt.Errorf("render %s: %w", imagePath, err)
	}
	// The server keeps its own reference once the pixmap is the background,
	// so the local handle is always released, including on failure.
	defer func() {
		if ferr := s.FreePixmap(pix); ferr != nil && err == nil {
			err = fmt.Errorf("free pixmap: %w", ferr)
		}
	}()

	if err := s.Paint(pix, scaled); err != nil {
		return fmt.Errorf("render %s: %w", imagePath, err)
	}
	// Drop the scaled buffer before the remaining round trips
	scaled = nil

	if enhanced {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("render %s: %w", imagePath, err)
		}
		if n := s.DrainEvents(); n > 0 {
			r.logger.Debug("Discarded %d pending X events", n)
		}
	}

	if err := s.PublishRootPixmap(pix); err != nil {
		return fmt.Errorf("render %s: %w", imagePath, err)
	}
	if err := s.SetBackground(pix); err != nil {
		return fmt.Errorf("render %s: %w", imagePath, err)
	}
	if err := s.Flush(); err != nil {
		return fmt.Errorf("render %s: %w", imagePath, err)
	}

	r.logger.Debug("Rendered %s at %dx%d (enhanced=%v)", imagePath, width, height, enhanced)
	return nil
}

// prepare loads the raw image and returns a copy scaled to the surface. The
// raw image is unreachable once prepare returns.
func (r *Renderer) prepare(s Surface, imagePath string) (*image.RGBA, error) {
	raw, err := LoadImage(imagePath)
	if err != nil {
		return nil, err
	}

	width, height := s.Size()
	if width <= 0 || height <= 0 {
		return nil, wperrors.New(wperrors.KindDisplayUnavailable, "read screen size",
			fmt.Errorf("invalid dimensions %dx%d", width, height))
	}

	return Scale(raw, width, height, r.interp), nil
}
