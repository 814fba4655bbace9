/**
 * Surface - the drawing operations the render sequence needs from a display
 */

package renderer

import "image"

// RootPixmapAtom is the root window property cooperating tools read to find the wallpaper
const RootPixmapAtom = "_XROOTPMAP_ID"

// Pixmap identifies a server-side drawable created for one render
type Pixmap uint32

// Surface is an open display connection plus the borrowed root window it draws on.
// It is owned by whoever opened it and must be closed exactly once.
type Surface interface {
	// Size returns the root window's pixel dimensions
	Size() (width, height int)
	// CreatePixmap allocates a pixmap of the root window's depth
	CreatePixmap(width, height int) (Pixmap, error)
	// Paint uploads img onto the pixmap at the origin
	Paint(p Pixmap, img *image.RGBA) error
	// FreePixmap releases the local pixmap handle
	FreePixmap(p Pixmap) error
	// PublishRootPixmap writes the pixmap id to the _XROOTPMAP_ID property
	PublishRootPixmap(p Pixmap) error
	// SetBackground installs the pixmap as the root background and redraws it
	SetBackground(p Pixmap) error
	// Flush guarantees every earlier request has reached the server
	Flush() error
	// Sync performs a full round trip with the server
	Sync() error
	// DrainEvents discards queued input events and errors, returning how many
	DrainEvents() int
	// Close releases the connection; later calls are no-ops
	Close() error
}

// Opener opens a new Surface
type Opener func() (Surface, error)
