/**
 * X11 surface - draws on the root window through the X protocol
 */

package renderer

import (
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
)

// putImageHeader is the fixed size of a PutImage request before its pixel data
const putImageHeader = 24

// X11Surface is a Surface backed by an X server connection
type X11Surface struct {
	conn      *xgb.Conn
	root      xproto.Window
	width     int
	height    int
	depth     byte
	msbFirst  bool
	maxReq    int
	closeOnce sync.Once
}

// OpenDisplay connects to the X server named by $DISPLAY and borrows the
// default screen's root window.
func OpenDisplay() (Surface, error) {
	return OpenDisplayNamed("")
}

// OpenDisplayNamed connects to a specific display such as ":1"
func OpenDisplayNamed(display string) (Surface, error) {
	var (
		conn *xgb.Conn
		err  error
	)
	if display == "" {
		conn, err = xgb.NewConn()
	} else {
		conn, err = xgb.NewConnDisplay(display)
	}
	if err != nil {
		return nil, wperrors.New(wperrors.KindDisplayUnavailable, "open X display", err)
	}

	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, wperrors.New(wperrors.KindDisplayUnavailable, "open X display", fmt.Errorf("no screens found"))
	}
	screen := setup.DefaultScreen(conn)

	if bpp := bitsPerPixel(setup, screen.RootDepth); bpp != 32 {
		conn.Close()
		return nil, wperrors.New(wperrors.KindDisplayUnavailable, "open X display",
			fmt.Errorf("unsupported pixmap format: depth %d uses %d bits per pixel", screen.RootDepth, bpp))
	}

	return &X11Surface{
		conn:     conn,
		root:     screen.Root,
		width:    int(screen.WidthInPixels),
		height:   int(screen.HeightInPixels),
		depth:    screen.RootDepth,
		msbFirst: setup.ImageByteOrder == xproto.ImageOrderMSBFirst,
		maxReq:   int(setup.MaximumRequestLength) * 4,
	}, nil
}

func bitsPerPixel(setup *xproto.SetupInfo, depth byte) byte {
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			return f.BitsPerPixel
		}
	}
	return 0
}

// Size implements Surface
func (x *X11Surface) Size() (int, int) {
	return x.width, x.height
}

// CreatePixmap implements Surface
func (x *X11Surface) CreatePixmap(width, height int) (Pixmap, error) {
	pid, err := xproto.NewPixmapId(x.conn)
	if err != nil {
		return 0, fmt.Errorf("allocate pixmap id: %w", err)
	}
	err = xproto.CreatePixmapChecked(x.conn, x.depth, pid, xproto.Drawable(x.root),
		uint16(width), uint16(height)).Check()
	if err != nil {
		return 0, fmt.Errorf("create pixmap: %w", err)
	}
	return Pixmap(pid), nil
}

// Paint implements Surface. The image is sent in row bands small enough for
// the server's maximum request length, with a graphics context that lives
// only for the duration of the upload.
func (x *X11Surface) Paint(p Pixmap, img *image.RGBA) error {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	stride := width * 4
	if stride <= 0 || height <= 0 {
		return fmt.Errorf("empty image")
	}

	rowsPer := (x.maxReq - putImageHeader) / stride
	if rowsPer < 1 {
		return fmt.Errorf("image row of %d bytes exceeds the X request limit", stride)
	}

	gc, err := xproto.NewGcontextId(x.conn)
	if err != nil {
		return fmt.Errorf("allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(x.conn, gc, xproto.Drawable(p), 0, nil).Check(); err != nil {
		return fmt.Errorf("create gc: %w", err)
	}
	defer xproto.FreeGC(x.conn, gc)

	for y := 0; y < height; y += rowsPer {
		rows := rowsPer
		if y+rows > height {
			rows = height - y
		}
		data := encodeRows(img, y, rows, x.msbFirst)
		err := xproto.PutImageChecked(x.conn, xproto.ImageFormatZPixmap, xproto.Drawable(p), gc,
			uint16(width), uint16(rows), 0, int16(y), 0, x.depth, data).Check()
		if err != nil {
			return fmt.Errorf("put image rows %d-%d: %w", y, y+rows, err)
		}
	}
	return nil
}

// FreePixmap implements Surface
func (x *X11Surface) FreePixmap(p Pixmap) error {
	return xproto.FreePixmapChecked(x.conn, xproto.Pixmap(p)).Check()
}

// PublishRootPixmap implements Surface
func (x *X11Surface) PublishRootPixmap(p Pixmap) error {
	reply, err := xproto.InternAtom(x.conn, false, uint16(len(RootPixmapAtom)), RootPixmapAtom).Reply()
	if err != nil {
		return fmt.Errorf("intern %s: %w", RootPixmapAtom, err)
	}

	// xgb always talks to the server in little-endian order
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(p))

	err = xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, x.root, reply.Atom,
		xproto.AtomPixmap, 32, 1, data).Check()
	if err != nil {
		return fmt.Errorf("set %s: %w", RootPixmapAtom, err)
	}
	return nil
}

// SetBackground implements Surface
func (x *X11Surface) SetBackground(p Pixmap) error {
	err := xproto.ChangeWindowAttributesChecked(x.conn, x.root, xproto.CwBackPixmap,
		[]uint32{uint32(p)}).Check()
	if err != nil {
		return fmt.Errorf("set root background: %w", err)
	}
	// A zero width and height clears the whole window
	if err := xproto.ClearAreaChecked(x.conn, false, x.root, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("clear root window: %w", err)
	}
	return nil
}

// Flush implements Surface. xgb writes requests as they are issued, so the
// only way to know they were processed is a round trip.
func (x *X11Surface) Flush() error {
	return x.Sync()
}

// Sync implements Surface
func (x *X11Surface) Sync() error {
	if _, err := xproto.GetInputFocus(x.conn).Reply(); err != nil {
		return fmt.Errorf("sync with X server: %w", err)
	}
	return nil
}

// DrainEvents implements Surface
func (x *X11Surface) DrainEvents() int {
	n := 0
	for {
		ev, xerr := x.conn.PollForEvent()
		if ev == nil && xerr == nil {
			return n
		}
		n++
	}
}

// Close implements Surface
func (x *X11Surface) Close() error {
	x.closeOnce.Do(func() {
		x.conn.Close()
	})
	return nil
}
