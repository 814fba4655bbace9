package dispatcher

import (
	"context"

	"github.com/ln64-git/setwallpaper/src/features/renderer"
)

// NativeRender draws directly on the X11 root window. Each Apply opens and
// closes its own display connection.
type NativeRender struct {
	open     renderer.Opener
	renderer *renderer.Renderer
	enhanced bool
}

// NewNativeRender creates the plain native back end
func NewNativeRender(open renderer.Opener, r *renderer.Renderer) *NativeRender {
	return &NativeRender{open: open, renderer: r}
}

// NewEnhancedRender creates the native back end that syncs and drains
// events before publishing the root pixmap
func NewEnhancedRender(open renderer.Opener, r *renderer.Renderer) *NativeRender {
	return &NativeRender{open: open, renderer: r, enhanced: true}
}

// Name implements Backend
func (n *NativeRender) Name() string {
	if n.enhanced {
		return "x11-enhanced"
	}
	return "x11"
}

// Apply implements Backend
func (n *NativeRender) Apply(ctx context.Context, imagePath string) error {
	s, err := n.open()
	if err != nil {
		return err
	}
	defer s.Close()

	if n.enhanced {
		return n.renderer.RenderEnhanced(s, imagePath)
	}
	return n.renderer.Render(s, imagePath)
}
