package renderer_test

import (
	"errors"
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ln64-git/setwallpaper/src/config"
	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/features/renderer"
	"github.com/ln64-git/setwallpaper/src/features/renderer/renderertest"
)

func newRenderer() *renderer.Renderer {
	return renderer.NewRenderer(nil, config.ScalerFast)
}

func TestRenderSequence(t *testing.T) {
	img := renderertest.WritePNG(t, t.TempDir(), "a.png", 8, 4, color.RGBA{R: 255, A: 255})
	s := renderertest.New(16, 9)

	if err := newRenderer().Render(s, img); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []string{"create", "paint", "publish", "background", "flush", "free"}
	if got := s.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	if s.Published() == 0 || s.Published() != s.Background() {
		t.Errorf("published %d, background %d", s.Published(), s.Background())
	}
	painted := s.Painted()
	if len(painted) != 1 || painted[0].Rect.Dx() != 16 || painted[0].Rect.Dy() != 9 {
		t.Errorf("painted image should fill the 16x9 surface: %v", painted)
	}
}

func TestRenderEnhancedDrainsBeforePublishing(t *testing.T) {
	img := renderertest.WritePNG(t, t.TempDir(), "a.png", 2, 2, color.White)
	s := renderertest.New(4, 4)
	s.PendingEvents = 3

	if err := newRenderer().RenderEnhanced(s, img); err != nil {
		t.Fatalf("RenderEnhanced() error = %v", err)
	}

	want := []string{"create", "paint", "sync", "drain", "publish", "background", "flush", "free"}
	if got := s.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestRenderImageLoadErrorLeavesDisplayUntouched(t *testing.T) {
	s := renderertest.New(4, 4)

	err := newRenderer().Render(s, filepath.Join(t.TempDir(), "missing.png"))
	if !wperrors.Is(err, wperrors.KindImageLoad) {
		t.Fatalf("Render() error = %v, want ImageLoadError", err)
	}
	if ops := s.Ops(); len(ops) != 0 {
		t.Errorf("display was touched: %v", ops)
	}
}

func TestRenderRepeatedDoesNotLeak(t *testing.T) {
	img := renderertest.WritePNG(t, t.TempDir(), "a.png", 3, 3, color.Black)
	s := renderertest.New(10, 10)
	r := newRenderer()

	if err := r.Render(s, img); err != nil {
		t.Fatal(err)
	}
	afterOne := s.Live()

	for i := 0; i < 25; i++ {
		if err := r.Render(s, img); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}

	if s.Live() != afterOne {
		t.Errorf("live pixmaps after 26 renders = %d, after 1 = %d", s.Live(), afterOne)
	}
	if afterOne != 0 {
		t.Errorf("pixmap handle kept after render: %d live", afterOne)
	}
	if s.Created() != 26 {
		t.Errorf("created = %d, want a fresh pixmap per render", s.Created())
	}
}

func TestRenderFreesPixmapOnFailure(t *testing.T) {
	img := renderertest.WritePNG(t, t.TempDir(), "a.png", 3, 3, color.Black)

	for _, tc := range []struct {
		name  string
		setup func(s *renderertest.Surface)
	}{
		{"paint fails", func(s *renderertest.Surface) { s.FailPaint = errors.New("bad drawable") }},
		{"publish fails", func(s *renderertest.Surface) { s.FailPublish = errors.New("bad atom") }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := renderertest.New(5, 5)
			tc.setup(s)

			if err := newRenderer().Render(s, img); err == nil {
				t.Fatal("Render() should fail")
			}
			if s.Live() != 0 {
				t.Errorf("pixmap leaked after failure: %d live", s.Live())
			}
		})
	}
}

func TestRenderCreateFailure(t *testing.T) {
	img := renderertest.WritePNG(t, t.TempDir(), "a.png", 3, 3, color.Black)
	s := renderertest.New(5, 5)
	s.FailCreate = errors.New("out of memory")

	if err := newRenderer().Render(s, img); err == nil {
		t.Fatal("Render() should fail")
	}
	for _, op := range s.Ops() {
		if op == "free" {
			t.Error("nothing was allocated, nothing should be freed")
		}
	}
}

func TestSetWallpaperUniversal(t *testing.T) {
	dir := t.TempDir()
	img := renderertest.WritePNG(t, dir, "a.png", 3, 3, color.White)

	s := renderertest.New(6, 6)
	if rc := renderer.SetWallpaperWith(s.Opener(), img); rc != 0 {
		t.Fatalf("rc = %d, want 0", rc)
	}
	if s.Closed() != 1 {
		t.Errorf("display closed %d times, want 1", s.Closed())
	}

	if rc := renderer.SetWallpaperWith(s.Opener(), filepath.Join(dir, "missing.png")); rc != 1 {
		t.Errorf("missing file rc = %d, want 1", rc)
	}

	failing := func() (renderer.Surface, error) {
		return nil, wperrors.New(wperrors.KindDisplayUnavailable, "open", errors.New("no display"))
	}
	if rc := renderer.SetWallpaperWith(failing, img); rc != 1 {
		t.Errorf("display failure rc = %d, want 1", rc)
	}

	bad := renderertest.WritePNG(t, dir, "b.png", 1, 1, color.White)
	broken := renderertest.New(6, 6)
	broken.FailPaint = errors.New("boom")
	if rc := renderer.SetWallpaperWith(broken.Opener(), bad); rc != 1 {
		t.Errorf("render failure rc = %d, want 1", rc)
	}
	if broken.Closed() != 1 {
		t.Errorf("display closed %d times after failure, want 1", broken.Closed())
	}
}
