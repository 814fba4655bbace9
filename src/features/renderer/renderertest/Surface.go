/**
 * renderertest - instrumented renderer.Surface and image fixtures for tests
 */

package renderertest

import (
	"fmt"
	"image"
	"sync"

	"github.com/ln64-git/setwallpaper/src/features/renderer"
)

// Surface records every call and tracks live pixmaps so tests can detect leaks
type Surface struct {
	Width, Height int

	// Fail* make the matching operation return an error
	FailCreate  error
	FailPaint   error
	FailPublish error

	// PendingEvents is what the next DrainEvents call reports
	PendingEvents int

	mu         sync.Mutex
	next       renderer.Pixmap
	live       map[renderer.Pixmap]bool
	ops        []string
	created    int
	closed     int
	background renderer.Pixmap
	published  renderer.Pixmap
	painted    []*image.RGBA
}

// New returns a Surface of the given size
func New(width, height int) *Surface {
	return &Surface{Width: width, Height: height, live: map[renderer.Pixmap]bool{}}
}

// Opener returns an Opener that always hands out s
func (s *Surface) Opener() renderer.Opener {
	return func() (renderer.Surface, error) { return s, nil }
}

func (s *Surface) record(op string) {
	s.ops = append(s.ops, op)
}

// Size implements renderer.Surface
func (s *Surface) Size() (int, int) {
	return s.Width, s.Height
}

// CreatePixmap implements renderer.Surface
func (s *Surface) CreatePixmap(width, height int) (renderer.Pixmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create")
	if s.FailCreate != nil {
		return 0, s.FailCreate
	}
	if width != s.Width || height != s.Height {
		return 0, fmt.Errorf("pixmap %dx%d does not match surface %dx%d", width, height, s.Width, s.Height)
	}
	s.next++
	s.live[s.next] = true
	s.created++
	return s.next, nil
}

// Paint implements renderer.Surface
func (s *Surface) Paint(p renderer.Pixmap, img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("paint")
	if s.FailPaint != nil {
		return s.FailPaint
	}
	if !s.live[p] {
		return fmt.Errorf("paint on dead pixmap %d", p)
	}
	s.painted = append(s.painted, img)
	return nil
}

// FreePixmap implements renderer.Surface
func (s *Surface) FreePixmap(p renderer.Pixmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("free")
	if !s.live[p] {
		return fmt.Errorf("double free of pixmap %d", p)
	}
	delete(s.live, p)
	return nil
}

// PublishRootPixmap implements renderer.Surface
func (s *Surface) PublishRootPixmap(p renderer.Pixmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("publish")
	if s.FailPublish != nil {
		return s.FailPublish
	}
	s.published = p
	return nil
}

// SetBackground implements renderer.Surface
func (s *Surface) SetBackground(p renderer.Pixmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("background")
	s.background = p
	return nil
}

// Flush implements renderer.Surface
func (s *Surface) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("flush")
	return nil
}

// Sync implements renderer.Surface
func (s *Surface) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("sync")
	return nil
}

// DrainEvents implements renderer.Surface
func (s *Surface) DrainEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("drain")
	n := s.PendingEvents
	s.PendingEvents = 0
	return n
}

// Close implements renderer.Surface
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("close")
	s.closed++
	return nil
}

// Live returns how many pixmaps are allocated and not yet freed
func (s *Surface) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Created returns how many pixmaps were ever allocated
func (s *Surface) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Closed returns how many times Close was called
func (s *Surface) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Ops returns the recorded operation names in call order
func (s *Surface) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

// Background returns the pixmap last installed as the background
func (s *Surface) Background() renderer.Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

// Published returns the pixmap last written to the root pixmap property
func (s *Surface) Published() renderer.Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Painted returns every image uploaded so far
func (s *Surface) Painted() []*image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*image.RGBA(nil), s.painted...)
}
