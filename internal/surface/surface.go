package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrResourceUnavailable marks failures to acquire a display, listener or
// font. Callers treat it as fatal.
var ErrResourceUnavailable = errors.New("resource unavailable")

// Presenter receives a finished or partial frame. The frame is a private
// copy; implementations may keep it.
type Presenter interface {
	Show(frame *image.RGBA) error
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Surface owns the pixel buffer the renderer writes into and pushes it to
// its presenters.
type Surface struct {
	canvas     *image.RGBA
	presenters []Presenter
	Logger     logger
}

// New allocates a width x height surface presenting to the given targets.
func New(width, height int, presenters ...Presenter) (*Surface, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("surface %dx%d too small", width, height)
	}
	return &Surface{
		canvas:     image.NewRGBA(image.Rect(0, 0, width, height)),
		presenters: presenters,
	}, nil
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width int, height int) {
	b := s.canvas.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the full pixel rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.canvas.Bounds() }

// SetPixel writes one pixel. Column 0, row 0 and the last column and row
// are never written; writes there, or anywhere off the surface, are dropped.
func (s *Surface) SetPixel(x, y int, c color.RGBA) {
	w, h := s.Size()
	if x <= 0 || y <= 0 || x >= w-1 || y >= h-1 {
		return
	}
	s.canvas.SetRGBA(x, y, c)
}

// At reads back a pixel; used by tests and the splash.
func (s *Surface) At(x, y int) color.RGBA { return s.canvas.RGBAAt(x, y) }

// Fill paints the whole surface, border included.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.canvas, s.canvas.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// DrawRect outlines a base x height rectangle centred on (cx, cy).
func (s *Surface) DrawRect(cx, cy, base, height int, c color.RGBA) {
	if base <= 0 || height <= 0 {
		return
	}
	x0 := cx - base/2
	y0 := cy - height/2
	for i := 0; i < base; i++ {
		s.SetPixel(x0+i, y0, c)
		s.SetPixel(x0+i, y0+height-1, c)
	}
	for i := 0; i < height; i++ {
		s.SetPixel(x0, y0+i, c)
		s.SetPixel(x0+base-1, y0+i, c)
	}
}

// DrawLabel draws text centred on (x, y).
func (s *Surface) DrawLabel(x, y int, text string, c color.Color, face font.Face) {
	if face == nil || text == "" {
		return
	}
	drawer := &font.Drawer{Dst: s.canvas, Src: image.NewUniform(c), Face: face}
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textHeight := ascent + metrics.Descent.Ceil()
	textWidth := drawer.MeasureString(text).Ceil()
	drawer.Dot = fixed.P(x-textWidth/2, y-textHeight/2+ascent)
	drawer.DrawString(text)
}

// DrawImage scales img into rect with nearest-neighbour sampling.
func (s *Surface) DrawImage(img image.Image, rect image.Rectangle) {
	if img == nil || rect.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(s.canvas, rect, img, img.Bounds(), xdraw.Over, nil)
}

// Snapshot returns a copy of the current buffer.
func (s *Surface) Snapshot() *image.RGBA {
	frame := image.NewRGBA(s.canvas.Bounds())
	copy(frame.Pix, s.canvas.Pix)
	return frame
}

// Present pushes a copy of the buffer to every presenter. Presenter errors
// are logged and the first one is returned; the remaining presenters still
// receive the frame.
func (s *Surface) Present() error {
	if len(s.presenters) == 0 {
		return nil
	}
	frame := s.Snapshot()
	var first error
	for _, p := range s.presenters {
		if err := p.Show(frame); err != nil {
			if s.Logger != nil {
				s.Logger.Errorf("surface", "present failed: %v", err)
			}
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// SavePNG writes the current buffer to path, creating parent directories.
func (s *Surface) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, s.canvas); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
