package render

import (
	"image"
	"image/color"
	"time"

	"github.com/rook-computer/fractview/internal/fractal"
	"github.com/rook-computer/fractview/internal/render/layout"
	"github.com/rook-computer/fractview/internal/surface"
	"github.com/rook-computer/fractview/internal/viewport"
	"golang.org/x/image/font"
)

var (
	Background = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Ink        = color.RGBA{A: 0xFF}
)

// Params are the per-pass render parameters. A pass gets its own copy.
type Params struct {
	Limit   int
	Kind    fractal.Kind
	Overlay bool
}

// Pass bundles everything one render pass reads.
type Pass struct {
	Surface  *surface.Surface
	Viewport viewport.Viewport
	Params   Params
	Token    *Token
	// Status, when set, is finished exactly once when the pass returns.
	Status *StatusHandle
}

// Result describes a finished pass.
type Result struct {
	Outcome Status
	Pixels  int
	Columns int
	Elapsed time.Duration
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Renderer fills a surface with one escape-time frame.
type Renderer struct {
	Logger logger
	// OnColumn is called after each finished column with the number of
	// columns done and the total.
	OnColumn func(done, total int)
	// LoadFace loads the axis label face; defaults to surface.LoadFace.
	LoadFace func(points float64) (font.Face, error)
}

// DrawableRegion returns the part of a width x height surface that receives
// fractal pixels: all of it, or an inset leaving a w/30 by h/30 margin for
// the axis labels.
func DrawableRegion(width, height int, overlay bool) image.Rectangle {
	full := image.Rect(0, 0, width, height)
	if !overlay {
		return full
	}
	return layout.InsetXY(full, width/30, height/30)
}

// Render runs one pass. Pixels are computed column by column, left to right,
// and the surface is presented every width/80 columns. The token is polled
// before every pixel; a cancelled pass stops writing at once and neither
// draws the overlay nor presents again.
func (r *Renderer) Render(pass Pass) (result Result) {
	start := time.Now()
	var face font.Face
	defer func() {
		if face != nil {
			_ = face.Close()
		}
		result.Elapsed = time.Since(start)
		if pass.Status != nil {
			pass.Status.Finish(result.Outcome)
		}
	}()

	s := pass.Surface
	w, h := s.Size()
	mapper := viewport.Mapper{Width: w, Height: h}
	region := DrawableRegion(w, h, pass.Params.Overlay)
	limit := max(1, pass.Params.Limit)
	kind := pass.Params.Kind
	if kind == nil {
		kind = fractal.Mandelbrot{}
	}

	s.Fill(Background)
	r.present(s)

	step := max(1, w/80)
	total := region.Dx()
	for x := region.Min.X; x < region.Max.X; x++ {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			if !pass.Token.Alive() {
				result.Outcome = Cancelled
				return result
			}
			point := mapper.ToComplex(pass.Viewport, x, y)
			s.SetPixel(x, y, fractal.Color(kind, point, limit))
			result.Pixels++
		}
		result.Columns++
		if x%step == 0 {
			r.present(s)
		}
		if r.OnColumn != nil {
			r.OnColumn(result.Columns, total)
		}
	}

	if pass.Params.Overlay {
		face = r.labelFace()
		drawOverlay(s, mapper, pass.Viewport, region, face)
	}
	r.present(s)
	result.Outcome = Completed
	return result
}

func (r *Renderer) present(s *surface.Surface) {
	if err := s.Present(); err != nil && r.Logger != nil {
		r.Logger.Errorf("render", "present: %v", err)
	}
}

func (r *Renderer) labelFace() font.Face {
	load := r.LoadFace
	if load == nil {
		load = surface.LoadFace
	}
	face, err := load(surface.LabelPoints)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Errorf("render", "label font unavailable, drawing overlay without labels: %v", err)
		}
		return nil
	}
	return face
}
