package render

import (
	"fmt"
	"image"

	"github.com/rook-computer/fractview/internal/surface"
	"github.com/rook-computer/fractview/internal/viewport"
	"golang.org/x/image/font"
)

const tickLength = 5

// drawOverlay outlines region, puts a tick on every tenth of the surface
// along all four sides and labels the bottom ticks with the real part and
// the left ticks with the imaginary part.
func drawOverlay(s *surface.Surface, mapper viewport.Mapper, vp viewport.Viewport, region image.Rectangle, face font.Face) {
	w, h := s.Size()
	marginX, marginY := region.Min.X, region.Min.Y
	s.DrawRect(w/2, h/2, region.Dx(), region.Dy(), Ink)

	everyX := max(1, w/10)
	everyY := max(1, h/10)

	for x := region.Min.X; x < region.Max.X; x++ {
		if x%everyX != 0 {
			continue
		}
		s.DrawRect(x, marginY, 1, tickLength, Ink)
		s.DrawRect(x, h-marginY, 1, tickLength, Ink)
		if face != nil {
			re := real(mapper.ToComplex(vp, x, 0))
			s.DrawLabel(x, h-marginY/2, formatAxis(re), Ink, face)
		}
	}

	for y := region.Min.Y; y < region.Max.Y; y++ {
		if y%everyY != 0 {
			continue
		}
		s.DrawRect(marginX, y, tickLength, 1, Ink)
		s.DrawRect(w-marginX, y, tickLength, 1, Ink)
		if face != nil {
			im := imag(mapper.ToComplex(vp, 0, y))
			s.DrawLabel(marginX/2, y, formatAxis(im), Ink, face)
		}
	}
}

func formatAxis(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
