package viewport

import "fmt"

// Mapper converts between pixel coordinates of a Width x Height surface and
// points of a Viewport. Pixel (0, 0) is the top-left corner and maps to
// (MinReal, MaxIm); pixel (Width-1, Height-1) maps to (MaxReal, MinIm).
type Mapper struct {
	Width  int
	Height int
}

func (m Mapper) steps() (float64, float64) {
	sx, sy := float64(m.Width-1), float64(m.Height-1)
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	return sx, sy
}

// ToComplex maps pixel (x, y) into v.
func (m Mapper) ToComplex(v Viewport, x, y int) complex128 {
	sx, sy := m.steps()
	re := v.MinReal + float64(x)*v.Width()/sx
	im := v.MaxIm - float64(y)*v.Height()/sy
	return complex(re, im)
}

// ToPixel is the inverse of ToComplex. The result is fractional and may lie
// outside the surface when z is outside v.
func (m Mapper) ToPixel(v Viewport, z complex128) (float64, float64) {
	sx, sy := m.steps()
	x := (real(z) - v.MinReal) * sx / v.Width()
	y := (v.MaxIm - imag(z)) * sy / v.Height()
	return x, y
}

// Recenter returns a viewport centred on the point under pixel (px, py),
// with both extents scaled by factor: 1 recenters, 0.5 zooms in and 2 zooms
// out.
func (m Mapper) Recenter(v Viewport, px, py int, factor float64) (Viewport, error) {
	if !(factor > 0) {
		return v, fmt.Errorf("%w: zoom factor %g must be positive", ErrInvalid, factor)
	}
	c := m.ToComplex(v, px, py)
	next := Around(c, v.Width()*factor, v.Height()*factor)
	if err := next.Validate(); err != nil {
		return v, err
	}
	return next, nil
}
