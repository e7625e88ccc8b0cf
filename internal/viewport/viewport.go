package viewport

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Viewport is the rectangle of the complex plane mapped onto the drawable
// pixel region.
type Viewport struct {
	MinReal float64 `toml:"min_real" json:"minReal"`
	MaxReal float64 `toml:"max_real" json:"maxReal"`
	MinIm   float64 `toml:"min_imag" json:"minImag"`
	MaxIm   float64 `toml:"max_imag" json:"maxImag"`
}

// Default is the classic full view of the Mandelbrot set.
var Default = Viewport{MinReal: -2.0, MaxReal: 0.8, MinIm: -1.4, MaxIm: 1.4}

var ErrInvalid = errors.New("invalid viewport")

// Validate checks that both extents are finite and strictly positive.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.MinReal, v.MaxReal, v.MinIm, v.MaxIm} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %s", ErrInvalid, v)
		}
	}
	if v.MaxReal <= v.MinReal {
		return fmt.Errorf("%w: max real %g must exceed min real %g", ErrInvalid, v.MaxReal, v.MinReal)
	}
	if v.MaxIm <= v.MinIm {
		return fmt.Errorf("%w: max imaginary %g must exceed min imaginary %g", ErrInvalid, v.MaxIm, v.MinIm)
	}
	return nil
}

func (v Viewport) Width() float64  { return v.MaxReal - v.MinReal }
func (v Viewport) Height() float64 { return v.MaxIm - v.MinIm }

// Center returns the midpoint of the rectangle.
func (v Viewport) Center() complex128 {
	return complex((v.MinReal+v.MaxReal)/2, (v.MinIm+v.MaxIm)/2)
}

// Around builds the viewport of the given extents centred on c.
func Around(c complex128, width, height float64) Viewport {
	return Viewport{
		MinReal: real(c) - width/2,
		MaxReal: real(c) + width/2,
		MinIm:   imag(c) - height/2,
		MaxIm:   imag(c) + height/2,
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("re[%g, %g] im[%g, %g]", v.MinReal, v.MaxReal, v.MinIm, v.MaxIm)
}

// Classic regions / landmarks in the Mandelbrot set.
var presets = map[string]Viewport{
	"classic": Default,
	// dense filaments and repeating seahorse curls
	"seahorse-valley": {MinReal: -0.8, MaxReal: -0.7, MinIm: 0.05, MaxIm: 0.15},
	// large bulb with trunk-like tendrils
	"elephant-valley": {MinReal: -1.85, MaxReal: -1.75, MinIm: -0.10, MaxIm: -0.02},
	// small copy of the set with tight spiral arms
	"spiral-minibrot": {MinReal: -0.7435, MaxReal: -0.7420, MinIm: 0.1310, MaxIm: 0.1325},
	"triple-spiral":   {MinReal: -0.7480, MaxReal: -0.7450, MinIm: 0.0950, MaxIm: 0.0980},
	"dragon-valley":   {MinReal: -0.7400, MaxReal: -0.7350, MinIm: 0.1800, MaxIm: 0.1850},
}

// Preset looks up a named region.
func Preset(name string) (Viewport, error) {
	v, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Viewport{}, fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(PresetNames(), ", "))
	}
	return v, nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
