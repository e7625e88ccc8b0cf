package fractal

import (
	"fmt"
	"strings"
)

// Channel selects one colour component of a triptych render.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Kind is a fractal family. Escape computes the escape count of a single
// point for one channel; single-channel kinds ignore the channel.
type Kind interface {
	Name() string
	Triptych() bool
	Escape(point complex128, ch Channel, limit int) int

	isKind()
}

// Mandelbrot iterates z^E + c from z0 = 0 with c taken from the point.
// With Offsets set, each channel adds its own offset to c and the kind
// renders as a triptych.
type Mandelbrot struct {
	Exponent complex128
	Offsets  *[3]complex128
}

func (Mandelbrot) Name() string { return "mandelbrot" }

func (m Mandelbrot) Triptych() bool {
	return m.Offsets != nil || m.exponent() != 2
}

func (m Mandelbrot) Escape(point complex128, ch Channel, limit int) int {
	c := point
	if m.Offsets != nil {
		c += m.Offsets[ch]
	}
	return Iterate(0, c, limit, m.exponent())
}

func (m Mandelbrot) exponent() complex128 {
	if m.Exponent == 0 {
		return 2
	}
	return m.Exponent
}

func (Mandelbrot) isKind() {}

// Julia iterates z^E + K from z0 = point, one constant K per channel.
type Julia struct {
	Exponent  complex128
	Constants [3]complex128
}

// DefaultJuliaConstants give a recognisable connected set on each channel.
var DefaultJuliaConstants = [3]complex128{
	complex(-0.8, 0.156),
	complex(-0.7269, 0.1889),
	complex(0.285, 0.01),
}

func (Julia) Name() string   { return "julia" }
func (Julia) Triptych() bool { return true }

func (j Julia) Escape(point complex128, ch Channel, limit int) int {
	exp := j.Exponent
	if exp == 0 {
		exp = 2
	}
	return Iterate(point, j.Constants[ch], limit, exp)
}

func (Julia) isKind() {}

// LambdaConstants are the fixed logistic-map multipliers for R, G and B.
var LambdaConstants = [3]complex128{
	complex(0.85, 0.6),
	complex(1, 0.1),
	complex(2.9, 0.2),
}

// Lambda iterates the logistic map lambda*z*(1-z) from z0 = point.
type Lambda struct{}

func (Lambda) Name() string   { return "lambda" }
func (Lambda) Triptych() bool { return true }

func (Lambda) Escape(point complex128, ch Channel, limit int) int {
	return IterateLambda(point, LambdaConstants[ch], limit)
}

func (Lambda) isKind() {}

// KindNames lists the selectable kinds in cycling order.
var KindNames = []string{"mandelbrot", "julia", "lambda"}

// NewKind builds a kind by name. Constants are per-channel values: offsets
// for mandelbrot, Julia constants for julia (missing entries repeat the last
// one, or fall back to DefaultJuliaConstants when none are given).
func NewKind(name string, exponent complex128, constants []complex128) (Kind, error) {
	if len(constants) > 3 {
		return nil, fmt.Errorf("at most 3 channel constants, got %d", len(constants))
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mandelbrot":
		m := Mandelbrot{Exponent: exponent}
		if len(constants) > 0 {
			offsets := spread(constants)
			m.Offsets = &offsets
		}
		return m, nil
	case "julia":
		j := Julia{Exponent: exponent, Constants: DefaultJuliaConstants}
		if len(constants) > 0 {
			j.Constants = spread(constants)
		}
		return j, nil
	case "lambda":
		return Lambda{}, nil
	default:
		return nil, fmt.Errorf("unknown fractal kind %q (want one of %s)", name, strings.Join(KindNames, ", "))
	}
}

// Cycle steps through one variant per kind in KindNames order. The
// starting variant keeps its parameters for every lap; the other kinds are
// derived from it once, sharing its exponent.
type Cycle struct {
	kinds []Kind
	i     int
}

// NewCycle builds a cycle positioned at start.
func NewCycle(start Kind) *Cycle {
	if start == nil {
		start = Mandelbrot{}
	}
	var exp complex128
	switch v := start.(type) {
	case Mandelbrot:
		exp = v.Exponent
	case Julia:
		exp = v.Exponent
	}
	c := &Cycle{}
	for i, name := range KindNames {
		if name == start.Name() {
			c.kinds = append(c.kinds, start)
			c.i = i
			continue
		}
		k, _ := NewKind(name, exp, nil)
		c.kinds = append(c.kinds, k)
	}
	return c
}

// Current returns the selected variant.
func (c *Cycle) Current() Kind { return c.kinds[c.i] }

// Next advances to the following kind and returns it.
func (c *Cycle) Next() Kind {
	c.i = (c.i + 1) % len(c.kinds)
	return c.kinds[c.i]
}

func spread(values []complex128) [3]complex128 {
	var out [3]complex128
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = values[len(values)-1]
		}
	}
	return out
}
