package fractal

import "image/color"

// Inside is the colour of points that never escape in single-channel mode.
var Inside = color.RGBA{A: 0xFF}

// RampFloor lifts the escape ramp off black so that the fastest escapes
// never look like Inside.
const RampFloor = 64

// Shade maps a single escape count to the (k, k, 2k) ramp raised by
// RampFloor and clamped to 255. Non-escaping points get Inside.
func Shade(k, limit int) color.RGBA {
	if k >= limit {
		return Inside
	}
	return color.RGBA{R: clamp8(RampFloor + k), G: clamp8(RampFloor + k), B: clamp8(RampFloor + 2*k), A: 0xFF}
}

// Triptych packs three per-channel escape counts into one colour, wrapping
// each count into the channel range.
func Triptych(kr, kg, kb int) color.RGBA {
	return color.RGBA{R: uint8(kr % 256), G: uint8(kg % 256), B: uint8(kb % 256), A: 0xFF}
}

// Color evaluates point under kind and returns its pixel colour.
func Color(kind Kind, point complex128, limit int) color.RGBA {
	if !kind.Triptych() {
		return Shade(kind.Escape(point, Red, limit), limit)
	}
	return Triptych(
		kind.Escape(point, Red, limit),
		kind.Escape(point, Green, limit),
		kind.Escape(point, Blue, limit),
	)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
