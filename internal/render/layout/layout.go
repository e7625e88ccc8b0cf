package layout

import "image"

// InsetXY shrinks rect by padX on the left and right and padY on the top
// and bottom. Negative padding is treated as zero; a rect that would invert
// collapses to an empty rectangle at its centre.
func InsetXY(rect image.Rectangle, padX, padY int) image.Rectangle {
	rect = Normalize(rect)
	if padX < 0 {
		padX = 0
	}
	if padY < 0 {
		padY = 0
	}
	if 2*padX > rect.Dx() {
		mid := rect.Min.X + rect.Dx()/2
		rect.Min.X, rect.Max.X = mid, mid
		padX = 0
	}
	if 2*padY > rect.Dy() {
		mid := rect.Min.Y + rect.Dy()/2
		rect.Min.Y, rect.Max.Y = mid, mid
		padY = 0
	}
	return image.Rect(rect.Min.X+padX, rect.Min.Y+padY, rect.Max.X-padX, rect.Max.Y-padY)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Centered returns a w x h rectangle centred inside rect, clamped to fit.
func Centered(rect image.Rectangle, w, h int) image.Rectangle {
	rect = Normalize(rect)
	if w > rect.Dx() {
		w = rect.Dx()
	}
	if h > rect.Dy() {
		h = rect.Dy()
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	x0 := rect.Min.X + (rect.Dx()-w)/2
	y0 := rect.Min.Y + (rect.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
