package surface

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelPoints is the axis label size; a reduced version of the 12pt UI font.
const LabelPoints = 12 / 1.4

// LoadFace parses the bundled Go Regular font at the given size. The
// opentype parser is tried first and freetype's truetype parser is the
// fallback; if neither can load it the error wraps ErrResourceUnavailable.
func LoadFace(points float64) (font.Face, error) {
	return loadFace(goregular.TTF, points)
}

func loadFace(data []byte, points float64) (font.Face, error) {
	fnt, err := opentype.Parse(data)
	if err == nil {
		face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: points, DPI: 72, Hinting: font.HintingFull})
		if ferr == nil {
			return face, nil
		}
		err = ferr
	}
	tt, terr := truetype.Parse(data)
	if terr != nil {
		return nil, fmt.Errorf("%w: font: opentype: %v; truetype: %v", ErrResourceUnavailable, err, terr)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: points, DPI: 72, Hinting: font.HintingFull}), nil
}
