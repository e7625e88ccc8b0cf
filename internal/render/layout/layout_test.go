package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsetXY(t *testing.T) {
	r := image.Rect(0, 0, 800, 600)
	assert.Equal(t, image.Rect(26, 20, 774, 580), InsetXY(r, 800/30, 600/30))
	assert.Equal(t, r, InsetXY(r, -3, 0))
	assert.Equal(t, image.Rect(5, 5, 795, 595), InsetXY(r, 5, 5))
}

func TestInsetXYCollapses(t *testing.T) {
	got := InsetXY(image.Rect(0, 0, 10, 10), 6, 1)
	assert.True(t, got.Dx() == 0)
	assert.Equal(t, 8, got.Dy())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, image.Rect(1, 2, 5, 6), Normalize(image.Rectangle{Min: image.Pt(5, 6), Max: image.Pt(1, 2)}))
}

func TestCentered(t *testing.T) {
	assert.Equal(t, image.Rect(40, 20, 60, 40), Centered(image.Rect(0, 0, 100, 60), 20, 20))
	assert.Equal(t, image.Rect(0, 0, 10, 10), Centered(image.Rect(0, 0, 10, 10), 50, 50))
}
