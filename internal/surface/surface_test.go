package surface

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPresenter struct {
	frames []*image.RGBA
	err    error
}

func (p *recordingPresenter) Show(frame *image.RGBA) error {
	p.frames = append(p.frames, frame)
	return p.err
}

var red = color.RGBA{R: 0xFF, A: 0xFF}

func TestNewRejectsTinySurface(t *testing.T) {
	_, err := New(2, 10)
	assert.Error(t, err)
}

func TestSetPixelKeepsBorder(t *testing.T) {
	s, err := New(10, 8)
	require.NoError(t, err)

	for _, p := range [][2]int{{0, 3}, {3, 0}, {9, 3}, {3, 7}, {-1, 2}, {20, 2}} {
		s.SetPixel(p[0], p[1], red)
	}
	s.SetPixel(1, 1, red)
	s.SetPixel(8, 6, red)

	assert.Equal(t, red, s.At(1, 1))
	assert.Equal(t, red, s.At(8, 6))
	assert.Equal(t, color.RGBA{}, s.At(0, 3))
	assert.Equal(t, color.RGBA{}, s.At(3, 0))
	assert.Equal(t, color.RGBA{}, s.At(9, 3))
	assert.Equal(t, color.RGBA{}, s.At(3, 7))
}

func TestFillCoversBorder(t *testing.T) {
	s, err := New(5, 5)
	require.NoError(t, err)
	s.Fill(color.White)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, s.At(0, 0))
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, s.At(4, 4))
}

func TestDrawRectOutline(t *testing.T) {
	s, err := New(20, 20)
	require.NoError(t, err)
	s.DrawRect(10, 10, 6, 4, red)

	// x0 = 7, y0 = 8, right edge x = 12, bottom edge y = 11
	assert.Equal(t, red, s.At(7, 8))
	assert.Equal(t, red, s.At(12, 8))
	assert.Equal(t, red, s.At(7, 11))
	assert.Equal(t, red, s.At(12, 11))
	assert.Equal(t, red, s.At(9, 8))
	assert.Equal(t, color.RGBA{}, s.At(9, 9), "interior stays empty")
}

func TestPresentSendsIndependentCopies(t *testing.T) {
	first := &recordingPresenter{}
	second := &recordingPresenter{err: errors.New("gone")}
	s, err := New(4, 4, first, second)
	require.NoError(t, err)

	s.SetPixel(1, 1, red)
	assert.EqualError(t, s.Present(), "gone")
	require.Len(t, first.frames, 1)
	require.Len(t, second.frames, 1)

	s.SetPixel(2, 2, red)
	assert.Equal(t, red, first.frames[0].RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{}, first.frames[0].RGBAAt(2, 2), "frame is a copy")
}

func TestSavePNG(t *testing.T) {
	s, err := New(6, 6)
	require.NoError(t, err)
	s.SetPixel(2, 3, red)

	path := filepath.Join(t.TempDir(), "nested", "frame.png")
	require.NoError(t, s.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 6), img.Bounds())
	r, _, _, _ := img.At(2, 3).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
}

func TestLoadFaceAndDrawLabel(t *testing.T) {
	face, err := LoadFace(LabelPoints)
	require.NoError(t, err)
	defer face.Close()

	s, err := New(80, 40)
	require.NoError(t, err)
	s.Fill(color.White)
	s.DrawLabel(40, 20, "-1.2345", color.Black, face)

	dark := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			if s.At(x, y).R < 0x80 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "label produced ink")
}

func TestLoadFaceRejectsGarbage(t *testing.T) {
	_, err := loadFace([]byte("not a font"), 10)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}
