package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/fractview/internal/surface"
	xdraw "golang.org/x/image/draw"
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Framebuffer presents frames on a Linux framebuffer device. With Fullscreen
// the frame is scaled to the whole device, otherwise it is drawn 1:1 in the
// centre.
type Framebuffer struct {
	Fullscreen bool
	Logger     logger

	mu  sync.Mutex
	dev *fb.Device
}

// OpenFramebuffer opens the device at path, e.g. /dev/fb0.
func OpenFramebuffer(path string, fullscreen bool, l logger) (*Framebuffer, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: framebuffer %s: %v", surface.ErrResourceUnavailable, path, err)
	}
	if l != nil {
		bounds := dev.Bounds()
		l.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	return &Framebuffer{Fullscreen: fullscreen, Logger: l, dev: dev}, nil
}

func (f *Framebuffer) Show(frame *image.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dev == nil {
		return nil
	}
	if f.Fullscreen {
		xdraw.NearestNeighbor.Scale(f.dev, f.dev.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
		return nil
	}
	blit(f.dev, frame)
	return nil
}

func (f *Framebuffer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dev == nil {
		return nil
	}
	f.dev.Close()
	f.dev = nil
	return nil
}

type pixelSetter interface {
	Bounds() image.Rectangle
	Set(x, y int, c color.Color)
}

// blit copies frame unscaled into the centre of dst, cropping what does not
// fit.
func blit(dst pixelSetter, frame *image.RGBA) {
	bounds := dst.Bounds()
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	offX := bounds.Min.X + (bounds.Dx()-fw)/2
	offY := bounds.Min.Y + (bounds.Dy()-fh)/2
	for y := 0; y < fh; y++ {
		dy := offY + y
		if dy < bounds.Min.Y || dy >= bounds.Max.Y {
			continue
		}
		for x := 0; x < fw; x++ {
			dx := offX + x
			if dx < bounds.Min.X || dx >= bounds.Max.X {
				continue
			}
			pixel := frame.RGBAAt(frame.Bounds().Min.X+x, frame.Bounds().Min.Y+y)
			dst.Set(dx, dy, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
