package app

import (
	"image"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"

	"github.com/rook-computer/fractview/internal/render"
	"github.com/rook-computer/fractview/internal/render/layout"
	"github.com/rook-computer/fractview/internal/surface"
)

// generateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func generateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qrCode.Image(sizePx), nil
}

// drawSplash shows the live-view URL as a QR code with the URL under it.
// The code takes half of the shorter side.
func drawSplash(s *surface.Surface, url string, face font.Face) error {
	w, h := s.Size()
	s.Fill(render.Background)

	side := min(w, h) / 2
	qr, err := generateQRCodeImage(url, side)
	if err != nil {
		return err
	}
	if qr != nil {
		box := layout.Centered(s.Bounds(), side, side)
		s.DrawImage(qr, box)
		s.DrawLabel(w/2, box.Max.Y+h/20, url, render.Ink, face)
	}
	s.DrawLabel(w/2, h/8, "fractview", render.Ink, face)
	return nil
}
