// Package display holds the targets a surface presents to.
package display

import (
	"io"

	"github.com/rook-computer/fractview/internal/surface"
)

// Display is a present target backed by a device that must be released.
type Display interface {
	surface.Presenter
	io.Closer
}

var _ Display = (*Framebuffer)(nil)
