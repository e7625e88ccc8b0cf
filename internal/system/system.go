// Package system holds the process and console plumbing around the viewer.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Console hides the text console while the framebuffer is in use and puts
// it back on Release. Only the steps that succeeded are undone.
type Console struct {
	Logger logger

	graphics bool
	hidden   bool
}

// Acquire switches the active VT to graphics mode and hides the cursor.
// Failures are logged and reported but are never fatal to the caller.
func (c *Console) Acquire() error {
	var first error
	if err := setKDMode(kdGraphics); err != nil {
		c.errorf("KD_GRAPHICS failed: %v", err)
		first = err
	} else {
		c.graphics = true
		c.infof("KD_GRAPHICS set")
	}
	if err := writeVT(hideCursor); err != nil {
		c.errorf("hide cursor failed: %v", err)
		if first == nil {
			first = err
		}
	} else {
		c.hidden = true
	}
	return first
}

// Release undoes Acquire.
func (c *Console) Release() {
	if c.hidden {
		if err := writeVT(showCursor); err != nil {
			c.errorf("show cursor failed: %v", err)
		}
		c.hidden = false
	}
	if c.graphics {
		if err := setKDMode(kdText); err != nil {
			c.errorf("KD_TEXT failed: %v", err)
		} else {
			c.infof("KD_TEXT set")
		}
		c.graphics = false
	}
}

func (c *Console) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("tty", format, args...)
	}
}

func (c *Console) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("tty", format, args...)
	}
}

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// ttyPaths are tried in order: the active VT, then tty0.
var ttyPaths = []string{"/dev/tty", "/dev/tty0"}
