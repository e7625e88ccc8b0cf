//go:build !unix

package system

import (
	"errors"
	"os"
)

const (
	kdText     = 0x00
	kdGraphics = 0x01
)

var errNoConsole = errors.New("console control not supported on this platform")

func setKDMode(int) error  { return errNoConsole }
func writeVT(string) error { return errNoConsole }

// RedirectStdIO swaps the os.Stdout and os.Stderr handles. Runtime output
// such as panics is not captured.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
