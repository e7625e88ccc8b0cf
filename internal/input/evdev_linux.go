//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// EvdevSource reads keyboards and mice under /dev/input/event*.
type EvdevSource struct {
	// Glob selects the device nodes; empty means /dev/input/event*.
	Glob   string
	Logger logger

	ptr *pointer
}

// NewEvdevSource tracks the mouse cursor over a width x height surface.
func NewEvdevSource(width, height int, l logger) *EvdevSource {
	return &EvdevSource{Logger: l, ptr: newPointer(width, height)}
}

// Run emits events until ctx is done. It is best-effort: if no input
// devices are available, it logs and returns nil.
func (s *EvdevSource) Run(ctx context.Context, out chan<- Event) error {
	glob := s.Glob
	if glob == "" {
		glob = "/dev/input/event*"
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := int(binary.Size(unix.Timeval{}))

	paths, err := filepath.Glob(glob)
	if err != nil || len(paths) == 0 {
		s.infof("no evdev devices found")
		return nil
	}

	done := make(chan struct{}, len(paths))
	for _, path := range paths {
		p := path
		go func() {
			defer func() { done <- struct{}{} }()
			s.readDevice(ctx, p, tvSize, out)
		}()
	}
	for range paths {
		<-done
	}
	return nil
}

func (s *EvdevSource) readDevice(ctx context.Context, path string, tvSize int, out chan<- Event) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	eventSize := tvSize + 2 + 2 + 4
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, pollErr := unix.Poll(pollFds, 250)
		if pollErr != nil {
			if pollErr == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, readErr := unix.Read(fd, buf)
		if readErr != nil {
			if readErr == unix.EAGAIN || readErr == unix.EINTR {
				continue
			}
			return
		}
		if n < eventSize {
			continue
		}

		eachEvent(buf[:n], tvSize, func(typ, code uint16, value int32) {
			ev, ok := s.ptr.decode(typ, code, value)
			if !ok {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		})
	}
}

func (s *EvdevSource) infof(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Infof("input", format, args...)
	}
}
