//go:build !linux

package input

import "context"

// EvdevSource is unavailable off Linux; Run returns immediately.
type EvdevSource struct {
	Glob   string
	Logger logger
}

func NewEvdevSource(width, height int, l logger) *EvdevSource {
	return &EvdevSource{Logger: l}
}

func (s *EvdevSource) Run(ctx context.Context, out chan<- Event) error {
	if s.Logger != nil {
		s.Logger.Infof("input", "evdev input not supported on this platform")
	}
	return nil
}
