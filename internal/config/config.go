// Package config resolves viewer settings from defaults, an optional TOML
// file, the environment and command-line flags, in that order.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/rook-computer/fractview/internal/fractal"
	"github.com/rook-computer/fractview/internal/viewport"
)

const (
	EnvListenAddr = "FRACTVIEW_LISTEN"
	EnvFramebuf   = "FRACTVIEW_FB"
	EnvStdioLog   = "FRACTVIEW_STDIO_LOG"

	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultLimit        = 256
	DefaultPollInterval = 50 * time.Millisecond
	DefaultSplash       = 3 * time.Second
)

// ConfigurationError reports an invalid setting. Field names the flag or
// key at fault.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErr(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}

// Config is the resolved viewer configuration.
type Config struct {
	Width      int               `toml:"width"`
	Height     int               `toml:"height"`
	Iterations int               `toml:"iterations"`
	Viewport   viewport.Viewport `toml:"viewport"`
	Preset     string            `toml:"preset"`
	Kind       string            `toml:"kind"`
	Exponent   string            `toml:"exponent"`
	Constants  []string          `toml:"constants"`
	Overlay    bool              `toml:"overlay"`
	Fullscreen bool              `toml:"fullscreen"`

	Framebuffer string `toml:"framebuffer"`
	Listen      string `toml:"listen"`
	NoInput     bool   `toml:"no_input"`
	Preempt     bool   `toml:"preempt"`
	Debug       bool   `toml:"debug"`
	StdioLog    string `toml:"stdio_log"`
	SaveDir     string `toml:"save_dir"`
	// Splash is how long the live-view QR code shows before the first pass.
	Splash time.Duration `toml:"splash"`

	PollInterval time.Duration `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Iterations:   DefaultLimit,
		Viewport:     viewport.Default,
		Kind:         "mandelbrot",
		Exponent:     "2",
		Framebuffer:  "/dev/fb0",
		SaveDir:      ".",
		Splash:       DefaultSplash,
		PollInterval: DefaultPollInterval,
	}
}

// LoadFile overlays the TOML file at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return configErr("config file", errors.Wrapf(err, "parsing %s", path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return configErr("config file", errors.Errorf("%s: unknown key %q", path, undecoded[0].String()))
	}
	return nil
}

// ApplyEnv overlays the FRACTVIEW_* environment variables onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvFramebuf); v != "" {
		c.Framebuffer = v
	}
	if v := os.Getenv(EnvStdioLog); v != "" {
		c.StdioLog = v
	}
}

// Validate checks the values that can be checked without building the kind.
func (c *Config) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return configErr("resolution", errors.Errorf("%dx%d is smaller than 3x3", c.Width, c.Height))
	}
	if c.Iterations < 1 {
		return configErr("iterations", errors.Errorf("%d must be at least 1", c.Iterations))
	}
	if c.Preset != "" {
		if _, err := viewport.Preset(c.Preset); err != nil {
			return configErr("preset", err)
		}
	}
	if err := c.Viewport.Validate(); err != nil {
		return configErr("viewport", err)
	}
	if c.Splash < 0 {
		return configErr("splash", errors.Errorf("%s must not be negative", c.Splash))
	}
	if c.PollInterval <= 0 {
		return configErr("poll interval", errors.Errorf("%s must be positive", c.PollInterval))
	}
	return nil
}

// StartViewport is the preset when one is named, else the explicit viewport.
func (c *Config) StartViewport() viewport.Viewport {
	if c.Preset != "" {
		if v, err := viewport.Preset(c.Preset); err == nil {
			return v
		}
	}
	return c.Viewport
}

// FractalKind builds the configured fractal variant.
func (c *Config) FractalKind() (fractal.Kind, error) {
	exp := complex(2, 0)
	if c.Exponent != "" {
		v, err := ParseComplex(c.Exponent)
		if err != nil {
			return nil, configErr("exponent", err)
		}
		exp = v
	}
	consts := make([]complex128, 0, len(c.Constants))
	for _, raw := range c.Constants {
		v, err := ParseComplex(raw)
		if err != nil {
			return nil, configErr("constant", err)
		}
		consts = append(consts, v)
	}
	k, err := fractal.NewKind(c.Kind, exp, consts)
	if err != nil {
		return nil, configErr("kind", err)
	}
	return k, nil
}

// ParseResolution parses "WxH".
func ParseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, configErr("resolution", errors.Errorf("%q is not WxH", s))
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, configErr("resolution", errors.Wrapf(err, "width in %q", s))
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, configErr("resolution", errors.Wrapf(err, "height in %q", s))
	}
	if w < 3 || h < 3 {
		return 0, 0, configErr("resolution", errors.Errorf("%q is smaller than 3x3", s))
	}
	return w, h, nil
}

// ParseComplex parses "a", "bi", "a+bi" or "a-bi". A bare "i" means 1i.
func ParseComplex(s string) (complex128, error) {
	t := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if t == "" {
		return 0, errors.New("empty complex number")
	}
	if !strings.HasSuffix(t, "i") {
		re, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parsing %q", s)
		}
		return complex(re, 0), nil
	}
	body := strings.TrimSuffix(t, "i")

	// The split point is the last sign that is not leading and not part of
	// an exponent.
	split := -1
	for i := len(body) - 1; i > 0; i-- {
		if (body[i] == '+' || body[i] == '-') && body[i-1] != 'e' && body[i-1] != 'E' {
			split = i
			break
		}
	}
	reStr, imStr := "", body
	if split > 0 {
		reStr, imStr = body[:split], body[split:]
	}
	switch imStr {
	case "", "+":
		imStr = "1"
	case "-":
		imStr = "-1"
	}
	im, err := strconv.ParseFloat(imStr, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing imaginary part of %q", s)
	}
	var re float64
	if reStr != "" {
		re, err = strconv.ParseFloat(reStr, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parsing real part of %q", s)
		}
	}
	return complex(re, im), nil
}

// ParseDuration parses a Go duration such as "3s" or "500ms".
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, configErr("duration", errors.Wrapf(err, "parsing %q", s))
	}
	return d, nil
}
