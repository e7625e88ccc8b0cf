package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rook-computer/fractview/internal/app"
	"github.com/rook-computer/fractview/internal/config"
	"github.com/rook-computer/fractview/internal/fractal"
	"github.com/rook-computer/fractview/internal/system"
	"github.com/rook-computer/fractview/internal/viewport"
)

const debugLogPath = "./fractview-debug.log"

// flags mirrors the command line before it is merged into config.Config.
type flags struct {
	Resolution string
	Iterations int
	MinReal    float64
	MaxReal    float64
	MinImag    float64
	MaxImag    float64
	Kind       string
	Preset     string
	Constants  []string
	Exponent   string
	Fullscreen bool
	Metric     bool
	ConfigFile string
	Framebuf   string
	Listen     string
	NoInput    bool
	Preempt    bool
	Debug      bool
	StdioLog   string
	SaveDir    string
	Splash     string
}

func main() {
	rootCmd, _ := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			reportError(w, rootCmd, err)
		}),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

// reportError prints err, followed by the usage text when a setting was
// rejected.
func reportError(w io.Writer, cmd *cobra.Command, err error) {
	_, _ = fmt.Fprintln(w, "fractview:", err.Error())
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprint(w, cmd.UsageString())
	}
}

// newRootCmd builds the command and returns the flag values it fills in.
func newRootCmd() (*cobra.Command, *flags) {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "fractview [flags]",
		Short: "Interactive escape-time fractal viewer",
		Long: `fractview renders Mandelbrot, Julia and Lambda fractals to a Linux
framebuffer and/or a browser live view, and lets you explore them with the
mouse and keyboard.

Keys: M overlay, S save PNG, K cycle kind, +/- iterations, R reset,
Q/Esc/F4 quit. Left click recenters; the wheel zooms.`,
		Example: `  # Default view on /dev/fb0
  fractview

  # Julia set at 1024x768 with the axis overlay, viewable in a browser
  fractview -r 1024x768 -k julia -c -0.8+0.156i -m --listen :8080

  # Headless, browser only
  fractview --fb none --no-input --listen :8080 --preset seahorse-valley`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, *f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVarP(&f.Resolution, "resolution", "r", "800x600", "surface size as WxH")
	fl.IntVarP(&f.Iterations, "iterations", "i", config.DefaultLimit, "iteration limit per point")
	fl.Float64VarP(&f.MinReal, "min-real", "x", viewport.Default.MinReal, "left edge of the viewport")
	fl.Float64VarP(&f.MaxReal, "max-real", "X", viewport.Default.MaxReal, "right edge of the viewport")
	fl.Float64VarP(&f.MinImag, "min-imag", "y", viewport.Default.MinIm, "bottom edge of the viewport")
	fl.Float64VarP(&f.MaxImag, "max-imag", "Y", viewport.Default.MaxIm, "top edge of the viewport")
	fl.StringVarP(&f.Kind, "kind", "k", "mandelbrot", fmt.Sprintf("fractal kind %v", fractal.KindNames))
	fl.StringVar(&f.Preset, "preset", "", fmt.Sprintf("named viewport %v", viewport.PresetNames()))
	fl.StringArrayVarP(&f.Constants, "constant", "c", nil, "per-channel complex constant a+bi (repeat up to 3 times)")
	fl.StringVarP(&f.Exponent, "exponent", "e", "2", "complex exponent of the iteration")
	fl.BoolVarP(&f.Fullscreen, "fullscreen", "f", false, "scale the frame to the whole framebuffer")
	fl.BoolVarP(&f.Metric, "metric", "m", false, "start with the axis overlay on")
	fl.StringVar(&f.ConfigFile, "config", "", "TOML configuration file")
	fl.StringVar(&f.Framebuf, "fb", "/dev/fb0", `framebuffer device, or "none"; also `+config.EnvFramebuf)
	fl.StringVar(&f.Listen, "listen", "", "serve the live view on this address, e.g. :8080; also "+config.EnvListenAddr)
	fl.BoolVar(&f.NoInput, "no-input", false, "do not read evdev input devices")
	fl.BoolVar(&f.Preempt, "preempt", false, "let input cancel a pass in flight instead of being ignored")
	fl.BoolVar(&f.Debug, "debug", false, "debug logging, also to "+debugLogPath)
	fl.StringVar(&f.StdioLog, "stdio-log", "", "redirect stdout+stderr (including panics) to this file; also "+config.EnvStdioLog)
	fl.StringVar(&f.SaveDir, "save-dir", ".", "directory for saved PNG frames")
	fl.StringVar(&f.Splash, "splash", config.DefaultSplash.String(), "how long to show the live-view QR code")

	return rootCmd, f
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		if err := cfg.LoadFile(f.ConfigFile); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()

	set := cmd.Flags().Changed
	if set("resolution") {
		w, h, err := config.ParseResolution(f.Resolution)
		if err != nil {
			return cfg, err
		}
		cfg.Width, cfg.Height = w, h
	}
	if set("iterations") {
		cfg.Iterations = f.Iterations
	}
	if set("min-real") {
		cfg.Viewport.MinReal = f.MinReal
	}
	if set("max-real") {
		cfg.Viewport.MaxReal = f.MaxReal
	}
	if set("min-imag") {
		cfg.Viewport.MinIm = f.MinImag
	}
	if set("max-imag") {
		cfg.Viewport.MaxIm = f.MaxImag
	}
	if set("kind") {
		cfg.Kind = f.Kind
	}
	if set("preset") {
		cfg.Preset = f.Preset
	}
	if set("constant") {
		cfg.Constants = f.Constants
	}
	if set("exponent") {
		cfg.Exponent = f.Exponent
	}
	if set("fullscreen") {
		cfg.Fullscreen = f.Fullscreen
	}
	if set("metric") {
		cfg.Overlay = f.Metric
	}
	if set("fb") {
		cfg.Framebuffer = f.Framebuf
	}
	if set("listen") {
		cfg.Listen = f.Listen
	}
	if set("no-input") {
		cfg.NoInput = f.NoInput
	}
	if set("preempt") {
		cfg.Preempt = f.Preempt
	}
	if set("debug") {
		cfg.Debug = f.Debug
	}
	if set("stdio-log") {
		cfg.StdioLog = f.StdioLog
	}
	if set("save-dir") {
		cfg.SaveDir = f.SaveDir
	}
	if set("splash") {
		d, err := config.ParseDuration(f.Splash)
		if err != nil {
			return cfg, err
		}
		cfg.Splash = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if _, err := cfg.FractalKind(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.StdioLog != "" {
		if err := system.RedirectStdIO(cfg.StdioLog); err != nil {
			fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NewConsoleLogger(os.Stderr, cfg.Debug, isTerminal(os.Stderr))
	if cfg.Debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.Tee(logger, app.NewFileLogger(f))
			logger.Infof("main", "debug logging enabled")
		} else {
			logger.Errorf("main", "debug log open error: %v", err)
		}
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	a.SplashDuration = cfg.Splash
	return a.Run(ctx)
}

func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}
