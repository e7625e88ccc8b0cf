// Package app wires the viewer together: surface, displays, controller,
// input sources and the web server, plus the foreground input loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rook-computer/fractview/internal/config"
	"github.com/rook-computer/fractview/internal/controller"
	"github.com/rook-computer/fractview/internal/display"
	"github.com/rook-computer/fractview/internal/input"
	"github.com/rook-computer/fractview/internal/render"
	"github.com/rook-computer/fractview/internal/state"
	"github.com/rook-computer/fractview/internal/surface"
	"github.com/rook-computer/fractview/internal/system"
	"github.com/rook-computer/fractview/internal/viewport"
	"github.com/rook-computer/fractview/internal/web"
)

// eventBuffer bounds the queue between input sources and the loop.
const eventBuffer = 64

// Source produces input events until ctx is done.
type Source interface {
	Run(ctx context.Context, out chan<- input.Event) error
}

type App struct {
	Config     config.Config
	Logger     Logger
	Store      *state.Store
	Surface    *surface.Surface
	Live       *display.LiveView
	Controller *controller.Controller
	Web        web.Server
	Sources    []Source
	// Console, when set, is switched to graphics mode for the run.
	Console *system.Console
	// SplashDuration is how long the live-view QR code is shown before the
	// first pass. Zero skips the splash.
	SplashDuration time.Duration

	displays []display.Display
	events   chan input.Event
	now      func() time.Time
}

// New builds every subsystem from cfg. Missing resources (framebuffer,
// label font) are fatal and wrap surface.ErrResourceUnavailable.
func New(cfg config.Config, logger Logger) (*App, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := cfg.FractalKind()
	if err != nil {
		return nil, err
	}

	// The face is reloaded per pass; this only proves the font is usable.
	face, err := surface.LoadFace(surface.LabelPoints)
	if err != nil {
		return nil, err
	}
	_ = face.Close()

	app := &App{
		Config: cfg,
		Logger: logger,
		Store:  state.NewStore(),
		Live:   display.NewLiveView(),
		events: make(chan input.Event, eventBuffer),
		now:    time.Now,
	}

	presenters := []surface.Presenter{app.Live}
	if fbPath := cfg.Framebuffer; fbPath != "" && fbPath != "none" {
		fb, err := display.OpenFramebuffer(fbPath, cfg.Fullscreen, logger)
		if err != nil {
			return nil, err
		}
		presenters = append(presenters, fb)
		app.displays = append(app.displays, fb)
		app.Console = &system.Console{Logger: logger}
	}

	s, err := surface.New(cfg.Width, cfg.Height, presenters...)
	if err != nil {
		app.closeDisplays()
		return nil, fmt.Errorf("%w: %v", surface.ErrResourceUnavailable, err)
	}
	s.Logger = logger
	app.Surface = s

	renderer := &render.Renderer{Logger: logger}
	if cfg.Debug {
		step := max(1, cfg.Width/10)
		renderer.OnColumn = func(done, total int) {
			if done%step == 0 || done == total {
				logger.Debugf("render", "column %d/%d", done, total)
			}
		}
	}

	ctrl, err := controller.New(s, controller.Options{
		Viewport: cfg.StartViewport(),
		Params:   render.Params{Limit: cfg.Iterations, Kind: kind, Overlay: cfg.Overlay},
		Renderer: renderer,
		Logger:   logger,
		Preempt:  cfg.Preempt,
		OnPassDone: func(res render.Result) {
			logger.Debugf("render", "pass %s: %d columns in %s", res.Outcome, res.Columns, res.Elapsed)
		},
	})
	if err != nil {
		app.closeDisplays()
		return nil, err
	}
	app.Controller = ctrl

	app.Web = &web.NoopServer{}
	if cfg.Listen != "" {
		serverCfg, err := web.ServerConfigFromEnv(cfg.Listen)
		if err != nil {
			app.closeDisplays()
			return nil, err
		}
		app.Web = web.NewHTTPServer(serverCfg, web.Deps{
			Frames:  app.Live,
			Status:  func() any { return app.Status() },
			Input:   app.Offer,
			Logger:  logger,
			DevMode: serverCfg.DevMode,
		})
	}

	if !cfg.NoInput {
		app.Sources = append(app.Sources, input.NewEvdevSource(cfg.Width, cfg.Height, logger))
	}
	return app, nil
}

// Offer queues an event without blocking. Events are dropped when the
// loop is behind.
func (app *App) Offer(ev input.Event) {
	select {
	case app.events <- ev:
	default:
		app.Logger.Debugf("input", "queue full, dropping %s", ev.Action)
		app.Store.RecordInput(ev.Action.String(), ev.Source, app.now(), true)
	}
}

// Run shows the first frame and dispatches input until a quit event, a
// source failure or ctx ends. It always shuts the controller down and
// joins the pass in flight before returning.
func (app *App) Run(ctx context.Context) error {
	if app.Console != nil {
		_ = app.Console.Acquire()
		defer app.Console.Release()
	}
	defer app.closeDisplays()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.Web.Start(runCtx); err != nil {
		app.Store.Fail(err)
		app.Controller.Shutdown()
		return err
	}
	if url := app.Web.URL(); url != "" {
		app.Store.UpdateNetwork(state.NetworkInfo{Listen: app.Config.Listen, URL: url})
		app.Logger.Infof("app", "live view at %s", url)
		if app.SplashDuration > 0 {
			app.splash(runCtx, url)
		}
	}

	g, gctx := errgroup.WithContext(runCtx)
	for _, src := range app.Sources {
		g.Go(func() error { return src.Run(gctx, app.events) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return app.Web.Stop()
	})

	app.Store.SetPhase(state.VIEWING)
	app.Controller.RequestRender()

	err := app.loop(gctx)

	app.Store.SetPhase(state.STOPPING)
	app.Controller.Shutdown()
	cancel()
	if gerr := g.Wait(); err == nil && gerr != nil && !errors.Is(gerr, context.Canceled) {
		err = gerr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		app.Store.Fail(err)
		return err
	}
	return nil
}

func (app *App) loop(ctx context.Context) error {
	ticker := time.NewTicker(app.Config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-ticker.C:
		}
		for drained := false; !drained; {
			select {
			case ev := <-app.events:
				if app.Handle(ev) {
					return nil
				}
			default:
				drained = true
			}
		}
	}
}

// Handle applies one event and reports whether the viewer should quit.
// Requests refused because a pass is running are dropped.
func (app *App) Handle(ev input.Event) bool {
	ctrl := app.Controller
	var err error
	switch ev.Action {
	case input.Quit:
		app.Logger.Infof("input", "quit requested via %s", ev.Source)
		app.Store.RecordInput(ev.Action.String(), ev.Source, app.now(), false)
		return true
	case input.Recenter, input.ZoomIn, input.ZoomOut:
		err = ctrl.UpdateViewportFromClick(ev.X, ev.Y, ev.ZoomFactor())
	case input.ToggleOverlay:
		err = ctrl.ToggleOverlay()
	case input.Save:
		err = app.save()
	case input.CycleKind:
		err = ctrl.CycleKind()
	case input.MoreIterations:
		err = ctrl.ScaleLimit(2)
	case input.FewerIterations:
		err = ctrl.ScaleLimit(0.5)
	case input.ResetView:
		err = ctrl.ResetViewport()
	default:
		return false
	}

	dropped := err != nil
	switch {
	case err == nil:
		app.Logger.Debugf("input", "%s from %s", ev.Action, ev.Source)
	case errors.Is(err, controller.ErrBusy), errors.Is(err, controller.ErrShutdown):
		app.Logger.Debugf("input", "%s dropped: %v", ev.Action, err)
	default:
		app.Logger.Errorf("input", "%s failed: %v", ev.Action, err)
	}
	app.Store.RecordInput(ev.Action.String(), ev.Source, app.now(), dropped)
	return false
}

func (app *App) save() error {
	path := filepath.Join(app.Config.SaveDir, fmt.Sprintf("fractal-%d.png", app.now().Unix()))
	err := app.Controller.Save(path)
	if errors.Is(err, controller.ErrBusy) {
		return err
	}
	app.Store.RecordSave(path, err)
	if err == nil {
		app.Logger.Infof("app", "saved %s", path)
	}
	return err
}

func (app *App) splash(ctx context.Context, url string) {
	face, err := surface.LoadFace(surface.LabelPoints)
	if err != nil {
		app.Logger.Errorf("app", "splash font: %v", err)
		return
	}
	defer face.Close()
	if err := drawSplash(app.Surface, url, face); err != nil {
		app.Logger.Errorf("app", "splash: %v", err)
		return
	}
	_ = app.Surface.Present()

	t := time.NewTimer(app.SplashDuration)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (app *App) closeDisplays() {
	for _, d := range app.displays {
		if err := d.Close(); err != nil {
			app.Logger.Errorf("app", "close display: %v", err)
		}
	}
	app.displays = nil
}

// StatusResponse is served at /api/v1/status.
type StatusResponse struct {
	Status        string            `json:"status"`
	Kind          string            `json:"kind"`
	Limit         int               `json:"limit"`
	Overlay       bool              `json:"overlay"`
	Viewport      viewport.Viewport `json:"viewport"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Passes        int               `json:"passes"`
	LastOutcome   string            `json:"lastOutcome"`
	LastElapsedMs int64             `json:"lastElapsedMs"`
	Session       state.State       `json:"session"`
}

func (app *App) Status() StatusResponse {
	snap := app.Controller.Snapshot()
	w, h := app.Surface.Size()
	kind := ""
	if snap.Params.Kind != nil {
		kind = snap.Params.Kind.Name()
	}
	return StatusResponse{
		Status:        snap.Status.String(),
		Kind:          kind,
		Limit:         snap.Params.Limit,
		Overlay:       snap.Params.Overlay,
		Viewport:      snap.Viewport,
		Width:         w,
		Height:        h,
		Passes:        snap.Passes,
		LastOutcome:   snap.Last.Outcome.String(),
		LastElapsedMs: snap.Last.Elapsed.Milliseconds(),
		Session:       app.Store.Snapshot(),
	}
}
