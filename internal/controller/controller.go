// Package controller owns the viewport and render parameters and runs at
// most one render pass at a time in the background.
package controller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rook-computer/fractview/internal/fractal"
	"github.com/rook-computer/fractview/internal/render"
	"github.com/rook-computer/fractview/internal/surface"
	"github.com/rook-computer/fractview/internal/viewport"
)

var (
	// ErrBusy is returned for mutating requests while a pass is in flight.
	ErrBusy = errors.New("render in progress")
	// ErrShutdown is returned once Shutdown has been called.
	ErrShutdown = errors.New("controller shut down")
)

// Limits for ScaleLimit.
const (
	MinLimit = 1
	MaxLimit = 1 << 16
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Snapshot is a consistent read of the controller state.
type Snapshot struct {
	Viewport viewport.Viewport
	Params   render.Params
	Status   render.Status
	Last     render.Result
	Passes   int
}

// Options configure a Controller.
type Options struct {
	Viewport viewport.Viewport
	Params   render.Params
	Renderer *render.Renderer
	Logger   logger
	// Preempt lets a mutating request cancel the pass in flight instead of
	// being rejected with ErrBusy.
	Preempt bool
	// OnPassDone is called from the render goroutine after every pass.
	OnPassDone func(render.Result)
}

// Controller is the only writer of the viewport and parameters. Writes
// happen only while no pass is running, so the pass reads its copy without
// locking.
type Controller struct {
	surface  *surface.Surface
	renderer *render.Renderer
	logger   logger
	preempt  bool
	onDone   func(render.Result)

	alive  *render.Token
	status render.StatusHandle

	// mu serialises callers of the controller; the render goroutine never
	// takes it.
	mu       sync.Mutex
	vp       viewport.Viewport
	initial  viewport.Viewport
	params   render.Params
	kinds    *fractal.Cycle
	passTok  *render.Token
	done     chan struct{}
	passes   int
	shutdown bool

	lastMu sync.Mutex
	last   render.Result
}

// New validates the options and returns an idle controller.
func New(s *surface.Surface, opts Options) (*Controller, error) {
	if s == nil {
		return nil, errors.New("controller needs a surface")
	}
	if err := opts.Viewport.Validate(); err != nil {
		return nil, err
	}
	if opts.Params.Limit < MinLimit {
		return nil, fmt.Errorf("iteration limit %d must be at least %d", opts.Params.Limit, MinLimit)
	}
	if opts.Params.Kind == nil {
		opts.Params.Kind = fractal.Mandelbrot{}
	}
	r := opts.Renderer
	if r == nil {
		r = &render.Renderer{Logger: opts.Logger}
	}
	return &Controller{
		surface:  s,
		renderer: r,
		logger:   opts.Logger,
		preempt:  opts.Preempt,
		onDone:   opts.OnPassDone,
		alive:    render.NewToken(),
		vp:       opts.Viewport,
		initial:  opts.Viewport,
		params:   opts.Params,
		kinds:    fractal.NewCycle(opts.Params.Kind),
	}, nil
}

// Status returns the handle observed by the input loop and the web API.
func (c *Controller) Status() *render.StatusHandle { return &c.status }

// Busy reports whether a pass is in flight.
func (c *Controller) Busy() bool { return c.status.Busy() }

// RequestRender spawns a pass unless one is already in flight or the
// controller is shut down. It reports whether a pass was started.
func (c *Controller) RequestRender() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestLocked()
}

func (c *Controller) requestLocked() bool {
	if c.shutdown || !c.alive.Alive() {
		return false
	}
	if !c.status.Begin() {
		return false
	}
	// The slot may still hold a finished pass; join it before reuse.
	c.joinLocked()

	tok := c.alive.Child()
	done := make(chan struct{})
	c.passTok, c.done = tok, done
	c.passes++
	pass := render.Pass{
		Surface:  c.surface,
		Viewport: c.vp,
		Params:   c.params,
		Token:    tok,
		Status:   &c.status,
	}
	if c.logger != nil {
		c.logger.Infof("controller", "pass %d: %s %s limit=%d overlay=%t", c.passes, pass.Params.Kind.Name(), pass.Viewport, pass.Params.Limit, pass.Params.Overlay)
	}
	go func() {
		defer close(done)
		res := c.renderer.Render(pass)
		if c.logger != nil {
			c.logger.Infof("controller", "pass %s: %d px in %s", res.Outcome, res.Pixels, res.Elapsed.Round(time.Millisecond))
		}
		if c.onDone != nil {
			c.onDone(res)
		}
		c.setLast(res)
	}()
	return true
}

func (c *Controller) setLast(res render.Result) {
	c.lastMu.Lock()
	c.last = res
	c.lastMu.Unlock()
}

// joinLocked waits for the pass in the slot, if any, and clears the slot.
func (c *Controller) joinLocked() {
	if c.done != nil {
		<-c.done
	}
	c.done, c.passTok = nil, nil
}

// mutate runs fn against the parameters while no pass is running, then
// requests a new pass. In preempt mode a running pass is cancelled and
// joined first.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return ErrShutdown
	}
	if c.status.Busy() {
		if !c.preempt {
			return ErrBusy
		}
		if c.passTok != nil {
			c.passTok.Cancel()
		}
		c.joinLocked()
	}
	if err := fn(); err != nil {
		return err
	}
	c.requestLocked()
	return nil
}

// UpdateViewportFromClick recenters on pixel (px, py) and scales the
// extents by factor, then requests a pass.
func (c *Controller) UpdateViewportFromClick(px, py int, factor float64) error {
	return c.mutate(func() error {
		w, h := c.surface.Size()
		next, err := viewport.Mapper{Width: w, Height: h}.Recenter(c.vp, px, py, factor)
		if err != nil {
			return err
		}
		c.vp = next
		return nil
	})
}

// ToggleOverlay flips the measurement overlay and requests a pass.
func (c *Controller) ToggleOverlay() error {
	return c.mutate(func() error {
		c.params.Overlay = !c.params.Overlay
		return nil
	})
}

// CycleKind switches to the next fractal family. A full lap restores the
// configured kind with its parameters.
func (c *Controller) CycleKind() error {
	return c.mutate(func() error {
		c.params.Kind = c.kinds.Next()
		return nil
	})
}

// ScaleLimit multiplies the iteration limit by factor, clamped to
// [MinLimit, MaxLimit].
func (c *Controller) ScaleLimit(factor float64) error {
	return c.mutate(func() error {
		next := int(float64(c.params.Limit) * factor)
		next = min(max(next, MinLimit), MaxLimit)
		if next == c.params.Limit {
			return fmt.Errorf("iteration limit already %d", next)
		}
		c.params.Limit = next
		return nil
	})
}

// ResetViewport returns to the viewport the controller started with.
func (c *Controller) ResetViewport() error {
	return c.mutate(func() error {
		c.vp = c.initial
		return nil
	})
}

// SetViewport replaces the viewport, e.g. with a named preset.
func (c *Controller) SetViewport(v viewport.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return c.mutate(func() error {
		c.vp = v
		return nil
	})
}

// Save writes the current frame to path. Only allowed while idle.
func (c *Controller) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Busy() {
		return ErrBusy
	}
	c.joinLocked()
	return c.surface.SavePNG(path)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{Viewport: c.vp, Params: c.params, Passes: c.passes}
	c.mu.Unlock()
	c.lastMu.Lock()
	snap.Last = c.last
	c.lastMu.Unlock()
	snap.Status = c.status.Load()
	return snap
}

// Shutdown clears the liveness token so an in-flight pass cancels itself,
// then waits for it. Further requests are refused. Safe to call twice.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.shutdown {
		c.shutdown = true
		c.alive.Cancel()
		if c.logger != nil {
			c.logger.Infof("controller", "shutdown requested")
		}
	}
	c.joinLocked()
}

// Wait blocks until the pass in flight, if any, has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}
