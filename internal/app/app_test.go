package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/fractview/internal/config"
	"github.com/rook-computer/fractview/internal/input"
	"github.com/rook-computer/fractview/internal/render"
	"github.com/rook-computer/fractview/internal/state"
	"github.com/rook-computer/fractview/internal/surface"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 40, 30
	cfg.Iterations = 16
	cfg.Framebuffer = "none"
	cfg.NoInput = true
	cfg.SaveDir = t.TempDir()
	cfg.PollInterval = 5 * time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	a, err := New(cfg, NoopLogger{})
	require.NoError(t, err)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(a.Controller.Shutdown)
	return a
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Width = 2
	_, err := New(cfg, nil)
	var cfgErr *config.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	cfg = testConfig(t)
	cfg.Kind = "newton"
	_, err = New(cfg, nil)
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewMissingFramebufferIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Framebuffer = filepath.Join(t.TempDir(), "fb-does-not-exist")
	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, surface.ErrResourceUnavailable))
}

func TestHandleDispatch(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	ctrl := a.Controller

	require.True(t, ctrl.RequestRender())
	ctrl.Wait()

	assert.False(t, a.Handle(input.Event{Action: input.ToggleOverlay, Source: "test"}))
	ctrl.Wait()
	assert.True(t, ctrl.Snapshot().Params.Overlay)

	assert.False(t, a.Handle(input.Event{Action: input.MoreIterations}))
	ctrl.Wait()
	assert.Equal(t, 32, ctrl.Snapshot().Params.Limit)

	assert.False(t, a.Handle(input.Event{Action: input.FewerIterations}))
	ctrl.Wait()
	assert.Equal(t, 16, ctrl.Snapshot().Params.Limit)

	assert.False(t, a.Handle(input.Event{Action: input.CycleKind}))
	ctrl.Wait()
	assert.Equal(t, "julia", ctrl.Snapshot().Params.Kind.Name())

	before := ctrl.Snapshot().Viewport
	assert.False(t, a.Handle(input.Event{Action: input.ZoomIn, X: 20, Y: 15}))
	ctrl.Wait()
	assert.InDelta(t, before.Width()/2, ctrl.Snapshot().Viewport.Width(), 1e-12)

	assert.False(t, a.Handle(input.Event{Action: input.ResetView}))
	ctrl.Wait()
	assert.Equal(t, before, ctrl.Snapshot().Viewport)

	assert.False(t, a.Handle(input.Event{Action: input.Save}))
	saved := filepath.Join(a.Config.SaveDir, "fractal-1700000000.png")
	_, err := os.Stat(saved)
	require.NoError(t, err)

	snap := a.Store.Snapshot()
	assert.Equal(t, saved, snap.Save.LastPath)
	assert.Equal(t, 1, snap.Save.Count)
	assert.Equal(t, 7, snap.Input.Handled)
	assert.Equal(t, 0, snap.Input.Dropped)

	assert.True(t, a.Handle(input.Event{Action: input.Quit, Source: "test"}))
}

func TestHandleDropsWhileBusy(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	a.Controller.Status().Force(render.Running)

	assert.False(t, a.Handle(input.Event{Action: input.ToggleOverlay}))
	assert.False(t, a.Handle(input.Event{Action: input.Save}))
	assert.False(t, a.Handle(input.Event{Action: input.Recenter, X: 1, Y: 1}))

	snap := a.Store.Snapshot()
	assert.Equal(t, 3, snap.Input.Dropped)
	assert.Equal(t, 0, snap.Save.Count)
	assert.False(t, a.Controller.Snapshot().Params.Overlay)

	a.Controller.Status().Force(render.Idle)
}

type scriptedSource struct {
	events []input.Event
}

func (s scriptedSource) Run(ctx context.Context, out chan<- input.Event) error {
	for _, ev := range s.events {
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

type failingSource struct{ err error }

func (s failingSource) Run(context.Context, chan<- input.Event) error { return s.err }

func TestRunQuitsOnEvent(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	a.Sources = []Source{scriptedSource{events: []input.Event{
		{Action: input.ToggleOverlay, Source: "script"},
		{Action: input.Quit, Source: "script"},
	}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	assert.Equal(t, state.STOPPING, a.Store.Snapshot().Phase)
	assert.GreaterOrEqual(t, a.Controller.Snapshot().Passes, 1)
	assert.False(t, a.Controller.Busy())
	assert.Equal(t, "quit", a.Store.Snapshot().Input.LastAction)
}

func TestRunReturnsSourceError(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	boom := errors.New("device exploded")
	a.Sources = []Source{failingSource{err: boom}}

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, state.ERROR, a.Store.Snapshot().Phase)
}

func TestRunServesStatus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Listen = "127.0.0.1:0"
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return a.Store.Snapshot().Phase == state.VIEWING && a.Web.URL() != ""
	}, 5*time.Second, 5*time.Millisecond)
	url := a.Web.URL()
	assert.Equal(t, url, a.Store.Snapshot().Network.URL)

	require.Eventually(t, func() bool {
		snap := a.Controller.Snapshot()
		return snap.Passes >= 1 && snap.Status == render.Completed
	}, 5*time.Second, 5*time.Millisecond)
	res, err := http.Get(url + "api/v1/status")
	require.NoError(t, err)
	var body StatusResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	res.Body.Close()
	assert.Equal(t, "mandelbrot", body.Kind)
	assert.Equal(t, 16, body.Limit)
	assert.Equal(t, 40, body.Width)
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, "viewing", mustPhase(t, url))

	a.Offer(input.Event{Action: input.Quit, Source: "web"})
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	cancel()
}

func mustPhase(t *testing.T, url string) string {
	t.Helper()
	res, err := http.Get(url + "api/v1/status")
	require.NoError(t, err)
	defer res.Body.Close()
	var raw struct {
		Session struct {
			Phase string `json:"phase"`
		} `json:"session"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	return raw.Session.Phase
}

func TestDrawSplash(t *testing.T) {
	s, err := surface.New(200, 160)
	require.NoError(t, err)
	face, err := surface.LoadFace(surface.LabelPoints)
	require.NoError(t, err)
	defer face.Close()

	require.NoError(t, drawSplash(s, "http://10.0.0.2:8080/", face))

	dark := 0
	for y := 40; y < 120; y++ {
		for x := 50; x < 150; x++ {
			if s.At(x, y) == (color.RGBA{A: 0xFF}) {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 100, "QR modules drawn")
	assert.Equal(t, render.Background, s.At(2, 2))
	// The code is an 80px square centred in the surface.
	for y := 40; y < 120; y++ {
		for _, x := range []int{50, 59, 140, 149} {
			require.Equal(t, render.Background, s.At(x, y), "pixel %d,%d outside the code", x, y)
		}
	}
}

func TestFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("render", "pass %d", 3)
	l.Debugf("input", "drop")
	out := buf.String()
	assert.Contains(t, out, "[INFO] render: pass 3\n")
	assert.Contains(t, out, "[DEBUG] input: drop\n")
}

func TestConsoleLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, false, false)
	l.Debugf("render", "hidden")
	l.Errorf("web", "bind failed: %s", "busy")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "bind failed: busy")
	assert.Contains(t, out, "component=web")

	buf.Reset()
	NewConsoleLogger(&buf, true, false).Debugf("render", "shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	l := Tee(NewFileLogger(&a), NewFileLogger(&b))
	l.Errorf("app", "x")
	assert.Contains(t, a.String(), "[ERROR] app: x")
	assert.Contains(t, b.String(), "[ERROR] app: x")
}
