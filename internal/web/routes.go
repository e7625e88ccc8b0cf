package web

import (
	"net/http"
	"path/filepath"

	"github.com/rook-computer/fractview/internal/assets"
	"github.com/rook-computer/fractview/internal/input"
)

// FrameSource is the live view as seen by the web layer.
type FrameSource interface {
	Subscribe() (<-chan struct{}, func())
	PNG() ([]byte, uint64, bool, error)
}

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Deps are the hooks the routes call into.
type Deps struct {
	Frames FrameSource
	// Status returns a JSON-encodable snapshot of the viewer.
	Status func() any
	// Input receives browser events; it must not block.
	Input  func(input.Event)
	Logger logger
	// DevMode allows cross-origin websocket upgrades.
	DevMode bool
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, deps Deps) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(deps)))
}

// RegisterUI serves the embedded live-view page.
func RegisterUI(mux *http.ServeMux) {
	mux.Handle("/", StaticUIHandler())
}

// NewDefaultMux builds the standard mux:
// - /api/v1/* for the API
// - /ws for the live-view websocket
// - / for the web UI
func NewDefaultMux(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, deps)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { handleLiveView(w, r, deps) })
	RegisterUI(mux)
	return mux
}

func StaticUIHandler() http.Handler {
	fileServer := http.FileServer(http.FS(assets.WebUI))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid oddities.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
