package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/rook-computer/fractview/internal/input"
)

const frameWriteTimeout = 5 * time.Second

// handleLiveView streams presented frames as binary PNG messages and feeds
// JSON input messages from the page back to the viewer.
func handleLiveView(w http.ResponseWriter, r *http.Request, deps Deps) {
	if deps.Frames == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "live view not configured")
		return
	}
	opts := &websocket.AcceptOptions{}
	if deps.DevMode {
		opts.OriginPatterns = []string{"*"}
	}
	c, err := websocket.Accept(w, r, opts)
	if err != nil {
		logf(deps, "websocket accept: %v", err)
		return
	}
	defer func() {
		_ = c.CloseNow()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			var msg input.BrowserMessage
			if err := wsjson.Read(ctx, c, &msg); err != nil {
				return
			}
			ev, ok := input.FromBrowser(msg)
			if ok && deps.Input != nil {
				deps.Input(ev)
			}
		}
	}()

	frames, unsubscribe := deps.Frames.Subscribe()
	defer unsubscribe()

	var sent uint64
	for {
		select {
		case <-ctx.Done():
			_ = c.Close(websocket.StatusNormalClosure, "")
			return
		case <-frames:
		}
		data, seq, ok, err := deps.Frames.PNG()
		if err != nil {
			logf(deps, "encode frame: %v", err)
			continue
		}
		if !ok || seq == sent {
			continue
		}
		wctx, wcancel := context.WithTimeout(ctx, frameWriteTimeout)
		err = c.Write(wctx, websocket.MessageBinary, data)
		wcancel()
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logf(deps, "write frame: %v", err)
			}
			return
		}
		sent = seq
	}
}

func logf(deps Deps, format string, args ...interface{}) {
	if deps.Logger != nil {
		deps.Logger.Errorf("web", format, args...)
	}
}
