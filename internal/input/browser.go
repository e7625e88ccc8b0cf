package input

// BrowserMessage is an input event sent by the live-view page.
type BrowserMessage struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
	Key   string  `json:"key"`
}

// FromBrowser converts a live-view message. Coordinates are already in
// surface pixels; "close" maps to Quit.
func FromBrowser(msg BrowserMessage) (Event, bool) {
	ev := Event{X: int(msg.X), Y: int(msg.Y), Source: "web"}
	switch msg.Type {
	case "click":
		ev.Action = Recenter
	case "wheel":
		switch {
		case msg.Delta < 0:
			ev.Action = ZoomIn
		case msg.Delta > 0:
			ev.Action = ZoomOut
		default:
			return Event{}, false
		}
	case "key":
		ev = Event{Action: ActionForKey(msg.Key), Source: "web"}
	case "close":
		ev = Event{Action: Quit, Source: "web"}
	default:
		return Event{}, false
	}
	if ev.Action == None {
		return Event{}, false
	}
	return ev, true
}
