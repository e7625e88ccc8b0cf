// Package input turns device and browser input into viewer actions.
package input

import "strings"

// Action is what the viewer should do in response to an input.
type Action int

const (
	None Action = iota
	Recenter
	ZoomIn
	ZoomOut
	ToggleOverlay
	Save
	CycleKind
	MoreIterations
	FewerIterations
	ResetView
	Quit
)

var actionNames = map[Action]string{
	None:            "none",
	Recenter:        "recenter",
	ZoomIn:          "zoom-in",
	ZoomOut:         "zoom-out",
	ToggleOverlay:   "toggle-overlay",
	Save:            "save",
	CycleKind:       "cycle-kind",
	MoreIterations:  "more-iterations",
	FewerIterations: "fewer-iterations",
	ResetView:       "reset-view",
	Quit:            "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Event is one input. X and Y are surface pixel coordinates for the
// pointer actions and zero otherwise.
type Event struct {
	Action Action
	X, Y   int
	Source string
}

// Pointer reports whether the event carries a position.
func (e Event) Pointer() bool {
	return e.Action == Recenter || e.Action == ZoomIn || e.Action == ZoomOut
}

// ZoomFactor is the extent multiplier for pointer actions.
func (e Event) ZoomFactor() float64 {
	switch e.Action {
	case ZoomIn:
		return 0.5
	case ZoomOut:
		return 2
	default:
		return 1
	}
}

// keymap binds key names to actions. Names are lower case.
var keymap = map[string]Action{
	"m":      ToggleOverlay,
	"s":      Save,
	"k":      CycleKind,
	"+":      MoreIterations,
	"=":      MoreIterations,
	"-":      FewerIterations,
	"r":      ResetView,
	"q":      Quit,
	"escape": Quit,
	"f4":     Quit,
}

// ActionForKey looks up the binding for a key name.
func ActionForKey(name string) Action {
	return keymap[strings.ToLower(name)]
}
