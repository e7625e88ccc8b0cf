package state

import (
	"sync"
	"time"
)

type Phase int

const (
	BOOTING Phase = iota
	VIEWING
	STOPPING
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case VIEWING:
		return "viewing"
	case STOPPING:
		return "stopping"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets the phase appear by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type NetworkInfo struct {
	Listen string `json:"listen"`
	URL    string `json:"url"`
}

type InputInfo struct {
	LastAction string    `json:"lastAction"`
	LastSource string    `json:"lastSource"`
	LastAt     time.Time `json:"lastAt"`
	Handled    int       `json:"handled"`
	Dropped    int       `json:"dropped"`
}

type SaveInfo struct {
	LastPath string `json:"lastPath"`
	Count    int    `json:"count"`
	Err      string `json:"err,omitempty"`
}

type State struct {
	Phase   Phase       `json:"phase"`
	Network NetworkInfo `json:"network"`
	Input   InputInfo   `json:"input"`
	Save    SaveInfo    `json:"save"`
	Err     string      `json:"err,omitempty"`
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}

// RecordInput counts an input event. dropped means the controller refused it.
func (store *Store) RecordInput(action, source string, at time.Time, dropped bool) {
	store.mu.Lock()
	in := &store.state.Input
	in.LastAction = action
	in.LastSource = source
	in.LastAt = at
	if dropped {
		in.Dropped++
	} else {
		in.Handled++
	}
	store.mu.Unlock()
}

func (store *Store) RecordSave(path string, err error) {
	store.mu.Lock()
	if err != nil {
		store.state.Save.Err = err.Error()
	} else {
		store.state.Save.LastPath = path
		store.state.Save.Count++
		store.state.Save.Err = ""
	}
	store.mu.Unlock()
}
