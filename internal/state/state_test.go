package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()
	assert.Equal(t, BOOTING, store.Snapshot().Phase)

	store.SetPhase(VIEWING)
	store.UpdateNetwork(NetworkInfo{Listen: ":8080", URL: "http://10.0.0.2:8080/"})

	now := time.Unix(1700000000, 0)
	store.RecordInput("recenter", "evdev", now, false)
	store.RecordInput("toggle-overlay", "web", now, true)

	store.RecordSave("/tmp/fractal-1.png", nil)
	store.RecordSave("", errors.New("disk full"))

	snap := store.Snapshot()
	assert.Equal(t, VIEWING, snap.Phase)
	assert.Equal(t, "http://10.0.0.2:8080/", snap.Network.URL)
	assert.Equal(t, 1, snap.Input.Handled)
	assert.Equal(t, 1, snap.Input.Dropped)
	assert.Equal(t, "web", snap.Input.LastSource)
	assert.Equal(t, "/tmp/fractal-1.png", snap.Save.LastPath)
	assert.Equal(t, 1, snap.Save.Count)
	assert.Equal(t, "disk full", snap.Save.Err)

	store.Fail(errors.New("boom"))
	assert.Equal(t, ERROR, store.Snapshot().Phase)
	assert.Equal(t, "boom", store.Snapshot().Err)
}

func TestPhaseJSON(t *testing.T) {
	data, err := json.Marshal(State{Phase: STOPPING})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"stopping"`)
}
