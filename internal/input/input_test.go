package input

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionForKey(t *testing.T) {
	cases := map[string]Action{
		"m":      ToggleOverlay,
		"M":      ToggleOverlay,
		"s":      Save,
		"k":      CycleKind,
		"+":      MoreIterations,
		"-":      FewerIterations,
		"r":      ResetView,
		"q":      Quit,
		"Escape": Quit,
		"F4":     Quit,
		"x":      None,
	}
	for key, want := range cases {
		assert.Equal(t, want, ActionForKey(key), key)
	}
}

func TestZoomFactor(t *testing.T) {
	assert.Equal(t, 1.0, Event{Action: Recenter}.ZoomFactor())
	assert.Equal(t, 0.5, Event{Action: ZoomIn}.ZoomFactor())
	assert.Equal(t, 2.0, Event{Action: ZoomOut}.ZoomFactor())
	assert.True(t, Event{Action: ZoomOut}.Pointer())
	assert.False(t, Event{Action: Save}.Pointer())
}

func TestFromBrowser(t *testing.T) {
	ev, ok := FromBrowser(BrowserMessage{Type: "click", X: 12.7, Y: 30})
	require.True(t, ok)
	assert.Equal(t, Event{Action: Recenter, X: 12, Y: 30, Source: "web"}, ev)

	ev, ok = FromBrowser(BrowserMessage{Type: "wheel", X: 1, Y: 2, Delta: -100})
	require.True(t, ok)
	assert.Equal(t, ZoomIn, ev.Action)

	ev, ok = FromBrowser(BrowserMessage{Type: "wheel", Delta: 3})
	require.True(t, ok)
	assert.Equal(t, ZoomOut, ev.Action)

	_, ok = FromBrowser(BrowserMessage{Type: "wheel"})
	assert.False(t, ok)

	ev, ok = FromBrowser(BrowserMessage{Type: "key", Key: "m", X: 5})
	require.True(t, ok)
	assert.Equal(t, Event{Action: ToggleOverlay, Source: "web"}, ev)

	_, ok = FromBrowser(BrowserMessage{Type: "key", Key: "z"})
	assert.False(t, ok)

	_, ok = FromBrowser(BrowserMessage{Type: "bogus"})
	assert.False(t, ok)
}

func record(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestEachEvent(t *testing.T) {
	const tv = 16
	var buf []byte
	buf = append(buf, record(tv, evRel, relX, -3)...)
	buf = append(buf, record(tv, evKey, 62, 1)...)
	buf = append(buf, 0xff, 0xff) // trailing partial record

	type rec struct {
		typ, code uint16
		value     int32
	}
	var got []rec
	eachEvent(buf, tv, func(typ, code uint16, value int32) {
		got = append(got, rec{typ, code, value})
	})
	assert.Equal(t, []rec{{evRel, relX, -3}, {evKey, 62, 1}}, got)
}

func TestPointerDecode(t *testing.T) {
	p := newPointer(100, 50)

	_, ok := p.decode(evRel, relX, 30)
	assert.False(t, ok)
	_, ok = p.decode(evRel, relY, -1000)
	assert.False(t, ok)

	ev, ok := p.decode(evKey, btnLeft, 1)
	require.True(t, ok)
	assert.Equal(t, Event{Action: Recenter, X: 80, Y: 0, Source: "evdev"}, ev)

	_, ok = p.decode(evKey, btnLeft, 0)
	assert.False(t, ok, "release is ignored")

	_, _ = p.decode(evRel, relX, 1000)
	ev, ok = p.decode(evRel, relWheel, 1)
	require.True(t, ok)
	assert.Equal(t, Event{Action: ZoomIn, X: 99, Y: 0, Source: "evdev"}, ev)

	ev, ok = p.decode(evRel, relWheel, -1)
	require.True(t, ok)
	assert.Equal(t, ZoomOut, ev.Action)

	ev, ok = p.decode(evKey, 50, 1)
	require.True(t, ok)
	assert.Equal(t, ToggleOverlay, ev.Action)

	ev, ok = p.decode(evKey, 1, 1)
	require.True(t, ok)
	assert.Equal(t, Quit, ev.Action)

	_, ok = p.decode(evKey, 50, 2)
	assert.False(t, ok, "autorepeat is ignored")

	_, ok = p.decode(evKey, 30, 1)
	assert.False(t, ok, "unbound key")
}
