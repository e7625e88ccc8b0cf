package input

import (
	"encoding/binary"
	"sync"
)

// Linux input-event-codes.h
const (
	evKey = 0x01
	evRel = 0x02

	relX     = 0x00
	relY     = 0x01
	relWheel = 0x08

	btnLeft = 0x110
)

var evdevKeys = map[uint16]string{
	1:  "escape",
	12: "-",
	13: "=",
	16: "q",
	19: "r",
	31: "s",
	37: "k",
	50: "m",
	62: "f4",
	74: "-",
	78: "+",
}

// eachEvent walks buf as a sequence of input_event records, where tvSize is
// the size of the leading struct timeval.
func eachEvent(buf []byte, tvSize int, fn func(typ, code uint16, value int32)) {
	eventSize := tvSize + 2 + 2 + 4
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		fn(typ, code, value)
	}
}

// pointer tracks a cursor driven by relative mouse motion, clamped to a
// width x height surface. It is shared by all devices.
type pointer struct {
	mu            sync.Mutex
	x, y          int
	width, height int
}

func newPointer(width, height int) *pointer {
	return &pointer{x: width / 2, y: height / 2, width: width, height: height}
}

// decode turns one evdev record into an event.
func (p *pointer) decode(typ, code uint16, value int32) (Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch typ {
	case evRel:
		switch code {
		case relX:
			p.x = clamp(p.x+int(value), 0, p.width-1)
		case relY:
			p.y = clamp(p.y+int(value), 0, p.height-1)
		case relWheel:
			if value > 0 {
				return Event{Action: ZoomIn, X: p.x, Y: p.y, Source: "evdev"}, true
			}
			if value < 0 {
				return Event{Action: ZoomOut, X: p.x, Y: p.y, Source: "evdev"}, true
			}
		}
	case evKey:
		// value 1 is press; ignore release (0) and autorepeat (2)
		if value != 1 {
			return Event{}, false
		}
		if code == btnLeft {
			return Event{Action: Recenter, X: p.x, Y: p.y, Source: "evdev"}, true
		}
		if name, ok := evdevKeys[code]; ok {
			if action := ActionForKey(name); action != None {
				return Event{Action: action, Source: "evdev"}, true
			}
		}
	}
	return Event{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
