package display

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

// LiveView keeps the latest presented frame for remote viewers and wakes
// subscribers when it changes. Frames are PNG-encoded lazily, at most once
// per frame, and only when someone asks for them.
type LiveView struct {
	mu      sync.Mutex
	frame   *image.RGBA
	seq     uint64
	encoded []byte
	encSeq  uint64
	subs    map[chan struct{}]struct{}
}

func NewLiveView() *LiveView {
	return &LiveView{subs: make(map[chan struct{}]struct{})}
}

func (v *LiveView) Show(frame *image.RGBA) error {
	v.mu.Lock()
	v.frame = frame
	v.seq++
	for ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	v.mu.Unlock()
	return nil
}

// Subscribe returns a channel that receives a wake-up after each new frame.
// Wake-ups coalesce; call the returned func to unsubscribe.
func (v *LiveView) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	v.mu.Lock()
	v.subs[ch] = struct{}{}
	if v.frame != nil {
		ch <- struct{}{}
	}
	v.mu.Unlock()
	return ch, func() {
		v.mu.Lock()
		delete(v.subs, ch)
		v.mu.Unlock()
	}
}

// Subscribers returns the number of active subscriptions.
func (v *LiveView) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// PNG returns the latest frame encoded as PNG and its sequence number.
// ok is false before the first frame.
func (v *LiveView) PNG() (data []byte, seq uint64, ok bool, err error) {
	v.mu.Lock()
	frame, seq := v.frame, v.seq
	if frame != nil && v.encSeq == seq && v.encoded != nil {
		data = v.encoded
		v.mu.Unlock()
		return data, seq, true, nil
	}
	v.mu.Unlock()
	if frame == nil {
		return nil, 0, false, nil
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, frame); err != nil {
		return nil, seq, false, err
	}
	data = buf.Bytes()

	v.mu.Lock()
	if seq >= v.encSeq {
		v.encoded, v.encSeq = data, seq
	}
	v.mu.Unlock()
	return data, seq, true, nil
}
