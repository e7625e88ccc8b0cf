package render

import "sync/atomic"

// Token is a one-shot cancellation flag polled by a render pass. A child
// token is dead when it or any ancestor has been cancelled. Cancellation is
// never undone.
type Token struct {
	parent *Token
	dead   atomic.Bool
}

// NewToken returns a live root token.
func NewToken() *Token { return &Token{} }

// Child derives a token that can be cancelled without affecting t.
func (t *Token) Child() *Token { return &Token{parent: t} }

// Cancel marks the token dead. It reports whether this call did it.
func (t *Token) Cancel() bool { return t.dead.CompareAndSwap(false, true) }

// Alive reports whether neither t nor any ancestor has been cancelled.
func (t *Token) Alive() bool {
	for tok := t; tok != nil; tok = tok.parent {
		if tok.dead.Load() {
			return false
		}
	}
	return true
}
