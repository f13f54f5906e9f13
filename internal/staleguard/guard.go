// Package staleguard provides a generation-counter cancellation token for
// asynchronous fetches. Each trigger of the same logical input (an address
// change, a manual refresh, a poll tick) allocates a fresh token; results of
// fetches superseded by a newer trigger are discarded before they can touch
// visible state. Superseded results are expected, not failures.
package staleguard

import "sync/atomic"

// Guard tracks the newest generation for one logical input. The zero value
// is ready to use.
type Guard struct {
	generation atomic.Uint64
	closed     atomic.Bool
}

// Token identifies one triggered fetch. The associated asynchronous chain
// must check Valid immediately before every visible-state mutation.
type Token struct {
	guard      *Guard
	generation uint64
}

// Next supersedes all outstanding tokens and returns a fresh one.
func (g *Guard) Next() *Token {
	gen := g.generation.Add(1)
	return &Token{guard: g, generation: gen}
}

// Close invalidates every outstanding token. Used on teardown of the owning
// scope so that late results cannot mutate a disposed context.
func (g *Guard) Close() {
	g.closed.Store(true)
}

// Valid reports whether the token still represents the newest trigger and
// the owning guard has not been closed.
func (t *Token) Valid() bool {
	if t == nil || t.guard == nil {
		return false
	}
	if t.guard.closed.Load() {
		return false
	}
	return t.guard.generation.Load() == t.generation
}
