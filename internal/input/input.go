// Package input is the injected pointer/touch event source.
//
// Interactive effects subscribe to the bus instead of registering global
// listeners directly, so pointer reactions can be replayed deterministically
// by the harness. Dispatch runs on the engine's single event loop.
package input

import "github.com/pageforge/flourish/internal/dom"

// Kind is the pointer event kind.
type Kind int

const (
	// Move is a pointer move.
	Move Kind = iota + 1
	// Down is a press (mouse down / touch start).
	Down
	// Up is a release.
	Up
	// Click is a completed press-release on a target.
	Click
)

// Event is one pointer event. X/Y are page coordinates. Target is the
// element under the pointer (nil for document-level moves).
type Event struct {
	Kind   Kind
	X, Y   float64
	Target *dom.Element
}

// Handler consumes a pointer event.
type Handler func(Event)

// Bus fans pointer events out to subscribers in registration order.
type Bus struct {
	move  []Handler
	down  []Handler
	up    []Handler
	click []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnMove subscribes to pointer moves.
func (b *Bus) OnMove(h Handler) { b.move = append(b.move, h) }

// OnDown subscribes to presses.
func (b *Bus) OnDown(h Handler) { b.down = append(b.down, h) }

// OnUp subscribes to releases.
func (b *Bus) OnUp(h Handler) { b.up = append(b.up, h) }

// OnClick subscribes to clicks.
func (b *Bus) OnClick(h Handler) { b.click = append(b.click, h) }

// Dispatch delivers an event to its subscribers.
// Must be called from the engine loop only.
func (b *Bus) Dispatch(ev Event) {
	var hs []Handler
	switch ev.Kind {
	case Move:
		hs = b.move
	case Down:
		hs = b.down
	case Up:
		hs = b.up
	case Click:
		hs = b.click
	}
	for _, h := range hs {
		h(ev)
	}
}

// HandlerCount returns the total number of subscriptions. The low-power
// policy tests assert this stays at zero for skipped hover effects.
func (b *Bus) HandlerCount() int {
	return len(b.move) + len(b.down) + len(b.up) + len(b.click)
}
