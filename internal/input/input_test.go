package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DispatchRoutesByKind(t *testing.T) {
	b := NewBus()

	var got []string
	b.OnMove(func(Event) { got = append(got, "move") })
	b.OnDown(func(Event) { got = append(got, "down") })
	b.OnUp(func(Event) { got = append(got, "up") })
	b.OnClick(func(Event) { got = append(got, "click") })

	b.Dispatch(Event{Kind: Click})
	b.Dispatch(Event{Kind: Move})
	assert.Equal(t, []string{"click", "move"}, got)
}

func TestBus_RegistrationOrder(t *testing.T) {
	b := NewBus()

	var got []int
	b.OnMove(func(Event) { got = append(got, 1) })
	b.OnMove(func(Event) { got = append(got, 2) })
	b.OnMove(func(Event) { got = append(got, 3) })

	b.Dispatch(Event{Kind: Move, X: 10, Y: 20})
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestBus_EventPayloadDelivered(t *testing.T) {
	b := NewBus()

	var got Event
	b.OnClick(func(ev Event) { got = ev })

	b.Dispatch(Event{Kind: Click, X: 120, Y: 340})
	assert.Equal(t, 120.0, got.X)
	assert.Equal(t, 340.0, got.Y)
}

func TestBus_HandlerCount(t *testing.T) {
	b := NewBus()
	assert.Equal(t, 0, b.HandlerCount())

	b.OnMove(func(Event) {})
	b.OnClick(func(Event) {})
	assert.Equal(t, 2, b.HandlerCount())
}

func TestBus_DispatchWithNoSubscribers(t *testing.T) {
	b := NewBus()
	// Must be a no-op, not a panic.
	b.Dispatch(Event{Kind: Down, X: 1, Y: 2})
}
