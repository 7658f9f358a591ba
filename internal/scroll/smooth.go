package scroll

import "math"

// Smooth is the optional smooth-scroll layer. It virtualizes native
// scrolling: scroll intents become a target position, and each frame the
// virtual position eases toward the target and explicitly resyncs the
// coordinator. While Smooth is active the coordinator must not receive
// native Scroll events.
//
// The engine disables this layer entirely when embedded - nested scroll
// virtualization inside a sandboxed preview is unreliable.
type Smooth struct {
	coord *Coordinator

	current float64
	target  float64
	// lerp is the per-second exponential approach factor.
	lerp float64
}

// DefaultLerp matches the original runtime's smoothing factor.
const DefaultLerp = 8.0

// NewSmooth wraps a coordinator. lerp <= 0 selects DefaultLerp.
func NewSmooth(c *Coordinator, lerp float64) *Smooth {
	if lerp <= 0 {
		lerp = DefaultLerp
	}
	return &Smooth{coord: c, lerp: lerp}
}

// Intent records a native scroll intent (wheel, key, touch) as the new
// target position. The coordinator is not updated until the next Tick.
func (s *Smooth) Intent(pos float64) {
	if pos < 0 {
		pos = 0
	}
	s.target = pos
}

// Tick advances the virtual position by dt seconds and resyncs the
// coordinator. Snap distance avoids asymptotic crawl near the target.
func (s *Smooth) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	delta := s.target - s.current
	if math.Abs(delta) < 0.5 {
		s.current = s.target
	} else {
		s.current += delta * math.Min(1, s.lerp*dt)
	}
	s.coord.Resync(s.current)
}

// Pos returns the current virtual position.
func (s *Smooth) Pos() float64 { return s.current }
