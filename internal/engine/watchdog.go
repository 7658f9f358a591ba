package engine

// State is the fallback manager's lifecycle state.
type State int

const (
	// StateInitializing is the state between document-ready and the end
	// of directive registration. The watchdog is armed here.
	StateInitializing State = iota + 1
	// StateRunning means setup completed before the watchdog fired.
	// Elements still invisible now belong to their effects; the watchdog
	// never touches them.
	StateRunning
	// StateForceRevealed means some failure path fired: primitives
	// missing, embedded context, reduced motion, a setup panic, or the
	// watchdog timeout. All marked content is plainly visible.
	StateForceRevealed
)

// String implements fmt.Stringer for trace details.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateForceRevealed:
		return "force_revealed"
	default:
		return "unknown"
	}
}

// WatchdogTimeout is the fixed initialization window in logical seconds.
// If setup has not observably completed when it elapses, every
// still-hidden marked element is forced to full visibility regardless of
// which effect owned it.
const WatchdogTimeout = 4.0

// watchdog arms when the engine is created and fires at most once.
type watchdog struct {
	deadline float64
	armed    bool
	fired    bool
}

// arm sets the deadline relative to the current logical elapsed time.
func (w *watchdog) arm(now float64) {
	w.deadline = now + WatchdogTimeout
	w.armed = true
}

// disarm is called when Running is reached; a disarmed watchdog never
// fires.
func (w *watchdog) disarm() {
	w.armed = false
}

// expired reports whether the watchdog should fire now.
func (w *watchdog) expired(now float64) bool {
	return w.armed && !w.fired && now >= w.deadline
}

// markFired latches the watchdog so it fires exactly once.
func (w *watchdog) markFired() {
	w.fired = true
	w.armed = false
}
