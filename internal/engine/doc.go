// Package engine implements the Flourish animation directive engine.
//
// The engine is injected around a generated document: it probes the host,
// scans for effect markers, resolves per-element configuration, registers
// effect handlers, and defends itself against a hostile environment -
// missing primitives, sandboxed previews, reduced-motion preferences,
// low-power devices, stalled initialization.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// All host events (scroll, pointer, frame) are processed in a single
// goroutine. This ensures:
// - Predictable handler evaluation order
// - Reproducible traces on replay
// - Simple reasoning about visual state
//
// Event Processing Flow:
// 1. Host events enqueued to FIFO queue (Ready, Scroll, Pointer, Frame)
// 2. Engine.Run() dequeues events one at a time
// 3. Step() routes to the setup path or the reactive handlers
// 4. Scrub callbacks re-derive state from live position (never integrate)
// 5. Frame events advance logical time, tick tweens, and check the watchdog
//
// The engine is designed for correctness and determinism, not throughput.
// Scroll and pointer handlers are cheap by construction: scrubbed values
// are pure functions of current position, safe at any event frequency.
//
// Failure model: every failure path converges on "show the content
// plainly". Missing primitives, a denied same-origin probe, a panic during
// registration, or a watchdog timeout all force still-hidden marked
// elements to full visibility. Nothing here is fatal to the hosting page.
//
// Logical time: a monotonic clock stamps every trace event with a seq
// counter and accumulates elapsed seconds from frame events. Wall time is
// never consulted.
package engine
