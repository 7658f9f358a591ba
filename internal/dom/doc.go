// Package dom provides the element tree the animation engine operates on.
//
// The engine never talks to a real browser. Generated pages are ingested
// into this lightweight tree (see ParseHTML), and every mutation the engine
// performs goes through the same narrow surface the original runtime uses:
// inline styles, classes, text content, and handler-owned helper children.
//
// Geometry is deliberately not part of the tree. Element positions come
// from a Layout implementation injected by the host (or a test), so
// viewport math stays deterministic and replayable.
package dom
