// Package harness executes YAML-defined page-load scenarios against the
// engine and validates the resulting trace and document state.
//
// A scenario supplies the page markup, optional geometry and capability
// overrides, and a script of host events (ready, scroll, frames, pointer).
// The harness feeds the script through the engine synchronously, so two runs
// of the same scenario produce byte-identical traces. Golden files pin that
// guarantee down.
package harness
