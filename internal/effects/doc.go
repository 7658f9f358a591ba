// Package effects implements the fixed effect catalog.
//
// Each effect is an independent handler consuming a resolved configuration
// and producing a one-shot transition, a scroll-coupled transition, a
// continuous behavior, or an interactive behavior. The catalog is closed:
// effect ids are declared as constants, dispatch is an explicit table, and
// unknown ids degrade to "reveal, no animation".
//
// Handlers never tear down. An element removed from the document after its
// directive registered keeps its listeners and loops; generated pages live
// for a single navigation, so disposal is deliberately not implemented.
package effects
