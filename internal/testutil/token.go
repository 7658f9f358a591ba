package testutil

// FixedTokenGenerator returns the same run token every time.
//
// This enables deterministic CLI and harness runs: the same scenario with
// the same FixedTokenGenerator produces byte-identical persisted traces.
// Production code uses store.NewRunToken (a fresh UUID per run).
//
// Thread-safety: stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed run token generator.
// If token is empty, Generate() returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
