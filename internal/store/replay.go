package store

import (
	"context"
	"fmt"

	"github.com/pageforge/flourish/internal/trace"
)

// Divergence describes the first point where a replayed trace differs from
// the stored one.
type Divergence struct {
	Index  int
	Stored *trace.Event // nil if the replay produced extra events
	Live   *trace.Event // nil if the replay produced fewer events
	Reason string
}

// ReplayReport is the result of verifying a replay against a stored run.
type ReplayReport struct {
	Token      string
	Stored     int
	Replayed   int
	Match      bool
	Divergence *Divergence
}

// Verify compares a freshly produced trace against the stored trace for a
// run. The engine's determinism guarantee says they must be identical
// event-for-event; any divergence is a bug, and the report pinpoints the
// first one.
func (s *Store) Verify(ctx context.Context, token string, live []trace.Event) (*ReplayReport, error) {
	stored, err := s.ReadTrace(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify replay: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("verify replay: no stored trace for run %s", token)
	}

	report := &ReplayReport{
		Token:    token,
		Stored:   len(stored),
		Replayed: len(live),
	}

	n := len(stored)
	if len(live) < n {
		n = len(live)
	}
	for i := 0; i < n; i++ {
		if reason := diffEvent(stored[i], live[i]); reason != "" {
			report.Divergence = &Divergence{
				Index:  i,
				Stored: &stored[i],
				Live:   &live[i],
				Reason: reason,
			}
			return report, nil
		}
	}

	if len(stored) != len(live) {
		d := &Divergence{Index: n, Reason: "trace length mismatch"}
		if len(stored) > n {
			d.Stored = &stored[n]
		}
		if len(live) > n {
			d.Live = &live[n]
		}
		report.Divergence = d
		return report, nil
	}

	report.Match = true
	return report, nil
}

func diffEvent(a, b trace.Event) string {
	switch {
	case a.Seq != b.Seq:
		return fmt.Sprintf("seq %d != %d", a.Seq, b.Seq)
	case a.Kind != b.Kind:
		return fmt.Sprintf("kind %q != %q", a.Kind, b.Kind)
	case a.Effect != b.Effect:
		return fmt.Sprintf("effect %q != %q", a.Effect, b.Effect)
	case a.Target != b.Target:
		return fmt.Sprintf("target %q != %q", a.Target, b.Target)
	case a.Detail != b.Detail:
		return fmt.Sprintf("detail %q != %q", a.Detail, b.Detail)
	}
	return ""
}
