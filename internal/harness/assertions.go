package harness

import (
	"fmt"
	"strings"

	"github.com/pageforge/flourish/internal/trace"
)

// CheckAssertions validates every assertion in the scenario against the
// result. All failures are collected (no fail-fast) so a broken scenario
// reports everything at once.
func CheckAssertions(res *Result) []error {
	var errs []error
	for i, a := range res.Scenario.Assertions {
		if err := checkOne(res, &a); err != nil {
			errs = append(errs, fmt.Errorf("assertions[%d] (%s): %w", i, a.Type, err))
		}
	}
	return errs
}

func checkOne(res *Result, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return checkContains(res.Trace, a)
	case AssertTraceOrder:
		return checkOrder(res.Trace, a)
	case AssertTraceCount:
		return checkCount(res.Trace, a)
	case AssertFinalStyle:
		return checkFinalStyle(res, a)
	case AssertFinalClass:
		return checkFinalClass(res, a)
	case AssertState:
		return checkState(res, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func matches(ev trace.Event, kind, effect, target, detailContains string) bool {
	if kind != "" && string(ev.Kind) != kind {
		return false
	}
	if effect != "" && ev.Effect != effect {
		return false
	}
	if target != "" && ev.Target != target {
		return false
	}
	if detailContains != "" && !strings.Contains(ev.Detail, detailContains) {
		return false
	}
	return true
}

func checkContains(events []trace.Event, a *Assertion) error {
	for _, ev := range events {
		if matches(ev, a.Kind, a.Effect, a.Target, a.DetailContains) {
			return nil
		}
	}
	return fmt.Errorf("no event matching kind=%q effect=%q target=%q detail~%q in %d events",
		a.Kind, a.Effect, a.Target, a.DetailContains, len(events))
}

func checkOrder(events []trace.Event, a *Assertion) error {
	next := 0
	for _, ev := range events {
		if next >= len(a.Steps) {
			break
		}
		s := a.Steps[next]
		if matches(ev, s.Kind, s.Effect, s.Target, "") {
			next++
		}
	}
	if next < len(a.Steps) {
		s := a.Steps[next]
		return fmt.Errorf("step %d (kind=%q effect=%q target=%q) never matched in order",
			next, s.Kind, s.Effect, s.Target)
	}
	return nil
}

func checkCount(events []trace.Event, a *Assertion) error {
	n := 0
	for _, ev := range events {
		if matches(ev, a.Kind, a.Effect, a.Target, a.DetailContains) {
			n++
		}
	}
	if n != a.Count {
		return fmt.Errorf("expected %d matching events, found %d", a.Count, n)
	}
	return nil
}

func checkFinalStyle(res *Result, a *Assertion) error {
	el := elementByID(res.Doc, a.Target)
	if el == nil {
		return fmt.Errorf("element %q not found", a.Target)
	}
	for prop, want := range a.Styles {
		got := el.Style(prop)
		if got != want {
			return fmt.Errorf("element %q style %q = %q, want %q", a.Target, prop, got, want)
		}
	}
	return nil
}

func checkFinalClass(res *Result, a *Assertion) error {
	el := elementByID(res.Doc, a.Target)
	if el == nil {
		return fmt.Errorf("element %q not found", a.Target)
	}
	has := el.HasClass(a.Class)
	if a.Absent && has {
		return fmt.Errorf("element %q unexpectedly carries class %q", a.Target, a.Class)
	}
	if !a.Absent && !has {
		return fmt.Errorf("element %q missing class %q (has %v)", a.Target, a.Class, el.Classes())
	}
	return nil
}

func checkState(res *Result, a *Assertion) error {
	got := res.Engine.State().String()
	if got != a.State {
		return fmt.Errorf("engine state = %q, want %q", got, a.State)
	}
	return nil
}
