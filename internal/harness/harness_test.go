package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FadeUpScenario(t *testing.T) {
	s, err := LoadScenario("testdata/fade-up.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)

	for _, aerr := range CheckAssertions(res) {
		t.Error(aerr)
	}
	assert.NotEmpty(t, res.Trace)
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/fade-up.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace, "identical scripts must yield identical traces")
	assert.Equal(t, first.Engine.State(), second.Engine.State())
}

func TestRun_PrimitivesMissingGolden(t *testing.T) {
	s := &Scenario{
		Name: "primitives-missing",
		HTML: `<html><body><h1 id="hero" data-effect="fade-up">Hi</h1></body></html>`,
		Capabilities: &CapabilitySpec{
			PrimitivesMissing: true,
		},
		Events: []EventStep{{Ready: true}},
		Assertions: []Assertion{
			{Type: AssertState, State: "force_revealed"},
			{Type: AssertFinalStyle, Target: "hero", Styles: map[string]string{"opacity": "1"}},
			{Type: AssertTraceCount, Kind: "force_reveal", Count: 1},
		},
	}

	require.NoError(t, RunWithGolden(t, s))
}

func TestRun_EmbeddedScenario(t *testing.T) {
	s := &Scenario{
		Name:         "embedded",
		HTML:         `<html><body><div id="x" data-effect="fade"></div></body></html>`,
		Capabilities: &CapabilitySpec{Embedded: true},
		Events:       []EventStep{{Ready: true}},
		Assertions: []Assertion{
			{Type: AssertState, State: "force_revealed"},
			{Type: AssertFinalStyle, Target: "x", Styles: map[string]string{"opacity": "1"}},
		},
	}
	res, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, CheckAssertions(res))
}

func TestRun_WatchdogScenario(t *testing.T) {
	fourSeconds := AdvanceStep{Seconds: 4, Step: 0.5}
	s := &Scenario{
		Name:   "watchdog",
		HTML:   `<html><body><div id="x" data-effect="fade"></div></body></html>`,
		Events: []EventStep{{Advance: &fourSeconds}},
		Assertions: []Assertion{
			{Type: AssertState, State: "force_revealed"},
			{Type: AssertTraceContains, Kind: "state", DetailContains: "watchdog timeout"},
		},
	}
	res, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, CheckAssertions(res))
}

func TestRun_ThemeDisablesEffect(t *testing.T) {
	s := &Scenario{
		Name:   "theme-disabled",
		HTML:   `<html><body><div id="x" data-effect="fade-up"></div></body></html>`,
		Theme:  `disabled: ["fade-up"]`,
		Events: []EventStep{{Ready: true}},
		Assertions: []Assertion{
			{Type: AssertState, State: "running"},
			{Type: AssertTraceContains, Kind: "skip", Effect: "fade-up", DetailContains: "disabled by theme"},
			{Type: AssertFinalStyle, Target: "x", Styles: map[string]string{"opacity": "1"}},
		},
	}
	res, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, CheckAssertions(res))
}

func TestRun_InvalidTheme(t *testing.T) {
	s := &Scenario{
		Name:   "bad-theme",
		HTML:   `<html><body></body></html>`,
		Theme:  `speed: 99`,
		Events: []EventStep{{Ready: true}},
	}
	_, err := Run(s)
	require.Error(t, err)
}

func TestRun_PointerTargetMissing(t *testing.T) {
	click := PointerStep{Kind: "click", X: 1, Y: 1, Target: "ghost"}
	s := &Scenario{
		Name:   "bad-pointer",
		HTML:   `<html><body></body></html>`,
		Events: []EventStep{{Ready: true}, {Pointer: &click}},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pointer target "ghost" not found`)
}

func TestCheckAssertions_CollectsEveryFailure(t *testing.T) {
	s := &Scenario{
		Name:   "failing",
		HTML:   `<html><body><div id="x" data-effect="fade"></div></body></html>`,
		Events: []EventStep{{Ready: true}},
		Assertions: []Assertion{
			{Type: AssertState, State: "force_revealed"},
			{Type: AssertTraceContains, Kind: "fire"},
			{Type: AssertFinalClass, Target: "x", Class: "menu-open"},
		},
	}
	res, err := Run(s)
	require.NoError(t, err)

	errs := CheckAssertions(res)
	assert.Len(t, errs, 3, "assertion checking must not stop at the first failure")
}
