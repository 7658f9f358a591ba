package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/pageforge/flourish/internal/trace"
)

// TraceSnapshot is the JSON shape pinned by golden files.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	FinalState   string        `json:"final_state"`
	Trace        []trace.Event `json:"trace"`
}

// RunWithGolden executes a scenario, checks its assertions, and compares
// the trace against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, aerr := range CheckAssertions(result) {
		t.Errorf("scenario %s: %v", scenario.Name, aerr)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-run result's trace against its golden
// file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		FinalState:   result.Engine.State().String(),
		Trace:        result.Trace,
	}

	traceJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
