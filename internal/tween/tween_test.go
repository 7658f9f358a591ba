package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCore_Set_AppliesImmediately(t *testing.T) {
	c := NewCore()

	var got Values
	c.Set(Values{"opacity": 0, "y": 40}, func(v Values) { got = v })

	require.NotNil(t, got)
	assert.Equal(t, 0.0, got["opacity"])
	assert.Equal(t, 40.0, got["y"])
	assert.Equal(t, 0, c.Active(), "Set should not register a live tween")
}

func TestCore_Set_ClonesValues(t *testing.T) {
	c := NewCore()
	src := Values{"x": 1}

	var got Values
	c.Set(src, func(v Values) { got = v })

	got["x"] = 99
	assert.Equal(t, 1.0, src["x"], "apply callback must not alias the caller's map")
}

func TestCore_To_NoUpdateBeforeTick(t *testing.T) {
	c := NewCore()

	updates := 0
	c.To(Spec{
		From:     Values{"opacity": 0},
		To:       Values{"opacity": 1},
		Duration: 1,
		OnUpdate: func(Values) { updates++ },
	})

	assert.Equal(t, 0, updates, "nothing moves until Tick")
	assert.Equal(t, 1, c.Active())
}

func TestCore_To_Interpolates(t *testing.T) {
	c := NewCore()

	var last Values
	c.To(Spec{
		From:     Values{"y": 100},
		To:       Values{"y": 0},
		Duration: 1,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	c.Tick(0.25)
	assert.InDelta(t, 75, last["y"], 1e-9)

	c.Tick(0.25)
	assert.InDelta(t, 50, last["y"], 1e-9)

	c.Tick(0.5)
	assert.InDelta(t, 0, last["y"], 1e-9)
	assert.Equal(t, 0, c.Active(), "finished tween is dropped")
}

func TestCore_To_MissingFromChannelStartsAtZero(t *testing.T) {
	c := NewCore()

	var last Values
	c.To(Spec{
		To:       Values{"scale": 2},
		Duration: 1,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	c.Tick(0.5)
	assert.InDelta(t, 1, last["scale"], 1e-9)
}

func TestCore_To_ClampsAtEnd(t *testing.T) {
	c := NewCore()

	var last Values
	h := c.To(Spec{
		From:     Values{"opacity": 0},
		To:       Values{"opacity": 1},
		Duration: 0.5,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	// One big tick overshoots the duration; the tween must land exactly
	// on its final values, not extrapolate.
	c.Tick(10)
	assert.Equal(t, 1.0, last["opacity"])
	assert.True(t, h.Done())
}

func TestCore_To_OnCompleteFiresOnce(t *testing.T) {
	c := NewCore()

	completions := 0
	c.To(Spec{
		To:         Values{"x": 1},
		Duration:   0.1,
		OnComplete: func() { completions++ },
	})

	c.Tick(0.2)
	c.Tick(0.2)
	c.Tick(0.2)
	assert.Equal(t, 1, completions)
}

func TestCore_To_ZeroDurationCompletesOnFirstTick(t *testing.T) {
	c := NewCore()

	var last Values
	done := false
	c.To(Spec{
		To:         Values{"opacity": 1},
		OnUpdate:   func(v Values) { last = v },
		OnComplete: func() { done = true },
	})

	c.Tick(1.0 / 60.0)
	assert.Equal(t, 1.0, last["opacity"])
	assert.True(t, done)
}

func TestCore_To_DelaySpillsOvershootIntoElapsed(t *testing.T) {
	c := NewCore()

	var last Values
	c.To(Spec{
		From:     Values{"x": 0},
		To:       Values{"x": 100},
		Duration: 1,
		Delay:    0.5,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	c.Tick(0.25)
	assert.Nil(t, last, "still inside the delay window")

	// 0.75 total: 0.5 delay consumed, 0.25 of animation elapsed.
	c.Tick(0.5)
	assert.InDelta(t, 25, last["x"], 1e-9)
}

func TestCore_Loop_WrapsProgress(t *testing.T) {
	c := NewCore()

	var last Values
	c.To(Spec{
		From:     Values{"pos": 0},
		To:       Values{"pos": 100},
		Duration: 1,
		Loop:     true,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	c.Tick(0.5)
	assert.InDelta(t, 50, last["pos"], 1e-9)

	// 1.25 total elapsed: second cycle, quarter through.
	c.Tick(0.75)
	assert.InDelta(t, 25, last["pos"], 1e-9)
	assert.Equal(t, 1, c.Active(), "looping tween never finishes")
}

func TestCore_LoopYoyo_ReversesAlternateCycles(t *testing.T) {
	c := NewCore()

	var last Values
	c.To(Spec{
		From:     Values{"y": -10},
		To:       Values{"y": 10},
		Duration: 2,
		Loop:     true,
		Yoyo:     true,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { last = v },
	})

	// First cycle, forward: t=0.5 of cycle 0.
	c.Tick(1)
	assert.InDelta(t, 0, last["y"], 1e-9)

	// 3s total: cycle 1 at t=0.5, reversed, also midpoint.
	c.Tick(2)
	assert.InDelta(t, 0, last["y"], 1e-9)

	// 2.5s total would be cycle 1 at t=0.25 reversed -> progress 0.75.
	c2 := NewCore()
	var v2 Values
	c2.To(Spec{
		From:     Values{"y": 0},
		To:       Values{"y": 100},
		Duration: 1,
		Loop:     true,
		Yoyo:     true,
		Ease:     ByName("linear"),
		OnUpdate: func(v Values) { v2 = v },
	})
	c2.Tick(1.25)
	assert.InDelta(t, 75, v2["y"], 1e-9)
}

func TestCore_Kill_StopsWithoutComplete(t *testing.T) {
	c := NewCore()

	completed := false
	h := c.To(Spec{
		To:         Values{"x": 1},
		Duration:   1,
		OnComplete: func() { completed = true },
	})

	h.Kill()
	c.Tick(5)

	assert.False(t, completed, "killed tween must not fire OnComplete")
	assert.False(t, h.Done())
	assert.Equal(t, 0, c.Active())
}

func TestCore_Timeline_StepsRunSequentially(t *testing.T) {
	c := NewCore()

	var order []string
	c.Timeline(
		Spec{To: Values{"a": 1}, Duration: 1, Ease: ByName("linear"),
			OnComplete: func() { order = append(order, "first") }},
		Spec{To: Values{"b": 1}, Duration: 1, Ease: ByName("linear"),
			OnComplete: func() { order = append(order, "second") }},
	)

	c.Tick(0.5)
	assert.Empty(t, order)

	c.Tick(0.5)
	assert.Equal(t, []string{"first"}, order)

	c.Tick(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCore_Timeline_PerStepDelayIsRelative(t *testing.T) {
	c := NewCore()

	var bVals Values
	h := c.Timeline(
		Spec{To: Values{"a": 1}, Duration: 1, Ease: ByName("linear")},
		Spec{To: Values{"b": 100}, Duration: 1, Delay: 0.5, Ease: ByName("linear"),
			OnUpdate: func(v Values) { bVals = v }},
	)

	// At 1.25s the second step is still in its 0.5s gap after step one.
	c.Tick(1.25)
	assert.Nil(t, bVals)

	// At 2.0s the second step is 0.5 through its duration.
	c.Tick(0.75)
	assert.InDelta(t, 50, bVals["b"], 1e-9)
	assert.False(t, h.Done())

	c.Tick(1)
	assert.True(t, h.Done())
}

func TestCore_Timeline_KillStopsAllSteps(t *testing.T) {
	c := NewCore()

	updates := 0
	h := c.Timeline(
		Spec{To: Values{"a": 1}, Duration: 1, OnUpdate: func(Values) { updates++ }},
		Spec{To: Values{"b": 1}, Duration: 1, OnUpdate: func(Values) { updates++ }},
	)

	h.Kill()
	c.Tick(5)
	assert.Equal(t, 0, updates)
	assert.Equal(t, 0, c.Active())
}

func TestCore_OnTick_RunsAfterTweens(t *testing.T) {
	c := NewCore()

	var order []string
	c.To(Spec{To: Values{"x": 1}, Duration: 1,
		OnUpdate: func(Values) { order = append(order, "tween") }})
	c.OnTick(func(dt float64) { order = append(order, "frame") })

	c.Tick(0.1)
	assert.Equal(t, []string{"tween", "frame"}, order,
		"frame callbacks observe post-tween state")
}

func TestCore_OnTick_ReceivesDt(t *testing.T) {
	c := NewCore()

	var got float64
	c.OnTick(func(dt float64) { got = dt })

	c.Tick(0.016)
	assert.Equal(t, 0.016, got)
}

func TestCore_Tick_NegativeDtIgnored(t *testing.T) {
	c := NewCore()

	updates := 0
	c.To(Spec{To: Values{"x": 1}, Duration: 1, OnUpdate: func(Values) { updates++ }})

	c.Tick(-1)
	assert.Equal(t, 0, updates)
	assert.Equal(t, 1, c.Active())
}

func TestValues_CloneAndKeys(t *testing.T) {
	v := Values{"b": 2, "a": 1, "c": 3}

	clone := v.Clone()
	clone["a"] = 99
	assert.Equal(t, 1.0, v["a"])

	assert.Equal(t, []string{"a", "b", "c"}, v.Keys())
}

func TestHandle_Progress_IsEased(t *testing.T) {
	c := NewCore()

	h := c.To(Spec{To: Values{"x": 1}, Duration: 1, Ease: ByName("linear")})
	c.Tick(0.5)
	assert.InDelta(t, 0.5, h.Progress(), 1e-9)
}
