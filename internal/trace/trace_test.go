package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageforge/flourish/internal/dom"
)

func TestLog_RecordsInCallOrder(t *testing.T) {
	l := NewLog()
	l.Record(Event{Seq: 1, Kind: KindState, Detail: "initializing: document ready"})
	l.Record(Event{Seq: 2, Kind: KindProbe})
	l.Record(Event{Seq: 3, Kind: KindDirective, Effect: "fade-up"})

	evs := l.Events()
	require.Len(t, evs, 3)
	assert.Equal(t, KindState, evs[0].Kind)
	assert.Equal(t, KindProbe, evs[1].Kind)
	assert.Equal(t, "fade-up", evs[2].Effect)
}

func TestLog_EventsReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Record(Event{Seq: 1, Kind: KindProbe})

	evs := l.Events()
	evs[0].Kind = KindSkip

	assert.Equal(t, KindProbe, l.Events()[0].Kind)
}

func TestNop_Discards(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(Event{Seq: 1, Kind: KindProbe})
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))

	plain := dom.NewElement("span")
	assert.Equal(t, "span", Describe(plain))

	withID := dom.NewElement("div")
	withID.SetAttr("id", "hero")
	assert.Equal(t, "div#hero", Describe(withID))

	emptyID := dom.NewElement("div")
	emptyID.SetAttr("id", "")
	assert.Equal(t, "div", Describe(emptyID))
}
