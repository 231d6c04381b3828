package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

func newTestEngine() *Engine {
	return NewEngine(config.NewConfig().Reward)
}

func TestScore_PerfectRun(t *testing.T) {
	e := newTestEngine()

	rec := e.Score(Outcome{
		ActualTools:   []string{"Read", "Grep"},
		ExpectedTools: []string{"Read", "Grep"},
		TaskSuccess:   true,
		LatencyMs:     10,
	})

	assert.Equal(t, 1.0, rec.Components[ComponentToolMatch])
	assert.Equal(t, 1.0, rec.Components[ComponentSequenceMatch])
	assert.Equal(t, 1.0, rec.Components[ComponentTaskSuccess])
	assert.Zero(t, rec.Penalty)
	assert.InDelta(t, 1.0, rec.Total, 0.01)
}

func TestScore_DuplicateToolReducesMatch(t *testing.T) {
	e := newTestEngine()

	// The Jaccard of {Read,Read} vs {Read,Grep} counts duplicates:
	// intersection 1, union 3.
	rec := e.Score(Outcome{
		ActualTools:   []string{"Read", "Read"},
		ExpectedTools: []string{"Read", "Grep"},
		TaskSuccess:   true,
		LatencyMs:     100,
	})

	assert.InDelta(t, 1.0/3.0, rec.Components[ComponentToolMatch], 0.001)
	assert.Positive(t, rec.Total)

	perfect := e.Score(Outcome{
		ActualTools:   []string{"Read", "Grep"},
		ExpectedTools: []string{"Read", "Grep"},
		TaskSuccess:   true,
		LatencyMs:     100,
	})
	assert.Less(t, rec.Total, perfect.Total,
		"partial tool match must score below a full match")
}

func TestScore_SequencePartialCredit(t *testing.T) {
	e := newTestEngine()

	rec := e.Score(Outcome{
		ActualTools:   []string{"Grep", "Read"},
		ExpectedTools: []string{"Read", "Grep"},
		TaskSuccess:   true,
	})

	// Same set, wrong order: full tool match, LCS 1 of 2.
	assert.Equal(t, 1.0, rec.Components[ComponentToolMatch])
	assert.InDelta(t, 0.5, rec.Components[ComponentSequenceMatch], 0.001)
}

func TestScore_ErrorPenaltyOutweighsAccuracy(t *testing.T) {
	e := newTestEngine()

	// Fast and tool-accurate, but erroring: must not net positive.
	rec := e.Score(Outcome{
		ActualTools:   []string{"Bash"},
		ExpectedTools: []string{"Bash"},
		TaskSuccess:   false,
		ErrorOccurred: true,
		LatencyMs:     5,
	})

	assert.Equal(t, -1.0, rec.Components[ComponentTaskSuccess])
	assert.Equal(t, 0.5, rec.Penalty)
	assert.LessOrEqual(t, rec.Total, 0.0)
}

func TestScore_BoundedForAllInputs(t *testing.T) {
	e := newTestEngine()

	outcomes := []Outcome{
		{},
		{TaskSuccess: true},
		{ErrorOccurred: true, LatencyMs: 1 << 30},
		{ActualTools: []string{"A", "B", "C", "D", "E"}, ExpectedTools: []string{"A"}},
		{ExpectedTools: []string{"Read", "Grep", "Bash"}},
		{ActualTools: []string{"X"}, TaskSuccess: true, LatencyMs: -5},
		{ActualTools: []string{"Read"}, ExpectedTools: []string{"Read"}, TaskSuccess: true, LatencyMs: 0},
	}

	for i, out := range outcomes {
		rec := e.Score(out)
		assert.GreaterOrEqual(t, rec.Total, -1.0, "outcome %d", i)
		assert.LessOrEqual(t, rec.Total, 1.0, "outcome %d", i)
		for comp, v := range rec.Components {
			assert.GreaterOrEqual(t, v, -1.0, "outcome %d component %s", i, comp)
			assert.LessOrEqual(t, v, 1.0, "outcome %d component %s", i, comp)
		}
	}
}

func TestScore_EmptyVsEmptyIsPerfectMatch(t *testing.T) {
	e := newTestEngine()

	rec := e.Score(Outcome{TaskSuccess: true})

	assert.Equal(t, 1.0, rec.Components[ComponentToolMatch])
	assert.Equal(t, 1.0, rec.Components[ComponentSequenceMatch])
}

func TestScore_ExcessCallsReduceEfficiency(t *testing.T) {
	e := newTestEngine()

	lean := e.Score(Outcome{
		ActualTools:   []string{"Read"},
		ExpectedTools: []string{"Read"},
		TaskSuccess:   true,
	})
	bloated := e.Score(Outcome{
		ActualTools:   []string{"Read", "Read", "Read"},
		ExpectedTools: []string{"Read"},
		TaskSuccess:   true,
	})

	assert.Less(t,
		bloated.Components[ComponentEfficiency],
		lean.Components[ComponentEfficiency])
}

func TestScore_LatencyReducesEfficiency(t *testing.T) {
	e := newTestEngine()

	fast := e.Score(Outcome{TaskSuccess: true, LatencyMs: 100})
	slow := e.Score(Outcome{TaskSuccess: true, LatencyMs: 29000})

	assert.Less(t,
		slow.Components[ComponentEfficiency],
		fast.Components[ComponentEfficiency])
}

func TestScore_Pure(t *testing.T) {
	e := newTestEngine()
	out := Outcome{
		ActualTools:   []string{"Read"},
		ExpectedTools: []string{"Read", "Grep"},
		TaskSuccess:   true,
		LatencyMs:     200,
	}

	a := e.Score(out)
	b := e.Score(out)

	assert.Equal(t, a, b, "scoring must be a pure function of its inputs")
}

func TestSetWeights_HotReload(t *testing.T) {
	e := newTestEngine()
	out := Outcome{
		ActualTools:   []string{"Read"},
		ExpectedTools: []string{"Read"},
		TaskSuccess:   true,
	}

	before := e.Score(out)

	reweighted := *config.NewConfig().Reward
	reweighted.TaskSuccess = 0.0
	e.SetWeights(&reweighted)

	after := e.Score(out)
	assert.Less(t, after.Total, before.Total)
}
