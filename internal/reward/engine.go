/*
Package reward turns a structured interaction outcome into a scalar
learning signal.

The total is a weighted sum of independently scaled components (tool-set
match, ordered-sequence match, task success, efficiency) minus a flat
error penalty, clamped to [-1, 1]. Scoring is a pure function of the
outcome and the configured weights; the engine holds no learning state.
*/
package reward

import (
	"math"
	"sync/atomic"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

// Component identifies one term of the shaped reward.
type Component string

const (
	ComponentToolMatch     Component = "tool_match"
	ComponentSequenceMatch Component = "sequence_match"
	ComponentTaskSuccess   Component = "task_success"
	ComponentEfficiency    Component = "efficiency"
)

// Outcome is the structured result of executing a predicted tool sequence.
// It is produced by the external executor and consumed exactly once.
type Outcome struct {
	// Text is the original request text.
	Text string `json:"text"`

	// PredictedIntent is the intent the model predicted at ingest time.
	PredictedIntent string `json:"predictedIntent"`

	// ActualIntent is the confirmed intent, when known. Empty means the
	// prediction stands.
	ActualIntent string `json:"actualIntent,omitempty"`

	// ActualTools is the ordered list of tools the executor invoked.
	ActualTools []string `json:"actualTools"`

	// ExpectedTools is the ordered list the mapper proposed.
	ExpectedTools []string `json:"expectedTools"`

	// TaskSuccess reports whether the task completed successfully.
	TaskSuccess bool `json:"taskSuccess"`

	// LatencyMs is the wall-clock execution time in milliseconds.
	LatencyMs int `json:"latencyMs"`

	// ErrorOccurred reports an unrecoverable execution error.
	ErrorOccurred bool `json:"errorOccurred"`

	// Confirmed marks a hybrid-escalated interaction whose outcome was
	// reviewed. Unconfirmed hybrid outcomes are never learned from.
	Confirmed bool `json:"confirmed"`
}

// Record is the immutable result of scoring one outcome.
type Record struct {
	// Components holds each term scaled to [-1, 1], before weighting.
	Components map[Component]float64 `json:"components"`

	// Penalty is the flat error penalty that was subtracted.
	Penalty float64 `json:"penalty"`

	// Total is the weighted sum minus penalty, clamped to [-1, 1].
	Total float64 `json:"total"`
}

// Engine scores outcomes using hot-reloadable component weights.
type Engine struct {
	weights atomic.Pointer[config.RewardConfig]
}

// NewEngine creates an engine with the given component weights.
func NewEngine(cfg *config.RewardConfig) *Engine {
	e := &Engine{}
	e.weights.Store(cfg)
	return e
}

// SetWeights swaps the component weights (config hot reload).
func (e *Engine) SetWeights(cfg *config.RewardConfig) {
	e.weights.Store(cfg)
}

// Score computes the shaped reward for an outcome.
func (e *Engine) Score(out Outcome) Record {
	w := e.weights.Load()

	components := map[Component]float64{
		ComponentToolMatch:     jaccard(out.ActualTools, out.ExpectedTools),
		ComponentSequenceMatch: sequenceMatch(out.ActualTools, out.ExpectedTools),
		ComponentTaskSuccess:   successScore(out),
		ComponentEfficiency:    efficiency(out, w.LatencyBudgetMs),
	}

	total := w.ToolMatch*components[ComponentToolMatch] +
		w.SequenceMatch*components[ComponentSequenceMatch] +
		w.TaskSuccess*components[ComponentTaskSuccess] +
		w.Efficiency*components[ComponentEfficiency]

	// The flat penalty keeps a fast, tool-accurate but erroring run from
	// netting a positive reward.
	var penalty float64
	if out.ErrorOccurred {
		penalty = w.ErrorPenalty
	}

	return Record{
		Components: components,
		Penalty:    penalty,
		Total:      clamp(total-penalty, -1, 1),
	}
}

// jaccard computes multiset Jaccard similarity between two tool lists.
// Duplicates count: {Read,Read} vs {Read,Grep} is 1/3, not 1/2.
// Two empty lists are a perfect match.
func jaccard(actual, expected []string) float64 {
	if len(actual) == 0 && len(expected) == 0 {
		return 1.0
	}

	counts := func(tools []string) map[string]int {
		m := make(map[string]int, len(tools))
		for _, t := range tools {
			m[t]++
		}
		return m
	}

	a := counts(actual)
	b := counts(expected)

	var intersection, union int
	for tool, ca := range a {
		cb := b[tool]
		intersection += min(ca, cb)
		union += max(ca, cb)
	}
	for tool, cb := range b {
		if _, ok := a[tool]; !ok {
			union += cb
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// sequenceMatch gives 1.0 for an exact ordered match and partial credit
// via the longest-common-subsequence ratio otherwise.
func sequenceMatch(actual, expected []string) float64 {
	if len(actual) == 0 && len(expected) == 0 {
		return 1.0
	}
	if len(actual) == 0 || len(expected) == 0 {
		return 0.0
	}

	longer := max(len(actual), len(expected))
	return float64(lcs(actual, expected)) / float64(longer)
}

// lcs is the classic longest-common-subsequence length.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// successScore is +1 for success, -1 for an unrecoverable error, and 0 for
// a clean failure.
func successScore(out Outcome) float64 {
	switch {
	case out.TaskSuccess:
		return 1.0
	case out.ErrorOccurred:
		return -1.0
	default:
		return 0.0
	}
}

// efficiency decreases with latency and with tool calls beyond the
// expected count. Both factors live in [0, 1]; their mean is the
// component value.
func efficiency(out Outcome, latencyBudgetMs int) float64 {
	latency := math.Max(0, float64(out.LatencyMs))
	latencyFactor := 1.0 - math.Min(1.0, latency/float64(latencyBudgetMs))

	excessFactor := 1.0
	if excess := len(out.ActualTools) - len(out.ExpectedTools); excess > 0 {
		if len(out.ExpectedTools) == 0 {
			excessFactor = 0.0
		} else {
			excessFactor = 1.0 - math.Min(1.0, float64(excess)/float64(len(out.ExpectedTools)))
		}
	}

	return (latencyFactor + excessFactor) / 2.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
