/*
Package toolmap maps intents to ordered tool sequences.

The configured table is the authority; a learned refinement can displace a
default when an observed sequence wins on task success over a sliding
window of recent outcomes. The refinement holds only a small in-memory
frequency table and never mutates the configured table itself.
*/
package toolmap

import (
	"fmt"
	"strings"
	"sync"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

// observation is one (sequence, success) pair inside the sliding window.
type observation struct {
	sequence string
	success  bool
}

// sequenceStats accumulates win rates for one tool sequence.
type sequenceStats struct {
	total   int
	success int
}

func (s sequenceStats) rate() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.success) / float64(s.total)
}

// Mapper resolves intents to ordered tool sequences.
type Mapper struct {
	mu sync.RWMutex

	table           map[string][]string
	windowSize      int
	minObservations int

	// windows holds the last windowSize observations per intent.
	windows map[string][]observation
}

// NewMapper builds a mapper from the configured tool table.
func NewMapper(cfg *config.Config) *Mapper {
	table := make(map[string][]string, len(cfg.ToolMapping))
	for intent, tools := range cfg.ToolMapping {
		cp := make([]string, len(tools))
		copy(cp, tools)
		table[intent] = cp
	}

	return &Mapper{
		table:           table,
		windowSize:      cfg.Learning.WindowSize,
		minObservations: cfg.Learning.MinObservations,
		windows:         make(map[string][]observation),
	}
}

// Map returns the ordered tool sequence for an intent.
//
// An unknown intent should be impossible given the model's closed label
// set; it returns an empty list and a *config.ConfigurationError rather
// than guessing.
func (m *Mapper) Map(intent string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.table[intent]
	if !ok {
		return nil, &config.ConfigurationError{
			Field:   "toolMapping",
			Message: fmt.Sprintf("no tool mapping for intent %q", intent),
		}
	}

	if learned, ok := m.refinedLocked(intent, def); ok {
		return learned, nil
	}

	out := make([]string, len(def))
	copy(out, def)
	return out, nil
}

// Observe records an outcome's tool sequence and success flag for the
// sliding-window refinement.
func (m *Mapper) Observe(intent string, tools []string, success bool) {
	if len(tools) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.table[intent]; !ok {
		return
	}

	win := append(m.windows[intent], observation{
		sequence: encodeSequence(tools),
		success:  success,
	})
	if len(win) > m.windowSize {
		win = win[len(win)-m.windowSize:]
	}
	m.windows[intent] = win
}

// refinedLocked returns the learned sequence for intent when one has
// displaced the default. Caller holds at least a read lock.
func (m *Mapper) refinedLocked(intent string, def []string) ([]string, bool) {
	win := m.windows[intent]
	if len(win) == 0 {
		return nil, false
	}

	stats := make(map[string]sequenceStats)
	for _, obs := range win {
		s := stats[obs.sequence]
		s.total++
		if obs.success {
			s.success++
		}
		stats[obs.sequence] = s
	}

	defKey := encodeSequence(def)
	defRate := stats[defKey].rate()

	bestKey := ""
	var best sequenceStats
	for key, s := range stats {
		if key == defKey || s.total < m.minObservations {
			continue
		}
		// Lexicographic tie-break keeps the winner deterministic.
		if bestKey == "" || s.rate() > best.rate() || (s.rate() == best.rate() && key < bestKey) {
			bestKey = key
			best = s
		}
	}

	if bestKey == "" || best.rate() <= defRate {
		return nil, false
	}
	return decodeSequence(bestKey), true
}

// encodeSequence joins a tool sequence into a window key. Tool names never
// contain the separator.
func encodeSequence(tools []string) string {
	return strings.Join(tools, "\x1f")
}

func decodeSequence(key string) []string {
	return strings.Split(key, "\x1f")
}
