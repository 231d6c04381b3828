package learner

// entry is one completed interaction in the rolling window.
type entry struct {
	learned bool
	correct bool
}

// ring is a fixed-capacity buffer of recent completions used to compute
// rolling accuracy. Callers hold the learner's mutex.
type ring struct {
	entries []entry
	next    int
	filled  bool
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{entries: make([]entry, capacity)}
}

func (r *ring) push(e entry) {
	r.entries[r.next] = e
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.filled = true
	}
}

func (r *ring) len() int {
	if r.filled {
		return len(r.entries)
	}
	return r.next
}

// stats returns the fraction of learned completions that were correct,
// and the number of buffered completions. Accuracy is 0 when nothing has
// been learned yet.
func (r *ring) stats() (accuracy float64, buffered int) {
	buffered = r.len()

	var learned, correct int
	for i := 0; i < buffered; i++ {
		e := r.entries[i]
		if !e.learned {
			continue
		}
		learned++
		if e.correct {
			correct++
		}
	}

	if learned == 0 {
		return 0, buffered
	}
	return float64(correct) / float64(learned), buffered
}
