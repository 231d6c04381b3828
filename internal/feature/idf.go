package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// IDFTable holds inverse-document-frequency weights learned from the
// training corpus. The table is immutable once built, so sharing it across
// goroutines needs no synchronization.
type IDFTable struct {
	weights map[string]float64
	docs    int
}

// BuildIDFTable computes IDF weights over a corpus of texts.
//
// Weight formula: ln(1 + N/(1+df)). Tokens absent from the corpus get the
// maximum weight (df = 0), so unseen vocabulary is emphasized rather than
// dropped.
func BuildIDFTable(corpus []string) *IDFTable {
	docFreq := make(map[string]int)

	for _, text := range corpus {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(text) {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	n := len(corpus)
	weights := make(map[string]float64, len(docFreq))
	for tok, df := range docFreq {
		weights[tok] = math.Log(1 + float64(n)/float64(1+df))
	}

	return &IDFTable{weights: weights, docs: n}
}

// Weight returns the IDF weight for a token.
func (t *IDFTable) Weight(tok string) float64 {
	if w, ok := t.weights[tok]; ok {
		return w
	}
	return math.Log(1 + float64(t.docs))
}

// Size returns the number of tokens in the table.
func (t *IDFTable) Size() int {
	return len(t.weights)
}

// Fingerprint identifies the table contents for snapshot compatibility
// checks. Iteration is over sorted tokens so the hash is reproducible.
func (t *IDFTable) Fingerprint() string {
	tokens := make([]string, 0, len(t.weights))
	for tok := range t.weights {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	h := sha256.New()
	fmt.Fprintf(h, "docs=%d\n", t.docs)
	for _, tok := range tokens {
		fmt.Fprintf(h, "%s=%.12f\n", tok, t.weights[tok])
	}
	return hex.EncodeToString(h.Sum(nil))
}
