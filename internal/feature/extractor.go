/*
Package feature turns raw request text into sparse weighted feature vectors.

Extraction is a pure function: the same text, config and IDF table always
produce the same vector, byte for byte. The extractor produces unigram and
bigram token features plus the structural cue features enabled in config.

Han characters are tokenized one rune per token so Chinese requests yield
useful unigrams and bigrams without a segmenter.
*/
package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

// Vector is a sparse feature vector: feature id -> weight.
type Vector map[string]float64

// ExtractionError represents malformed input text. It is fatal for the
// interaction only; model state is never touched.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction failed: %s", e.Reason)
}

// imperativeVerbs are first-position tokens that signal a command-style
// request. Covers the English and Chinese verbs seen in the corpus.
var imperativeVerbs = map[string]bool{
	"read": true, "write": true, "edit": true, "fix": true, "run": true,
	"find": true, "search": true, "create": true, "delete": true,
	"show": true, "list": true, "debug": true, "test": true, "check": true,
	"refactor": true, "add": true, "remove": true, "update": true,
	"讀": true, "写": true, "寫": true, "改": true, "修": true,
	"找": true, "搜": true, "建": true, "刪": true, "跑": true,
	"執": true, "执": true, "看": true, "查": true,
}

// politeMarkers signal a polite request framing.
var politeMarkers = []string{"please", "請", "请", "幫我", "帮我", "麻煩", "麻烦"}

// Extractor converts text into feature vectors according to a fixed
// feature configuration and optional IDF table.
type Extractor struct {
	useIDF    bool
	stopWords map[string]bool
	cues      map[string]bool
	idf       *IDFTable
}

// NewExtractor creates an extractor from feature config. The IDF table may
// be nil; it is only consulted when useIdf is set.
func NewExtractor(cfg *config.FeatureConfig, idf *IDFTable) *Extractor {
	stop := make(map[string]bool, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[strings.ToLower(w)] = true
	}

	cues := make(map[string]bool, len(cfg.Cues))
	for _, c := range cfg.Cues {
		cues[c] = true
	}

	return &Extractor{
		useIDF:    cfg.UseIDF,
		stopWords: stop,
		cues:      cues,
		idf:       idf,
	}
}

// Extract converts text into a sparse feature vector.
//
// Empty or whitespace-only input yields an empty vector, not an error.
// Invalid UTF-8 yields an *ExtractionError.
func (e *Extractor) Extract(text string) (Vector, error) {
	if !utf8.ValidString(text) {
		return nil, &ExtractionError{Reason: "input is not valid UTF-8"}
	}

	vec := make(Vector)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return vec, nil
	}

	tokens := Tokenize(trimmed)

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !e.stopWords[tok] {
			kept = append(kept, tok)
		}
	}

	for _, tok := range kept {
		vec["word_"+tok] += e.tokenWeight(tok)
	}
	for i := 0; i+1 < len(kept); i++ {
		vec["bigram_"+kept[i]+"_"+kept[i+1]] += 1.0
	}

	e.addCues(vec, trimmed, tokens)

	// Length features, normalized the same way the training corpus was.
	vec["length"] = float64(len(kept)) / 10.0
	vec["char_length"] = float64(utf8.RuneCountInString(trimmed)) / 100.0

	return vec, nil
}

func (e *Extractor) tokenWeight(tok string) float64 {
	if e.useIDF && e.idf != nil {
		return e.idf.Weight(tok)
	}
	return 1.0
}

func (e *Extractor) addCues(vec Vector, text string, tokens []string) {
	if e.cues["has_file_extension"] && hasFileExtension(tokens) {
		vec["cue_has_file_extension"] = 1.0
	}
	if e.cues["has_quoted_path"] && hasQuotedPath(text) {
		vec["cue_has_quoted_path"] = 1.0
	}
	if e.cues["imperative_start"] && len(tokens) > 0 && imperativeVerbs[tokens[0]] {
		vec["cue_imperative_start"] = 1.0
	}
	if e.cues["has_question"] && (strings.ContainsRune(text, '?') || strings.ContainsRune(text, '？')) {
		vec["cue_has_question"] = 1.0
	}
	if e.cues["polite_request"] && hasPoliteMarker(text) {
		vec["cue_polite_request"] = 1.0
	}
	if e.cues["has_code_fence"] && strings.Contains(text, "```") {
		vec["cue_has_code_fence"] = 1.0
	}
}

// Fingerprint identifies the feature space this extractor produces.
// Two extractors with the same fingerprint emit vectors in the same space,
// so model snapshots record it to detect dimension mismatches at load time.
func (e *Extractor) Fingerprint() string {
	h := sha256.New()

	fmt.Fprintf(h, "useIdf=%t\n", e.useIDF)

	stop := make([]string, 0, len(e.stopWords))
	for w := range e.stopWords {
		stop = append(stop, w)
	}
	sort.Strings(stop)
	fmt.Fprintf(h, "stop=%s\n", strings.Join(stop, ","))

	cues := make([]string, 0, len(e.cues))
	for c := range e.cues {
		cues = append(cues, c)
	}
	sort.Strings(cues)
	fmt.Fprintf(h, "cues=%s\n", strings.Join(cues, ","))

	if e.useIDF && e.idf != nil {
		fmt.Fprintf(h, "idf=%s\n", e.idf.Fingerprint())
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Tokenize lower-cases text and splits it into tokens on whitespace and
// punctuation. Han characters are emitted one rune per token.
func Tokenize(text string) []string {
	tokens := make([]string, 0, 16)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			current.WriteRune(r)
		case r == '.' && current.Len() > 0:
			// Keep dots inside tokens so "main.py" survives as one token.
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	// Strip trailing dots left by sentence punctuation.
	for i, tok := range tokens {
		tokens[i] = strings.TrimRight(tok, ".")
	}

	out := tokens[:0]
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func hasFileExtension(tokens []string) bool {
	for _, tok := range tokens {
		dot := strings.LastIndexByte(tok, '.')
		if dot <= 0 || dot == len(tok)-1 {
			continue
		}
		ext := tok[dot+1:]
		if len(ext) <= 4 && isAlnum(ext) {
			return true
		}
	}
	return false
}

func hasQuotedPath(text string) bool {
	for _, quote := range []byte{'"', '\'', '`'} {
		start := strings.IndexByte(text, quote)
		if start < 0 {
			continue
		}
		end := strings.IndexByte(text[start+1:], quote)
		if end < 0 {
			continue
		}
		inner := text[start+1 : start+1+end]
		if strings.ContainsAny(inner, "/\\") {
			return true
		}
	}
	return false
}

func hasPoliteMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range politeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
