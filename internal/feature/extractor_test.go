package feature

import (
	"reflect"
	"testing"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

func newTestExtractor() *Extractor {
	return NewExtractor(config.NewConfig().Features, nil)
}

func TestExtract_EmptyInput(t *testing.T) {
	e := newTestExtractor()

	for _, input := range []string{"", "   ", "\n\t "} {
		vec, err := e.Extract(input)
		if err != nil {
			t.Errorf("empty input %q should not error, got %v", input, err)
		}
		if len(vec) != 0 {
			t.Errorf("empty input %q should yield empty vector, got %v", input, vec)
		}
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	e := newTestExtractor()

	_, err := e.Extract(string([]byte{0xff, 0xfe, 0xfd}))
	if err == nil {
		t.Fatal("expected ExtractionError for invalid UTF-8")
	}
	if _, ok := err.(*ExtractionError); !ok {
		t.Errorf("expected *ExtractionError, got %T", err)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := newTestExtractor()
	text := "請幫我讀取 main.py 文件並找出所有的函數定義"

	a, err := e.Extract(text)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Extract(text)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("extraction is not deterministic for identical input")
	}
}

func TestExtract_UnigramsAndBigrams(t *testing.T) {
	e := newTestExtractor()

	vec, err := e.Extract("read read config")
	if err != nil {
		t.Fatal(err)
	}

	if vec["word_read"] != 2.0 {
		t.Errorf("expected word_read frequency 2.0, got %f", vec["word_read"])
	}
	if vec["word_config"] != 1.0 {
		t.Errorf("expected word_config frequency 1.0, got %f", vec["word_config"])
	}
	if vec["bigram_read_read"] != 1.0 {
		t.Errorf("expected bigram_read_read 1.0, got %f", vec["bigram_read_read"])
	}
	if vec["bigram_read_config"] != 1.0 {
		t.Errorf("expected bigram_read_config 1.0, got %f", vec["bigram_read_config"])
	}
}

func TestExtract_StopWordsFiltered(t *testing.T) {
	e := newTestExtractor()

	vec, err := e.Extract("please read the file")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := vec["word_the"]; ok {
		t.Error("stop word 'the' should not produce a feature")
	}
	if _, ok := vec["word_please"]; ok {
		t.Error("stop word 'please' should not produce a feature")
	}
	if _, ok := vec["word_read"]; !ok {
		t.Error("non-stop word 'read' should produce a feature")
	}
}

func TestExtract_StructuralCues(t *testing.T) {
	e := newTestExtractor()

	vec, err := e.Extract(`read "src/main.py" and tell me why it fails?`)
	if err != nil {
		t.Fatal(err)
	}

	for _, cue := range []string{
		"cue_has_file_extension",
		"cue_has_quoted_path",
		"cue_imperative_start",
		"cue_has_question",
	} {
		if vec[cue] != 1.0 {
			t.Errorf("expected %s = 1.0, got %f", cue, vec[cue])
		}
	}
}

func TestExtract_PoliteRequestChinese(t *testing.T) {
	e := newTestExtractor()

	vec, err := e.Extract("請幫我讀取 main.py 文件")
	if err != nil {
		t.Fatal(err)
	}

	if vec["cue_polite_request"] != 1.0 {
		t.Errorf("expected polite_request cue for 請幫我, got %f", vec["cue_polite_request"])
	}
	if vec["cue_has_file_extension"] != 1.0 {
		t.Errorf("expected file extension cue for main.py, got %f", vec["cue_has_file_extension"])
	}
}

func TestExtract_DisabledCueNotEmitted(t *testing.T) {
	cfg := config.NewConfig().Features
	cfg.Cues = []string{"has_question"}
	e := NewExtractor(cfg, nil)

	vec, err := e.Extract("read main.py")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := vec["cue_has_file_extension"]; ok {
		t.Error("disabled cue has_file_extension should not be emitted")
	}
}

func TestTokenize_HanRunesSplit(t *testing.T) {
	tokens := Tokenize("讀取main.py")

	want := []string{"讀", "取", "main.py"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %v, got %v", want, tokens)
	}
}

func TestTokenize_PunctuationSplits(t *testing.T) {
	tokens := Tokenize("fix the bug, then re-run tests.")

	want := []string{"fix", "the", "bug", "then", "re", "run", "tests"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %v, got %v", want, tokens)
	}
}

func TestExtract_IDFScaling(t *testing.T) {
	corpus := []string{
		"read the file",
		"read the config",
		"write a parser",
	}
	idf := BuildIDFTable(corpus)

	cfg := config.NewConfig().Features
	cfg.UseIDF = true
	cfg.StopWords = nil
	e := NewExtractor(cfg, idf)

	vec, err := e.Extract("read parser")
	if err != nil {
		t.Fatal(err)
	}

	// "read" appears in 2 of 3 docs, "parser" in 1 of 3: parser must
	// carry the larger weight.
	if vec["word_parser"] <= vec["word_read"] {
		t.Errorf("rare token should outweigh common token: parser=%f read=%f",
			vec["word_parser"], vec["word_read"])
	}
}

func TestFingerprint_SensitiveToConfig(t *testing.T) {
	base := newTestExtractor()

	changed := config.NewConfig().Features
	changed.StopWords = append(changed.StopWords, "kindly")
	other := NewExtractor(changed, nil)

	if base.Fingerprint() == other.Fingerprint() {
		t.Error("fingerprint should change when stop words change")
	}
	if base.Fingerprint() != newTestExtractor().Fingerprint() {
		t.Error("fingerprint should be stable for identical config")
	}
}
