// Package segment splits entry text into ordered sentences.
//
// A Segmenter is built once at startup: the Punkt models and the CJK
// dictionaries are expensive to load, and after construction every table is
// read-only, so one value is shared by all requests.
package segment

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Full-width terminators that end a Japanese or Chinese sentence.
var cjkTerminators = []string{"。", "！", "？"}

// Options selects which tokenizers are loaded. A disabled tokenizer falls
// back to a plain terminator scan for its language.
type Options struct {
	Punkt    bool
	Japanese bool
	Chinese  bool
}

// DefaultOptions enables every tokenizer.
func DefaultOptions() Options {
	return Options{Punkt: true, Japanese: true, Chinese: true}
}

// wordTokenizer turns text into surface words that concatenate back into the
// text, modulo whitespace.
type wordTokenizer interface {
	Words(text string) []string
}

// Segmenter splits raw text into sentences using a per-language strategy.
type Segmenter struct {
	punkt    map[string]*punktModel
	japanese wordTokenizer
	chinese  wordTokenizer
}

// New builds a Segmenter, loading the tokenizers enabled in opts.
func New(opts Options) (*Segmenter, error) {
	s := &Segmenter{punkt: map[string]*punktModel{}}

	if opts.Punkt {
		models, err := loadPunktModels()
		if err != nil {
			return nil, fmt.Errorf("segment: load punkt models: %w", err)
		}
		s.punkt = models
	}

	if opts.Japanese {
		ja, err := newKagomeTokenizer()
		if err != nil {
			return nil, fmt.Errorf("segment: load japanese tokenizer: %w", err)
		}
		s.japanese = ja
	}

	if opts.Chinese {
		zh, err := newGseTokenizer()
		if err != nil {
			return nil, fmt.Errorf("segment: load chinese tokenizer: %w", err)
		}
		s.chinese = zh
	}

	return s, nil
}

// Segment splits text into trimmed, non-empty sentences according to the
// rules of languageCode. The title of an entry is never passed here.
func (s *Segmenter) Segment(text, languageCode string) []string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return nil
	}

	base := baseLanguage(languageCode)

	var raw []string
	switch {
	case s.punkt[base] != nil:
		raw = s.punkt[base].split(text)
	case base == "ja":
		raw = splitOnTerminators(text, words(s.japanese, text))
	case base == "zh":
		raw = splitOnTerminators(text, words(s.chinese, text))
	default:
		raw = splitGeneric(text)
	}

	return clean(raw)
}

// Strategy names the rule Segment applies to languageCode. It is used in
// logs and by the lcctl tool.
func (s *Segmenter) Strategy(languageCode string) string {
	base := baseLanguage(languageCode)
	switch {
	case s.punkt[base] != nil:
		return "punkt:" + s.punkt[base].name
	case base == "ja" && s.japanese != nil:
		return "kagome"
	case base == "zh" && s.chinese != nil:
		return "gse"
	case base == "ja" || base == "zh":
		return "terminators"
	default:
		return "generic"
	}
}

func baseLanguage(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// words tokenizes text, or splits it into single runes when no tokenizer is
// loaded so that the terminator scan still works.
func words(t wordTokenizer, text string) []string {
	if t != nil {
		return t.Words(text)
	}
	out := make([]string, 0, len(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

func clean(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, sentence := range raw {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			out = append(out, sentence)
		}
	}
	return out
}
