package segment

import (
	"slices"
	"strings"

	"github.com/go-ego/gse"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

type kagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

func newKagomeTokenizer() (*kagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &kagomeTokenizer{t: t}, nil
}

func (k *kagomeTokenizer) Words(text string) []string {
	tokens := k.t.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		out = append(out, token.Surface)
	}
	return out
}

type gseTokenizer struct {
	seg *gse.Segmenter
}

func newGseTokenizer() (*gseTokenizer, error) {
	// The embedded dictionary; LoadDict resolves files relative to the gse
	// source tree, which does not exist next to a deployed binary.
	var seg gse.Segmenter
	if err := seg.LoadDictEmbed("zh"); err != nil {
		return nil, err
	}
	return &gseTokenizer{seg: &seg}, nil
}

func (g *gseTokenizer) Words(text string) []string {
	return g.seg.Cut(text, true)
}

// splitOnTerminators walks the tokenizer's words through text and cuts a
// sentence after every word that is a full-width terminator. Sentences are
// sliced from text itself, so whitespace a tokenizer drops is kept. Text
// after the last terminator becomes the final sentence.
func splitOnTerminators(text string, words []string) []string {
	var out []string
	start, offset := 0, 0

	for _, w := range words {
		if w == "" {
			continue
		}
		idx := strings.Index(text[offset:], w)
		if idx < 0 {
			// Tokenizer normalised the word; keep scanning from where we are.
			continue
		}
		offset += idx + len(w)

		if slices.Contains(cjkTerminators, w) {
			out = append(out, text[start:offset])
			start = offset
		}
	}

	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
