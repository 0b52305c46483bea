package segment

import (
	"embed"
	"fmt"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// The sentences module compiles in only the English model; the other Punkt
// training sets are vendored from its data directory (MIT, see punkt/LICENSE.md).
//
//go:embed punkt/*.json
var punktData embed.FS

// punktTraining maps a base language code to the bundled Punkt training set.
// These are the languages with abbreviation-aware rules for ". ! ?" boundaries.
var punktTraining = map[string]string{
	"cs": "czech",
	"da": "danish",
	"de": "german",
	"el": "greek",
	"en": "english",
	"es": "spanish",
	"et": "estonian",
	"fi": "finnish",
	"fr": "french",
	"it": "italian",
	"nl": "dutch",
	"no": "norwegian",
	"nb": "norwegian",
	"nn": "norwegian",
	"pl": "polish",
	"pt": "portuguese",
	"sl": "slovene",
	"sv": "swedish",
	"tr": "turkish",
}

type punktModel struct {
	name      string
	tokenizer *sentences.DefaultSentenceTokenizer
}

func (m *punktModel) split(text string) []string {
	found := m.tokenizer.Tokenize(text)
	out := make([]string, 0, len(found))
	for _, s := range found {
		out = append(out, s.Text)
	}
	return out
}

func loadPunktModels() (map[string]*punktModel, error) {
	byName := make(map[string]*punktModel)
	models := make(map[string]*punktModel, len(punktTraining))

	for code, name := range punktTraining {
		if m, ok := byName[name]; ok {
			models[code] = m
			continue
		}

		m, err := loadPunktModel(name)
		if err != nil {
			return nil, err
		}
		byName[name] = m
		models[code] = m
	}

	return models, nil
}

func loadPunktModel(name string) (*punktModel, error) {
	// English ships with extra word rules on top of its training data.
	if name == "english" {
		t, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return nil, fmt.Errorf("english tokenizer: %w", err)
		}
		return &punktModel{name: name, tokenizer: t}, nil
	}

	b, err := punktData.ReadFile("punkt/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%s training data: %w", name, err)
	}
	training, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, fmt.Errorf("%s training data: %w", name, err)
	}

	return &punktModel{name: name, tokenizer: sentences.NewSentenceTokenizer(training)}, nil
}
