package article

import (
	"regexp"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer splits text into dictionary-form words.
type Tokenizer interface {
	Words(text string) []string
}

// NewTokenizer returns the tokenizer for an etymology language code.
// Japanese ("jpn") needs morphological analysis; everything else is split
// on letters.
func NewTokenizer(language string) (Tokenizer, error) {
	if language == "jpn" {
		return newJapanese()
	}
	return letters{}, nil
}

var reWord = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

type letters struct{}

// Words returns the lowercased letter runs of text.
func (letters) Words(text string) []string {
	matches := reWord.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.ToLower(m)
	}
	return matches
}

// skippedPOS are IPA part-of-speech classes that never carry etymology:
// symbols, particles and auxiliary verbs.
var skippedPOS = map[string]bool{
	"記号":   true,
	"補助記号": true,
	"助詞":   true,
	"助動詞":  true,
}

type japanese struct {
	t *tokenizer.Tokenizer
}

func newJapanese() (*japanese, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &japanese{t: t}, nil
}

// Words returns the base form of each content word in text.
func (j *japanese) Words(text string) []string {
	var words []string
	for _, token := range j.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		// IPA features: 0 is the part of speech, 6 the base form.
		features := token.Features()
		if len(features) > 0 && skippedPOS[features[0]] {
			continue
		}
		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		words = append(words, base)
	}
	return words
}
