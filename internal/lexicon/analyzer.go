package lexicon

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"feedback_analyzer/internal/domain"
)

// maxInputBytes caps the text scored. Analyze returns a zero Assessment for
// longer input and Score rejects it.
const maxInputBytes = 1 << 20 // 1 MiB

// Assessment is the full scoring output for one text.
type Assessment struct {
	Polarity     float64  `json:"polarity"`
	Subjectivity float64  `json:"subjectivity"`
	Matched      []string `json:"matched"` // lexicon words that contributed, in order
}

func (a Assessment) String() string {
	return fmt.Sprintf("polarity=%.3f subjectivity=%.3f matched=%v", a.Polarity, a.Subjectivity, a.Matched)
}

// Analyzer holds the word and modifier tables.
type Analyzer struct {
	words     map[string]entry
	modifiers map[string]float64
}

// New returns an Analyzer over the embedded tables.
func New() *Analyzer {
	return newFromTables(rawLexicon, rawModifiers)
}

func newFromTables(lexicon, modifiers string) *Analyzer {
	return &Analyzer{
		words:     parseLexicon(lexicon),
		modifiers: parseModifiers(modifiers),
	}
}

// Analyze scores text. Empty, oversized or unknown-word text returns a zero
// Assessment.
func (a *Analyzer) Analyze(text string) Assessment {
	if len(text) > maxInputBytes {
		return Assessment{}
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Assessment{}
	}

	var (
		sumPol  float64
		sumSubj float64
		matched []string
	)
	for i, tok := range tokens {
		e, ok := a.words[tok]
		if !ok {
			continue
		}
		pol, subj := e.polarity, e.subjectivity

		j := i - 1
		if j >= 0 {
			if m, ok := a.modifiers[tokens[j]]; ok {
				pol *= m
				subj *= m
				j--
			}
		}
		if j >= 0 && isNegation(tokens[j]) {
			pol *= negationFactor
		}

		sumPol += clamp(pol, -1, 1)
		sumSubj += clamp(subj, 0, 1)
		matched = append(matched, tok)
	}

	if len(matched) == 0 {
		return Assessment{}
	}
	n := float64(len(matched))
	return Assessment{
		Polarity:     clamp(sumPol/n, -1, 1),
		Subjectivity: clamp(sumSubj/n, 0, 1),
		Matched:      matched,
	}
}

// Score implements domain.SentimentOracle. It fails only for text over
// maxInputBytes.
func (a *Analyzer) Score(_ context.Context, text string) (domain.Score, error) {
	if len(text) > maxInputBytes {
		return domain.Score{}, fmt.Errorf("%w: %d bytes (max %d)", domain.ErrTextTooLong, len(text), maxInputBytes)
	}
	r := a.Analyze(text)
	return domain.Score{Polarity: r.Polarity, Subjectivity: r.Subjectivity}, nil
}

// tokenize lowercases and splits on anything that is not a letter.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
