// Package lexicon scores English text against an embedded word table.
//
// Each known word is an assessment carrying a polarity (-1..1) and a
// subjectivity (0..1). A modifier directly before a word ("very", "slightly")
// scales the assessment, and a negation before that ("not", "wasnt") flips
// its polarity at half strength. The text score is the mean of all
// assessments; text without known words scores 0/0.
//
// The Analyzer is read-only after construction and safe for concurrent use.
package lexicon

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed data/lexicon.txt
var rawLexicon string

//go:embed data/modifiers.txt
var rawModifiers string

// negationFactor is applied to the polarity of a negated assessment.
const negationFactor = -0.5

// negations are matched after normalization, so contractions have lost their
// apostrophe ("wasn't" -> "wasnt").
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nor": {}, "cannot": {},
	"dont": {}, "didnt": {}, "doesnt": {}, "isnt": {}, "wasnt": {},
	"arent": {}, "werent": {}, "wont": {}, "cant": {}, "couldnt": {},
	"wouldnt": {}, "shouldnt": {}, "hardly": {}, "barely": {},
}

type entry struct {
	polarity     float64
	subjectivity float64
}

// parseTable parses tab-separated "word\tv1[\tv2]" lines, skipping comments
// and lines that do not carry `cols` numeric values.
func parseTable(raw string, cols int) map[string][]float64 {
	m := make(map[string][]float64, 256)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != cols+1 {
			continue
		}
		vals := make([]float64, 0, cols)
		for _, p := range parts[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				break
			}
			vals = append(vals, v)
		}
		if len(vals) != cols {
			continue
		}
		m[strings.ToLower(strings.TrimSpace(parts[0]))] = vals
	}
	return m
}

func parseLexicon(raw string) map[string]entry {
	table := parseTable(raw, 2)
	out := make(map[string]entry, len(table))
	for w, v := range table {
		out[w] = entry{polarity: clamp(v[0], -1, 1), subjectivity: clamp(v[1], 0, 1)}
	}
	return out
}

func parseModifiers(raw string) map[string]float64 {
	table := parseTable(raw, 1)
	out := make(map[string]float64, len(table))
	for w, v := range table {
		out[w] = v[0]
	}
	return out
}

func isNegation(word string) bool {
	_, ok := negations[word]
	return ok
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
