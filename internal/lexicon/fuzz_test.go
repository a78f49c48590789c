package lexicon

import (
	"math"
	"testing"
)

func FuzzAnalyze(f *testing.F) {
	f.Add("great service")
	f.Add("not very good at all")
	f.Add("")
	f.Add("123 !!! ???")
	f.Add("absolutely absolutely terrible")

	a := New()
	f.Fuzz(func(t *testing.T, s string) {
		r := a.Analyze(s)

		if r.Polarity < -1 || r.Polarity > 1 {
			t.Errorf("polarity out of range: %v", r.Polarity)
		}
		if r.Subjectivity < 0 || r.Subjectivity > 1 {
			t.Errorf("subjectivity out of range: %v", r.Subjectivity)
		}
		if math.IsNaN(r.Polarity) || math.IsNaN(r.Subjectivity) {
			t.Errorf("NaN score for %q", s)
		}
		if len(r.Matched) == 0 && (r.Polarity != 0 || r.Subjectivity != 0) {
			t.Errorf("non-zero score without matches: %v", r)
		}
	})
}
