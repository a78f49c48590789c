package analysis

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"The car was absolutely filthy and the staff was rude to us",
			"the car was absolutely filthy and the staff was rude to us"},
		{"Great service! The car was clean.", "great service the car was clean"},
		{"well-maintained", "wellmaintained"},
		{"5 stars!!! 10/10", "stars"},
		{"  multiple\t\tspaces\n\nand lines  ", "multiple spaces and lines"},
		{"Café déjà vu", "caf dj vu"},
		{"non\u00a0breaking", "non breaking"},
		{"\u212aelvin scale", "kelvin scale"},
		{"\u0130stanbul office", "istanbul office"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

var normalizedShape = regexp.MustCompile(`^([a-z]+( [a-z]+)*)?$`)

func FuzzNormalize(f *testing.F) {
	f.Add("Hello, World!")
	f.Add("  a  b  ")
	f.Add("Ünïcödé text\x00")
	f.Fuzz(func(t *testing.T, s string) {
		got := Normalize(s)
		if !normalizedShape.MatchString(got) {
			t.Fatalf("Normalize(%q) = %q has unexpected characters or spacing", s, got)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, got, again)
		}
	})
}
