package riddle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "A Piano", want: "piano"},
		{in: "the   quick  brown fox", want: "quick brown fox"},
		{in: "It is a piano!", want: "piano"},
		{in: "candles", want: "candle"},
		{in: "an echo", want: "echo"},
		{in: "", want: ""},
		{in: "the a an is", want: ""},
		{in: "Towel's", want: "towel"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"A Piano",
		"running houses cookies",
		"ares ises",
		"the quick brown foxes jumping",
		"what has keys but can't open locks?",
		"",
		"  lots   of   spacing  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestExactMatcher(t *testing.T) {
	m := ExactMatcher{}

	assert.True(t, m.Match("piano", "a piano"))
	assert.True(t, m.Match("A Piano!", "a piano"))
	assert.False(t, m.Match("guitar", "a piano"))
	assert.False(t, m.Match("pian", "a piano"))
}

func TestExactMatcherEmptyGuard(t *testing.T) {
	m := ExactMatcher{}

	// an empty guess must never match a real answer
	assert.False(t, m.Match("", "a piano"))
	assert.False(t, m.Match("the a an", "a piano"))
	// both sides empty is defined as a match
	assert.True(t, m.Match("the", "a"))
}

func TestFuzzyMatcher(t *testing.T) {
	near := FuzzyMatcher{Threshold: 0.8}
	assert.True(t, near.Match("pianno", "a piano"))
	assert.False(t, near.Match("guitar", "a piano"))

	// threshold 1.0 degenerates to exact matching
	strict := FuzzyMatcher{Threshold: 1.0}
	assert.True(t, strict.Match("piano", "a piano"))
	assert.False(t, strict.Match("pianno", "a piano"))
}
