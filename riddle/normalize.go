package riddle

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// stopWords are dropped from guesses and answers before comparison, so
// "a piano" and "piano" grade the same.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"it": {}, "its": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"my": {}, "your": {}, "his": {}, "her": {}, "their": {},
}

// Normalize canonicalizes text for comparison: lowercase, drop stop-words,
// strip common inflection suffixes, rejoin single-spaced. It is deterministic
// and idempotent.
func Normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		tok = strings.Trim(tok, ".,!?;:\"'`")
		if tok == "" {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tok = lemma(tok)
		// a stripped suffix can land on a stop word ("ares" -> "are")
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// lemma reduces a token to a crude stem by stripping inflection suffixes
// until no rule applies, so the result is a fixpoint and Normalize stays
// idempotent.
func lemma(tok string) string {
	for {
		next := stripSuffix(tok)
		if next == tok {
			return tok
		}
		tok = next
	}
}

func stripSuffix(tok string) string {
	switch {
	case strings.HasSuffix(tok, "'s"):
		return strings.TrimSuffix(tok, "'s")
	case len(tok) > 5 && strings.HasSuffix(tok, "ing"):
		return strings.TrimSuffix(tok, "ing")
	case len(tok) > 4 && strings.HasSuffix(tok, "ies"):
		return strings.TrimSuffix(tok, "ies") + "y"
	case len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss"):
		return strings.TrimSuffix(tok, "s")
	}
	return tok
}

// Matcher decides whether a normalized guess matches a normalized answer.
type Matcher interface {
	Match(guess, answer string) bool
}

// ExactMatcher grades a guess correct only on exact equality of the
// normalized forms. An empty guess matches only an empty answer.
type ExactMatcher struct{}

func (ExactMatcher) Match(guess, answer string) bool {
	g, a := Normalize(guess), Normalize(answer)
	if g == "" || a == "" {
		return g == "" && a == ""
	}
	return g == a
}

// FuzzyMatcher grades on Levenshtein similarity of the normalized forms.
// A threshold of 1.0 degenerates to exact matching; anything below the
// threshold is simply incorrect, there is no partial credit.
type FuzzyMatcher struct {
	Threshold float64
}

func (m FuzzyMatcher) Match(guess, answer string) bool {
	g, a := Normalize(guess), Normalize(answer)
	if g == "" || a == "" {
		return g == "" && a == ""
	}
	if g == a {
		return true
	}
	dist := fuzzy.LevenshteinDistance(g, a)
	longest := len([]rune(g))
	if l := len([]rune(a)); l > longest {
		longest = l
	}
	sim := 1.0 - float64(dist)/float64(longest)
	return sim >= m.Threshold
}
