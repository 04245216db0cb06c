// Package suggest ranks candidate values against a user's input by textual
// similarity. The scoring algorithm sits behind Scorer so the validation
// layer never depends on a particular metric.
package suggest

import (
	"sort"
	"strings"
)

const (
	// MaxResults caps how many corrections are offered.
	MaxResults = 3
	// MinScore drops candidates too dissimilar to be useful.
	MinScore = 0.4
)

// Scorer rates how closely candidate matches input, normalized to [0, 1].
type Scorer interface {
	Score(input, candidate string) float64
}

type Candidate struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// Rank scores every candidate against input and returns at most MaxResults
// of them, best first, ties broken lexicographically. The input itself is
// never suggested back.
func Rank(s Scorer, input string, candidates []string) []Candidate {
	var ranked []Candidate
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c == input || seen[c] {
			continue
		}
		seen[c] = true
		score := s.Score(input, c)
		if score < MinScore {
			continue
		}
		ranked = append(ranked, Candidate{Value: c, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Value < ranked[j].Value
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}

// Top is Rank reduced to the candidate values.
func Top(s Scorer, input string, candidates []string) []string {
	ranked := Rank(s, input, candidates)
	values := make([]string, len(ranked))
	for i, c := range ranked {
		values[i] = c.Value
	}
	return values
}

// JaroWinkler scores by Jaro similarity with the Winkler common-prefix
// boost. Comparison is case-insensitive.
type JaroWinkler struct{}

func (JaroWinkler) Score(input, candidate string) float64 {
	a := []rune(strings.ToLower(input))
	b := []rune(strings.ToLower(candidate))

	sim := jaro(a, b)
	if sim == 0 {
		return 0
	}

	// Common prefix up to 4 runes, standard 0.1 scaling.
	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < 4 && a[prefix] == b[prefix] {
		prefix++
	}
	return sim + float64(prefix)*0.1*(1-sim)
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchA := make([]bool, len(a))
	matchB := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi > len(b)-1 {
			hi = len(b) - 1
		}
		for j := lo; j <= hi; j++ {
			if matchB[j] || a[i] != b[j] {
				continue
			}
			matchA[i] = true
			matchB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range a {
		if !matchA[i] {
			continue
		}
		for !matchB[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
