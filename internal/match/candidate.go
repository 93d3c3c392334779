package match

import (
	"cmp"
	"slices"
)

// Candidate is a source member name scored against a wanted name.
type Candidate struct {
	Name  string
	Score float64 // NameSimilarity of the two names

	// Metadata for debugging/explanation
	NormalizedName string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every name against want.
// Returns candidates sorted by score (descending), then by name.
func RankCandidates(want string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, Candidate{
			Name:           name,
			Score:          NameSimilarity(want, name),
			NormalizedName: NormalizeIdent(name),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.Name, b.Name))
	})

	return candidates
}

// Above returns the candidates whose score is at least threshold.
func (c CandidateList) Above(threshold float64) CandidateList {
	var out CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if len(c) <= n {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in ranking order.
func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, cand := range c {
		names = append(names, cand.Name)
	}

	return names
}

// FindNormalized returns the single name equal to want after normalization.
func FindNormalized(want string, names []string) (string, bool) {
	norm := NormalizeIdent(want)

	var found []string
	for _, name := range names {
		if NormalizeIdent(name) == norm {
			found = append(found, name)
		}
	}

	if len(found) != 1 {
		return "", false
	}

	return found[0], true
}
