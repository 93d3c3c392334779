package match

import "unicode/utf8"

// EditDistance returns the Levenshtein distance between a and b, counted in
// runes: the number of single-rune insertions, deletions or substitutions
// turning one into the other.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// row[j] holds the distance between the current prefix of ra and rb[:j]
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i, ca := range ra {
		diag := row[0]
		row[0] = i + 1

		for j, cb := range rb {
			sub := diag
			if ca != cb {
				sub++
			}

			diag = row[j+1]
			row[j+1] = min(row[j+1]+1, row[j]+1, sub)
		}
	}

	return row[len(rb)]
}

// Similarity scales the edit distance into [0, 1], 1 meaning equal.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(EditDistance(a, b))/float64(longest)
}

// NameSimilarity compares two member names after NormalizeIdent, so that
// spelling conventions do not count as edits.
func NameSimilarity(a, b string) float64 {
	return Similarity(NormalizeIdent(a), NormalizeIdent(b))
}
