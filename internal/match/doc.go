// Package match provides identifier normalization and Levenshtein-based
// name ranking.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Pascalize / Camelize: convert between parameter, field and variable names
//   - EditDistance / NameSimilarity: score how close two member names are
//   - RankCandidates: ranks source member names against a missing one
package match
