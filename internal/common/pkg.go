package common

import (
	"path"
	"regexp"
	"strings"
)

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

var majorVersionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Major version elements ("/v2") and gopkg.in style suffixes (".v3") are skipped,
// and characters that are not valid in identifiers are replaced with underscores.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if majorVersionSuffix.MatchString(base) {
		if parent := path.Dir(pkgPath); parent != "." {
			base = path.Base(parent)
		}
	}

	if i := strings.Index(base, ".v"); i > 0 && majorVersionSuffix.MatchString(base[i+1:]) {
		base = base[:i]
	}

	return strings.Map(func(r rune) rune {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}

		return '_'
	}, base)
}
