package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Equal reports whether two projections are structurally equal.
func Equal(a, b *Projection) bool {
	return reflect.DeepEqual(a, b)
}

// Fingerprint returns a stable hash of the projection's structure. Two
// structurally equal projections have the same fingerprint across runs.
func Fingerprint(p *Projection) string {
	if p == nil {
		return ""
	}

	data, err := yaml.Marshal(ExportProjection(p))
	if err != nil {
		// the document holds plain strings and bools only
		panic(err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}
