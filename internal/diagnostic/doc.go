// Package diagnostic provides the structured errors, warnings and infos
// reported while planning projections.
//
// The projection core raises exactly two errors:
//   - PN0001: the target type has no usable constructor
//   - PN0002: the target type takes part in a circular projection dependency
//
// Everything else (closest-name hints, ignored configuration, lossy numeric
// conversions) is reported as
// an info or a warning and never stops generation.
package diagnostic
