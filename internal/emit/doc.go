// Package emit renders projection plans as Go source files.
//
// Every emittable graph entry becomes one file holding a single exported
// function. Nested projections are rendered inline as function literals, so
// a generated file never depends on another generated file. Plans carry
// path-qualified type names; a per-file qualifier rewrites them to package
// names and records the imports they need. Output goes through
// golang.org/x/tools/imports and gofumpt.
//
// Codegen patterns:
//   - Composite literal or constructor call, then member assignments
//   - Nil-safe nested projections (projector.MapPtr, projector.MapValue)
//   - Lazy element mapping (projector.Select) materialized per target shape
//   - Listing wrappers mapping whole sequences of sources
package emit
