// Package analyze builds the type-descriptor table the projection planner
// works against.
//
// The table can be produced two ways: from real Go packages, loaded with
// golang.org/x/tools/go/packages and go/types, or from a synthetic YAML
// description used by tests and by the --table mode of the CLI. Either way
// the planner never touches go/types directly.
//
// Key types:
//   - TypeID: name, package path, canonical form and nullability of a type
//   - TypeInfo: kind, element types, members, constructors and enumerants
//   - TypeRef: a use of a TypeInfo, possibly nullable (a Go pointer)
//   - Shape: whether a type is a scalar or an iterable of some element
//   - TypeTable: every known type keyed by canonical form
package analyze
