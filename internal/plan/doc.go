// Package plan resolves projection types into mapping plans and builds the
// dependency graph between them.
//
// Planning pipeline:
//  1. Builder.Build turns one projection type into a Projection: the
//     constructor is selected and every parameter and settable member is
//     resolved into exactly one PropertyMapping.
//  2. BuildGraph finds the root projections, resolves the nested projections
//     each of them needs, and poisons every projection that reaches a cycle.
//  3. The emitter renders the emittable entries of the Graph.
//
// Expressions in a plan are Go source text over the $source and $context
// placeholders, with every type and function qualified by its full import
// path.
package plan
