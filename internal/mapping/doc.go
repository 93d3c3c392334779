// Package mapping normalizes the raw configuration attached to a target
// member into a MemberConfig.
//
// Raw configuration comes from struct tags, doc directives or a YAML
// descriptor table and is an untyped key/value bag. Extract is the only
// place that reads it; the resolver works on MemberConfig alone.
//
// # Keys
//
//	sourceName        name of the source member, defaults to the target member name
//	ignore            leave the member unset
//	useDefaultValue   set the member to defaultValue or to its zero value
//	defaultValue      literal default, "type:<path>.<Name>" for a type literal
//	conversionMethod  method of the context type converting the source value
//	expression        Go expression over $source
//	collectionShape   auto, enumerable, set, list or array
//	itemExpression    Go expression over one source element bound to $source
//
// Ignore wins over every other key.
package mapping
