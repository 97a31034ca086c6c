// Package registry holds the named schemas of a documentation set.
//
// A [Builder] collects resource declarations and links them in two passes:
// schemas are built first (with inherited properties folded in), then each
// schema is registered as a subtype of every declared ancestor. The
// resulting [Registry] is immutable and safe for concurrent use.
//
//	reg, err := registry.RegisterAll(resources, registry.WithLogger(logger))
//	if err != nil {
//		// some declarations could not be built; reg holds the rest
//	}
//	s, found := reg.Resolve("microsoft.graph.user", exampleJSON)
//
// [Registry.Resolve] degrades gracefully: an undocumented type is inferred
// from the supplied example with a MissingResource warning, and only a type
// with no example to fall back on is reported as an error.
package registry
