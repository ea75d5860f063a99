// Package resolver answers term queries across an ordered list of
// vocabulary providers and normalizes caller-supplied parameter specs into
// validated annotations.
//
// Lookup scans providers in priority order with one twist: a live term in a
// later provider beats an obsolete term in an earlier one. Source crediting
// (ResolveCVRef) is stricter — a query resolvable in more than one provider
// is an ambiguity error, never silently resolved by picking the first.
//
// BuildAnnotation accepts the loose shapes callers actually write (pairs,
// bare names, maps in snake_case or camelCase) and produces a CVParam,
// UserParam, or ParamGroupReference with canonical unit fields. Unit
// validation failures are logged warnings; the annotation is always
// produced.
package resolver
