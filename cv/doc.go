// Package cv implements the semantic graph at the heart of semvocab: terms
// (entities) connected by typed relationships, the controlled vocabulary
// that indexes them, and the value-type system that coerces annotation
// values.
//
// # Entities and the term graph
//
// An Entity is one ontology term: an ordered attribute bag plus typed
// relationship edges. Parent (is_a) and child links are stored as
// accessions and resolved through the owning Vocabulary's term arena, so
// the multi-parent graph carries no ownership cycles. Classification walks
// the reflexive-transitive closure of is_a:
//
//	term, _ := vocab.Term("MS:1000514") // m/z array
//	term.IsOfType("MS:1000513")         // true: binary data array ancestry
//	term.IsOfType(term.ID)              // true: reflexive
//
// # Vocabularies
//
// A Vocabulary is an immutable, fully-loaded graph with indices by
// accession, exact name, lowercase-normalized name, and synonym. It
// implements Provider, the duck-typed contract the resolver package uses so
// that database-backed term sources can stand in for parsed OBO files.
//
// # Value types
//
// Terms may declare how their annotation values parse and format via
// has_value_type edges pointing at XSD primitives or at other terms.
// Entity.ValueType derives a TypeDefinition lazily, memoized per term on
// the owning vocabulary, wrapping it into a list type when the term
// descends from "list of type". Coercion failures degrade: a derived
// definition tries every declared candidate and finally returns the raw
// value rather than erroring.
package cv
