// Package semvocab provides a controlled-vocabulary engine for scientific
// data annotation: loading OBO-format ontologies, resolving free-form term
// queries, and building typed, unit-checked annotations.
//
// # Architecture
//
// SemVocab is organized as three layers over a shared infrastructure base:
//
//	┌─────────────────────────────────────┐
//	│           Resolver                  │  Cross-vocabulary lookup,
//	│  (lookup, annotation building)      │  unit validation
//	└─────────────────────────────────────┘
//	           ↓ queries
//	┌─────────────────────────────────────┐
//	│          Vocabularies               │  Term graph, lookup indices,
//	│   (terms, hierarchy, value types)   │  type derivation
//	└─────────────────────────────────────┘
//	           ↓ built from
//	┌─────────────────────────────────────┐
//	│          OBO Parser                 │  Header, stanzas, synonyms,
//	│  (line decoder, stanza packer)      │  xref/property_value decoding
//	└─────────────────────────────────────┘
//
// Vocabularies are immutable after load. Every index and memoization cache
// is populated either at construction or through pure derivations, so a
// loaded vocabulary can be shared across goroutines without coordination.
//
// # Packages
//
// Core:
//   - obo: OBO document parsing and vocabulary loading (plain or gzip)
//   - cv: term graph, lookup indices, XSD value-type machinery
//   - resolver: multi-vocabulary resolution and annotation building
//
// Infrastructure:
//   - config: JSON configuration with environment overrides, YAML catalogs
//   - metric: Prometheus metrics registry and exposition server
//   - errors: structured error handling with severity classification
//   - pkg/cache: generic memoization caches with hit/miss statistics
//
// # Usage
//
// Load a vocabulary and resolve terms:
//
//	vocab, _ := obo.LoadFile("psi-ms.obo.gz")
//	term, _ := vocab.Term("m/z array")        // by name, synonym, or accession
//
// Resolve across several vocabularies and build annotations:
//
//	res := resolver.New([]cv.Provider{ms, uo})
//	param, _ := res.BuildAnnotation(resolver.Pair{
//	    Name:  "scan start time",
//	    Value: 25.1,
//	})
//
// The resolver canonicalizes names and accessions, prefers live terms over
// obsolete ones across vocabularies, fills in declared units, and reports
// unit mismatches as warnings rather than failures.
//
// # Binary
//
// The semvocab command loads a catalog of vocabularies and exposes them on
// the command line:
//
//	semvocab --catalog=catalog.yaml validate
//	semvocab --catalog=catalog.yaml lookup "m/z array" MS:1000040
//	semvocab --catalog=catalog.yaml annotate "scan start time=25.1"
package semvocab
