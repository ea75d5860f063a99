// Package obo parses the OBO ontology exchange format into the semantic
// graph types of the cv package.
//
// The format is line oriented: a header of tag:value lines, then [Term] and
// [Typedef] stanzas whose repeated tags form ordered multimaps. The parser
// expands the tags that carry structure — is_a references, typed
// relationships, the quoted synonym sub-grammar, value-typed xrefs and
// property values — and retains everything else verbatim in the entity's
// attribute bag. Dangling references within the graph are tolerated;
// malformed grammar and stanzas without an id are not.
//
// Vocabularies are usually built through Load or LoadFile, which also attach
// the document header as vocabulary metadata and transparently decode
// gzip-compressed sources.
package obo
