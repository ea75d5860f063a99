package cv

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360/semvocab/errors"
)

// Well-known relationship predicates used by the vocabulary engine.
const (
	RelIsA          = "is_a"
	RelPartOf       = "part_of"
	RelHasUnits     = "has_units"
	RelHasValueType = "has_value_type"
	RelHasOrder     = "has_order"
)

// Reference is a directed edge to another term, written in OBO as
// "ACCESSION ! comment" or as a bare "ACCESSION". The comment is purely
// documentary; identity is the accession alone.
type Reference struct {
	Accession string
	Comment   string
}

// ParseReference parses "ACCESSION ! comment" or "ACCESSION".
// Malformed input degrades to a reference whose accession is the whole
// string, mirroring how vocabulary files in the wild omit the comment.
func ParseReference(s string) Reference {
	before, after, found := strings.Cut(s, "!")
	if !found {
		return Reference{Accession: strings.TrimSpace(s)}
	}
	return Reference{
		Accession: strings.TrimSpace(before),
		Comment:   strings.TrimSpace(after),
	}
}

// Matches reports whether this reference points at the given accession.
func (r Reference) Matches(accession string) bool {
	return r.Accession == accession
}

func (r Reference) String() string {
	if r.Comment != "" {
		return fmt.Sprintf("%s ! %s", r.Accession, r.Comment)
	}
	return r.Accession
}

// Relationship is a typed directed edge: a predicate naming the
// relationship kind plus the target accession and an optional comment.
type Relationship struct {
	Predicate string
	Accession string
	Comment   string
}

var relationshipPattern = regexp.MustCompile(`^(\S+?):?\s+(\S+)\s*(?:!\s*(.*))?$`)

// ParseRelationship parses "PREDICATE ACCESSION ! comment" with the comment
// optional. A trailing colon on the predicate is tolerated and stripped.
func ParseRelationship(s string) (Relationship, error) {
	m := relationshipPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Relationship{}, errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrInvalidData, s),
			"cv", "ParseRelationship", "match relationship grammar")
	}
	return Relationship{
		Predicate: strings.TrimRight(m[1], ":"),
		Accession: m[2],
		Comment:   strings.TrimSpace(m[3]),
	}, nil
}

// Matches reports whether this relationship points at the given accession.
func (r Relationship) Matches(accession string) bool {
	return r.Accession == accession
}

func (r Relationship) String() string {
	if r.Comment != "" {
		return fmt.Sprintf("%s %s ! %s", r.Predicate, r.Accession, r.Comment)
	}
	return fmt.Sprintf("%s %s", r.Predicate, r.Accession)
}

// Reference converts the relationship to its untyped edge form.
func (r Relationship) Reference() Reference {
	return Reference{Accession: r.Accession, Comment: r.Comment}
}
