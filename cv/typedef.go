package cv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/c360/semvocab/errors"
)

// Machinery for interpreting XSD data type declarations in vocabulary files
// and mapping annotation values to and from Go types.

// ParseFunc coerces a raw string into a typed value.
type ParseFunc func(string) (any, error)

// FormatFunc renders a typed value back to its wire representation.
type FormatFunc func(any) string

// dateTimeLayout is the fixed timestamp format vocabularies declare
// through xsd:dateTime.
const dateTimeLayout = "2006-01-02T15:04:05"

const dateLayout = "2006-01-02"

var xsdPattern = regexp.MustCompile(`(?:value-type:)?xsd\\?:([^"]+)`)

func parseInteger(s string) (any, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q is not an integer", errors.ErrTypeCoercion, s),
			"cv", "parseInteger", "coerce value")
	}
	return v, nil
}

func parseFloat(s string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q is not a number", errors.ErrTypeCoercion, s),
			"cv", "parseFloat", "coerce value")
	}
	return v, nil
}

func parseString(s string) (any, error) {
	return s, nil
}

func parseBoolean(s string) (any, error) {
	return strings.EqualFold(strings.TrimSpace(s), "true"), nil
}

func parseNonNegativeInteger(s string) (any, error) {
	v, err := parseInteger(s)
	if err != nil {
		return nil, err
	}
	if v.(int64) < 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: nonNegativeInteger cannot be negative (%q)", errors.ErrTypeCoercion, s),
			"cv", "parseNonNegativeInteger", "coerce value")
	}
	return v, nil
}

func parsePositiveInteger(s string) (any, error) {
	v, err := parseInteger(s)
	if err != nil {
		return nil, err
	}
	if v.(int64) < 1 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: positiveInteger cannot be less than 1 (%q)", errors.ErrTypeCoercion, s),
			"cv", "parsePositiveInteger", "coerce value")
	}
	return v, nil
}

func parseDateTime(s string) (any, error) {
	v, err := time.Parse(dateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q is not a dateTime", errors.ErrTypeCoercion, s),
			"cv", "parseDateTime", "coerce value")
	}
	return v, nil
}

func parseDate(s string) (any, error) {
	v, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q is not a date", errors.ErrTypeCoercion, s),
			"cv", "parseDate", "coerce value")
	}
	return v, nil
}

// formatValue is the fallback formatter: plain string conversion with
// booleans lowercased and timestamps in the declared layout.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(dateTimeLayout)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(v)
	}
}

func formatDate(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(dateLayout)
	}
	return formatValue(v)
}

type xsdType struct {
	parse  ParseFunc
	format FormatFunc
}

var xsdTypes = map[string]xsdType{
	"int":                {parseInteger, formatValue},
	"integer":            {parseInteger, formatValue},
	"double":             {parseFloat, formatValue},
	"float":              {parseFloat, formatValue},
	"decimal":            {parseFloat, formatValue},
	"string":             {parseString, formatValue},
	"anyURI":             {parseString, formatValue},
	"nonNegativeInteger": {parseNonNegativeInteger, formatValue},
	"positiveInteger":    {parsePositiveInteger, formatValue},
	"boolean":            {parseBoolean, formatValue},
	"dateTime":           {parseDateTime, formatValue},
	"date":               {parseDate, formatDate},
}

// ParseXSDType resolves an XSD type token, with or without the
// "value-type:xsd:" / "xsd:" wrapping, to its coercion pair. The boolean
// reports whether the token matched the XSD grammar at all; a matched but
// unrecognized type name degrades to string passthrough rather than failing,
// tolerating vocabulary evolution.
func ParseXSDType(text string) (ParseFunc, FormatFunc, bool) {
	m := xsdPattern.FindStringSubmatch(text)
	if m == nil {
		return parseString, formatValue, false
	}
	name := strings.TrimSpace(m[1])
	if t, ok := xsdTypes[name]; ok {
		return t.parse, t.format, true
	}
	return parseString, formatValue, true
}

// InferValue guesses a Go value for an untyped literal: integers, floats and
// booleans are recognized, "none" and the empty string become nil, anything
// else stays a string. Surrounding quotes are stripped first.
func InferValue(s string) any {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	lower := strings.ToLower(s)
	if lower == "" || lower == "none" {
		return nil
	}
	if looksNumeric(lower) {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
		return s
	}
	switch lower {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	return s
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return true
	}
	return len(s) > 1 && s[0] == '-' && s[1] >= '0' && s[1] <= '9'
}

// typeCandidate is one possible coercion for a term's value, tried in
// declaration order of the term's has_value_type edges.
type typeCandidate struct {
	parse  ParseFunc
	format FormatFunc
}

// TypeDefinition is an immutable pair of parse and format behavior bound to
// the vocabulary term that declared it.
//
// A definition built directly from a single XSD primitive is strict: Parse
// propagates the coercion error. A definition derived from a term's
// has_value_type relationships tries each candidate in order and, when every
// candidate fails, returns the input value unchanged — ontology authors
// sometimes declare several overlapping value types and downstream writers
// must not abort on a single odd value.
type TypeDefinition struct {
	ID     string
	Name   string
	IsList bool

	candidates []typeCandidate
	strict     bool
}

// NewTypeDefinition builds a strict scalar definition from one coercion pair.
func NewTypeDefinition(id, name string, parse ParseFunc, format FormatFunc) *TypeDefinition {
	return &TypeDefinition{
		ID:         id,
		Name:       name,
		candidates: []typeCandidate{{parse, format}},
		strict:     true,
	}
}

// NewXSDTypeDefinition builds a strict definition from an XSD type token.
func NewXSDTypeDefinition(token string) *TypeDefinition {
	parse, format, _ := ParseXSDType(token)
	return NewTypeDefinition(token, token, parse, format)
}

func newDerivedType(id, name string, isList bool, candidates []typeCandidate) *TypeDefinition {
	return &TypeDefinition{
		ID:         id,
		Name:       name,
		IsList:     isList,
		candidates: candidates,
	}
}

// AsList returns a list-of variant of this definition, applying the same
// coercion pair over a comma-separated sequence.
func (td *TypeDefinition) AsList() *TypeDefinition {
	out := *td
	out.IsList = true
	return &out
}

// Parse coerces a raw value. For list definitions the value is tokenized on
// commas, empty tokens dropped, and each element parsed individually.
func (td *TypeDefinition) Parse(value string) (any, error) {
	if td.IsList {
		return td.parseList(value)
	}
	return td.parseScalar(value)
}

func (td *TypeDefinition) parseScalar(value string) (any, error) {
	if len(td.candidates) == 0 {
		return value, nil
	}
	var lastErr error
	for _, c := range td.candidates {
		v, err := c.parse(value)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if td.strict {
		return nil, lastErr
	}
	// Every candidate refused: degrade to the raw value rather than
	// propagating, so one odd annotation cannot abort a whole write.
	return value, nil
}

func (td *TypeDefinition) parseList(value string) (any, error) {
	var out []any
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := td.parseScalar(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Format renders a typed value back to text. List definitions join their
// elements with commas.
func (td *TypeDefinition) Format(value any) string {
	if td.IsList {
		if items, ok := value.([]any); ok {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = td.formatScalar(item)
			}
			return strings.Join(parts, ",")
		}
	}
	return td.formatScalar(value)
}

func (td *TypeDefinition) formatScalar(value any) string {
	if len(td.candidates) > 0 {
		return td.candidates[0].format(value)
	}
	return formatValue(value)
}

// identityType is the default when a term declares no value type at all.
func identityType(id, name string) *TypeDefinition {
	return newDerivedType(id, name, false, nil)
}

// listOfTypeName is the term name whose ancestry marks list-valued types.
const listOfTypeName = "list of type"

// ValueType lazily derives the parse/format behavior for values annotated
// with this term, memoized per (vocabulary, term id).
//
// The scalar type comes from the term's has_value_type edges tried in
// declaration order: an edge naming an XSD token resolves to the primitive
// coercer, an edge naming another term recurses into that term's value
// type. Terms classified under "list of type" wrap the scalar type over a
// comma-separated sequence. Terms with no has_value_type edge default to
// string passthrough, as does a cyclic has_value_type chain.
func (e *Entity) ValueType() *TypeDefinition {
	return e.deriveValueType(make(map[string]struct{}))
}

func (e *Entity) deriveValueType(visiting map[string]struct{}) *TypeDefinition {
	if e.vocabulary != nil {
		if td, ok := e.vocabulary.typeDefs.Get(e.ID); ok {
			return td
		}
	}
	if _, cyclic := visiting[e.ID]; cyclic {
		return identityType(e.ID, e.Name)
	}
	visiting[e.ID] = struct{}{}

	var candidates []typeCandidate
	for _, rel := range e.Relationships(RelHasValueType) {
		if strings.Contains(rel.Accession, "xsd") {
			parse, format, _ := ParseXSDType(rel.Accession)
			candidates = append(candidates, typeCandidate{parse, format})
			continue
		}
		if e.vocabulary == nil {
			continue
		}
		target, err := e.vocabulary.Term(rel.Accession)
		if err != nil {
			continue
		}
		sub := target.deriveValueType(visiting)
		candidates = append(candidates, typeCandidate{
			parse:  func(s string) (any, error) { return sub.Parse(s) },
			format: func(v any) string { return sub.Format(v) },
		})
	}

	td := newDerivedType(e.ID, e.Name, e.IsOfType(listOfTypeName), candidates)
	if e.vocabulary != nil {
		// Redundant population from concurrent callers is harmless: the
		// derivation is pure, so last-write-wins stores an equivalent value.
		_, _ = e.vocabulary.typeDefs.Set(e.ID, td)
	}
	return td
}
