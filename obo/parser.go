package obo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
)

// Header is the parsed OBO document header: an ordered multimap of the
// tag:value lines appearing before the first stanza.
type Header map[string][]string

// Get returns the first value recorded under tag, or the empty string.
func (h Header) Get(tag string) string {
	if vals := h[tag]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Version returns the data-version header tag.
func (h Header) Version() string {
	return h.Get("data-version")
}

// Name returns the ontology header tag, uppercased.
func (h Header) Name() string {
	return strings.ToUpper(h.Get("ontology"))
}

// Document is the result of parsing one OBO source: the header plus the
// packed term arena. IDs preserves stanza declaration order; the arena is
// keyed by accession.
type Document struct {
	Header Header
	Terms  map[string]*cv.Entity

	ids       []string
	vocabOpts []cv.Option
}

// IDs returns the term accessions in stanza declaration order.
func (d *Document) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

// InferenceRule overrides the default loose type inference for one xref tag.
type InferenceRule func(string) (any, error)

// Option configures a parse.
type Option func(*parser)

// WithInferenceRule installs a per-tag coercion for untyped xref values,
// replacing the default guess for that tag.
func WithInferenceRule(tag string, rule InferenceRule) Option {
	return func(p *parser) {
		p.inferenceRules[tag] = rule
	}
}

// WithVocabularyOption forwards an option to the vocabulary built by Load
// and LoadFile, e.g. to override the header-derived id or name.
func WithVocabularyOption(opt cv.Option) Option {
	return func(p *parser) {
		p.vocabOpts = append(p.vocabOpts, opt)
	}
}

// stanza accumulates the raw tag:value lines of one [Term] or [Typedef]
// block before packing.
type stanza struct {
	kind  cv.Kind
	tags  map[string][]string
	order []string
}

func newStanza(kind cv.Kind) *stanza {
	return &stanza{kind: kind, tags: make(map[string][]string)}
}

func (s *stanza) add(tag, value string) {
	if _, seen := s.tags[tag]; !seen {
		s.order = append(s.order, tag)
	}
	s.tags[tag] = append(s.tags[tag], value)
}

type parser struct {
	header         Header
	terms          map[string]*cv.Entity
	ids            []string
	inferenceRules map[string]InferenceRule
	vocabOpts      []cv.Option
}

// Parse reads an OBO document from r and packs it into a semantic graph.
//
// The line grammar is handled here; the synonym sub-grammar is delegated to
// ParseSynonym and edge grammars to the cv package. Header lines missing a
// colon, malformed synonyms, malformed relationships, and stanzas without an
// id tag all abort the parse. Unknown tags are retained verbatim in the
// entity's attribute bag. After packing, a post-pass binds child and part
// back-references; dangling edges are skipped, not errors.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	p := &parser{
		header:         make(Header),
		terms:          make(map[string]*cv.Entity),
		inferenceRules: make(map[string]InferenceRule),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.run(r); err != nil {
		return nil, err
	}
	return &Document{Header: p.header, Terms: p.terms, ids: p.ids, vocabOpts: p.vocabOpts}, nil
}

func (p *parser) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inHeader := true
	var current *stanza
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			inHeader = false
		case line == "[Term]" || line == "[Typedef]":
			inHeader = false
			if err := p.packIfOccupied(current); err != nil {
				return err
			}
			kind := cv.KindTerm
			if line == "[Typedef]" {
				kind = cv.KindTypedef
			}
			current = newStanza(kind)
		case inHeader:
			tag, value, found := strings.Cut(line, ":")
			if !found {
				return errors.WrapInvalid(
					fmt.Errorf("%w: header line %d has no tag separator: %q", errors.ErrSyntax, lineNo, line),
					"obo", "Parse", "read header")
			}
			p.header[tag] = append(p.header[tag], strings.TrimSpace(value))
		default:
			if current == nil {
				// Free text between the header and the first stanza.
				continue
			}
			tag, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			current.add(tag, strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "obo", "Parse", "scan input")
	}
	if err := p.packIfOccupied(current); err != nil {
		return err
	}

	p.connectParents()
	return nil
}

func (p *parser) packIfOccupied(s *stanza) error {
	if s == nil {
		return nil
	}
	return p.pack(s)
}

// pack converts one raw stanza into an entity and files it in the arena.
func (p *parser) pack(s *stanza) error {
	ids := s.tags["id"]
	if len(ids) == 0 || ids[0] == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: stanza has no id tag", errors.ErrMissingID),
			"obo", "pack", "identify stanza")
	}

	entity := cv.NewEntity(s.kind)
	entity.ID = ids[0]
	entity.Name = firstValue(s.tags, "name")
	entity.Definition = firstValue(s.tags, "def")
	entity.IsObsolete = strings.EqualFold(firstValue(s.tags, "is_obsolete"), "true")

	for _, tag := range s.order {
		values := s.tags[tag]
		switch tag {
		case "id", "name", "def", "is_obsolete":
			for _, v := range values {
				entity.SetAttr(tag, v)
			}
		case "is_a":
			for _, v := range values {
				entity.AddIsA(cv.ParseReference(v))
			}
		case "relationship":
			for _, v := range values {
				rel, err := cv.ParseRelationship(v)
				if err != nil {
					return errors.Wrap(err, "obo", "pack",
						fmt.Sprintf("expand relationship of %s", entity.ID))
				}
				entity.AddRelationship(rel)
			}
		case "synonym":
			for _, v := range values {
				syn, err := ParseSynonym(v)
				if err != nil {
					return errors.Wrap(err, "obo", "pack",
						fmt.Sprintf("expand synonym of %s", entity.ID))
				}
				entity.AddSynonym(syn.Text)
			}
		case "xref":
			for _, v := range values {
				p.expandXref(entity, v)
			}
		case "property_value":
			for _, v := range values {
				expandPropertyValue(entity, v)
			}
		default:
			for _, v := range values {
				entity.SetAttr(tag, v)
			}
		}
	}

	p.terms[entity.ID] = entity
	p.ids = append(p.ids, entity.ID)
	return nil
}

// expandXref interprets one xref value. A value-type xref becomes a
// has_value_type edge feeding the lazy type derivation; any other xref is a
// key:value attribute whose value is decoded through its declared XSD type
// when present, or loose inference otherwise.
func (p *parser) expandXref(entity *cv.Entity, raw string) {
	key, value, found := strings.Cut(raw, ":")
	if !found {
		// Quoted form without a key separator: `key "value"`.
		before, after, ok := strings.Cut(raw, ` "`)
		if !ok {
			entity.SetAttr("xref", raw)
			return
		}
		key, value = before, `"`+after
	}

	if key == "value-type" {
		token := valueTypeToken(raw)
		entity.AddRelationship(cv.Relationship{
			Predicate: cv.RelHasValueType,
			Accession: token,
		})
		return
	}

	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, `"`) {
		if literal, dtype, ok := splitQuotedLiteral(value); ok {
			if parse, _, matched := cv.ParseXSDType(dtype); matched {
				if v, err := parse(literal); err == nil {
					entity.SetAttr(key, v)
					return
				}
			}
			entity.SetAttr(key, p.inferType(key, literal))
			return
		}
	}
	entity.SetAttr(key, p.inferType(key, value))
}

// valueTypeToken extracts the type name from a value-type xref: the first
// space-delimited field with the "value-type:" prefix removed.
func valueTypeToken(raw string) string {
	s := strings.TrimSpace(strings.Replace(raw, "value-type:", "", 1))
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return s
}

// splitQuotedLiteral splits `"literal" dtype` into its parts. Returns false
// when the value is quoted text with no trailing type annotation.
func splitQuotedLiteral(value string) (literal, dtype string, ok bool) {
	idx := strings.LastIndex(value, `" `)
	if idx < 0 {
		return "", "", false
	}
	quoted := value[:idx+1]
	dtype = strings.TrimSpace(value[idx+2:])
	if len(quoted) < 2 || !strings.HasPrefix(quoted, `"`) {
		return "", "", false
	}
	return quoted[1 : len(quoted)-1], dtype, true
}

// expandPropertyValue interprets one property_value line: a property name
// followed by a value, optionally quoted with a trailing XSD type. Coercion
// failures keep the raw text; property values never abort a parse.
func expandPropertyValue(entity *cv.Entity, raw string) {
	prop, val, found := strings.Cut(raw, " ")
	if !found {
		entity.SetAttr(strings.Trim(raw, ": "), "")
		return
	}
	prop = strings.Trim(prop, ": ")
	val = strings.TrimSpace(val)

	if strings.HasPrefix(val, `"`) {
		if literal, dtype, ok := splitQuotedLiteral(val); ok {
			if parse, _, matched := cv.ParseXSDType(dtype); matched {
				if v, err := parse(literal); err == nil {
					entity.SetAttr(prop, v)
					return
				}
			}
			entity.SetAttr(prop, literal)
			return
		}
	}
	entity.SetAttr(prop, val)
}

func (p *parser) inferType(tag, value string) any {
	if rule, ok := p.inferenceRules[tag]; ok {
		if v, err := rule(value); err == nil {
			return v
		}
		return value
	}
	return cv.InferValue(value)
}

// connectParents walks the packed arena binding back-references: every is_a
// edge appends the child to its parent, and every part_of relationship
// appends the part to its whole. Declaration order makes the result
// deterministic.
func (p *parser) connectParents() {
	for _, id := range p.ids {
		term := p.terms[id]
		for _, ref := range term.IsA() {
			if parent, ok := p.terms[ref.Accession]; ok {
				parent.AddChild(term.ID)
			}
		}
		for _, rel := range term.Relationships(cv.RelPartOf) {
			if whole, ok := p.terms[rel.Accession]; ok {
				whole.AddPart(term.ID)
			}
		}
	}
}

func firstValue(tags map[string][]string, key string) string {
	if vals := tags[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
