package cv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360/semvocab/errors"
	"github.com/c360/semvocab/pkg/cache"
)

// Vocabulary is a fully-loaded, read-only term graph with lookup indices by
// accession, exact name, normalized name, and synonym.
//
// Construction indexes every term and binds it to this vocabulary; after
// that the only mutable state is the pair of memoization caches (query
// translations and derived value types), both of which tolerate redundant
// population because their derivations are pure.
type Vocabulary struct {
	id       string
	name     string
	fullName string
	version  string
	metadata map[string][]string

	terms         map[string]*Entity
	names         map[string]*Entity
	normalized    map[string]string
	synonyms      map[string]*Entity
	obsoleteNames map[string]*Entity

	translations cache.Cache[*Entity]
	typeDefs     cache.Cache[*TypeDefinition]
}

// translationCacheSize bounds the query translation cache. Translation keys
// are caller-shaped and unbounded, unlike the typedef memo whose keys are
// term ids.
const translationCacheSize = 512

// Option configures a Vocabulary during construction.
type Option func(*Vocabulary)

// WithID sets the short identifier annotations are credited to.
func WithID(id string) Option {
	return func(v *Vocabulary) { v.id = id }
}

// WithName sets the display name, overriding the header-derived one.
func WithName(name string) Option {
	return func(v *Vocabulary) { v.name = name }
}

// WithVersion sets the version string, overriding the header-derived one.
func WithVersion(version string) Option {
	return func(v *Vocabulary) { v.version = version }
}

// WithMetadata attaches the parsed header multimap.
func WithMetadata(metadata map[string][]string) Option {
	return func(v *Vocabulary) { v.metadata = metadata }
}

// New builds a vocabulary from packed entities, indexing them and binding
// each entity's owning-vocabulary back-reference. A vocabulary with no
// terms is an error: an empty graph can satisfy no lookup and almost always
// means a truncated source.
func New(terms map[string]*Entity, opts ...Option) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, errors.WrapFatal(errors.ErrEmptyVocabulary, "cv", "New", "index terms")
	}

	translations, err := cache.NewLRU[*Entity](translationCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "cv", "New", "create translation cache")
	}
	typeDefs, err := cache.NewSimple[*TypeDefinition]()
	if err != nil {
		return nil, errors.Wrap(err, "cv", "New", "create type definition cache")
	}

	v := &Vocabulary{
		terms:        terms,
		metadata:     make(map[string][]string),
		translations: translations,
		typeDefs:     typeDefs,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.applyMetadataDefaults()
	v.reindex()
	return v, nil
}

func (v *Vocabulary) applyMetadataDefaults() {
	if v.name == "" {
		if ont := v.metadata["ontology"]; len(ont) > 0 {
			v.name = strings.ToUpper(ont[0])
		}
	}
	if v.version == "" {
		if dv := v.metadata["data-version"]; len(dv) > 0 {
			v.version = dv[0]
		} else {
			v.version = "unknown"
		}
	}
	if v.id == "" {
		v.id = v.name
	}
	if v.fullName == "" {
		if ns := v.metadata["default-namespace"]; len(ns) > 0 {
			v.fullName = ns[0]
		} else {
			v.fullName = v.name
		}
	}
}

func (v *Vocabulary) reindex() {
	v.names = make(map[string]*Entity)
	v.normalized = make(map[string]string)
	v.synonyms = make(map[string]*Entity)
	v.obsoleteNames = make(map[string]*Entity)

	for _, term := range v.terms {
		term.vocabulary = v
		if term.Name == "" {
			continue
		}
		if term.IsObsolete {
			v.obsoleteNames[strings.ToLower(term.Name)] = term
		} else {
			v.names[term.Name] = term
		}
		v.normalized[strings.ToLower(term.Name)] = term.Name
		for _, synonym := range term.Synonyms() {
			v.synonyms[strings.ToLower(synonym)] = term
		}
	}
}

// ID returns the short identifier annotations are credited to.
func (v *Vocabulary) ID() string { return v.id }

// Name returns the display name, usually the uppercased ontology header tag.
func (v *Vocabulary) Name() string { return v.name }

// FullName returns the human-readable vocabulary name.
func (v *Vocabulary) FullName() string { return v.fullName }

// Version returns the vocabulary's declared data version.
func (v *Vocabulary) Version() string { return v.version }

// Metadata returns the parsed header multimap.
func (v *Vocabulary) Metadata() map[string][]string { return v.metadata }

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns the term arena keyed by accession. Callers must treat the
// result as read-only.
func (v *Vocabulary) Terms() map[string]*Entity { return v.terms }

// Names returns every non-obsolete term name.
func (v *Vocabulary) Names() []string {
	out := make([]string, 0, len(v.names))
	for name := range v.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Term resolves a query to an entity. The search is case-insensitive with
// case-matching preferred, laddering through: accession, exact name,
// case-normalized name, synonym, lowercased accession, and finally obsolete
// names. Results reached through the slower rungs are memoized.
func (v *Vocabulary) Term(query string) (*Entity, error) {
	if term, ok := v.translations.Get(query); ok {
		return term, nil
	}
	if term, ok := v.terms[query]; ok {
		return term, nil
	}
	if term, ok := v.names[query]; ok {
		return term, nil
	}

	lower := strings.ToLower(query)
	if canonical, ok := v.normalized[lower]; ok {
		if term, found := v.names[canonical]; found {
			_, _ = v.translations.Set(query, term)
			return term, nil
		}
	}
	if term, ok := v.synonyms[lower]; ok {
		_, _ = v.translations.Set(query, term)
		return term, nil
	}
	if term, ok := v.terms[lower]; ok {
		_, _ = v.translations.Set(query, term)
		return term, nil
	}
	if term, ok := v.obsoleteNames[lower]; ok {
		_, _ = v.translations.Set(query, term)
		return term, nil
	}

	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: %q in %s", errors.ErrTermNotFound, query, v.id),
		"cv", "Term", "resolve query")
}

// TermByReference resolves the target of an edge within this vocabulary.
func (v *Vocabulary) TermByReference(ref Reference) (*Entity, error) {
	return v.Term(ref.Accession)
}

// NormalizeName maps a case-insensitive name to its canonical spelling.
func (v *Vocabulary) NormalizeName(name string) (string, bool) {
	canonical, ok := v.normalized[strings.ToLower(name)]
	return canonical, ok
}

// Search returns every term whose accession, name, or synonym contains the
// query as a substring, sorted by accession. Substring containment can be
// ambiguous for short queries; use Term for exact resolution.
func (v *Vocabulary) Search(query string) []*Entity {
	query = strings.ToLower(query)
	matched := make(map[string]*Entity)
	for accession, term := range v.terms {
		if strings.Contains(strings.ToLower(accession), query) {
			matched[term.ID] = term
		}
	}
	for name, term := range v.names {
		if strings.Contains(strings.ToLower(name), query) {
			matched[term.ID] = term
		}
	}
	for synonym, term := range v.synonyms {
		if strings.Contains(synonym, query) {
			matched[term.ID] = term
		}
	}

	out := make([]*Entity, 0, len(matched))
	for _, term := range matched {
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var _ Provider = (*Vocabulary)(nil)
