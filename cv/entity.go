package cv

// Kind distinguishes the stanza type a term was packed from.
type Kind int

const (
	// KindTerm is a concept term ([Term] stanza).
	KindTerm Kind = iota
	// KindTypedef is a relationship type definition ([Typedef] stanza).
	KindTypedef
)

// String returns the OBO stanza name for the kind.
func (k Kind) String() string {
	if k == KindTypedef {
		return "Typedef"
	}
	return "Term"
}

// Entity represents a single term in a controlled vocabulary: an attribute
// bag plus typed relationship edges and graph links.
//
// Entities are packed once by the parser and treated as immutable
// afterwards, except for back-references (children, parts) filled in by the
// graph post-pass and the lazily derived value type memoized on the owning
// vocabulary. The owning vocabulary is a non-owning back-reference used to
// resolve other terms reachable from this one; parent and child edges are
// stored as accessions and resolved through the vocabulary's term arena, so
// entities never hold direct pointers at each other.
type Entity struct {
	ID         string
	Name       string
	Definition string
	IsObsolete bool
	Kind       Kind

	attrs      map[string][]any
	order      []string
	isA        []Reference
	synonyms   []string
	rels       []Relationship
	byPred     map[string][]Relationship
	childIDs   []string
	partIDs    []string
	vocabulary *Vocabulary
}

// NewEntity creates an empty entity of the given kind. The parser populates
// it through the Set/Add methods before handing it to a Vocabulary.
func NewEntity(kind Kind) *Entity {
	return &Entity{
		Kind:   kind,
		attrs:  make(map[string][]any),
		byPred: make(map[string][]Relationship),
	}
}

// SetAttr appends a value under the given attribute tag, preserving
// declaration order for repeated tags.
func (e *Entity) SetAttr(key string, value any) {
	if _, seen := e.attrs[key]; !seen {
		e.order = append(e.order, key)
	}
	e.attrs[key] = append(e.attrs[key], value)
}

// AddIsA records a parent edge.
func (e *Entity) AddIsA(ref Reference) {
	e.isA = append(e.isA, ref)
}

// AddSynonym records an alternative name for this term.
func (e *Entity) AddSynonym(text string) {
	e.synonyms = append(e.synonyms, text)
}

// AddRelationship records a typed edge under both the generic relationship
// bucket and its own predicate, so Relationships(RelHasUnits) yields just
// the unit edges.
func (e *Entity) AddRelationship(rel Relationship) {
	e.rels = append(e.rels, rel)
	e.byPred[rel.Predicate] = append(e.byPred[rel.Predicate], rel)
}

// AddChild records a back-reference from parent to child. Called by the
// graph loader after every stanza has been packed.
func (e *Entity) AddChild(id string) {
	e.childIDs = append(e.childIDs, id)
}

// AddPart records a part_of back-reference from whole to part.
func (e *Entity) AddPart(id string) {
	e.partIDs = append(e.partIDs, id)
}

// Get returns the first value stored under key.
func (e *Entity) Get(key string) (any, bool) {
	vals := e.attrs[key]
	if len(vals) == 0 {
		return nil, false
	}
	return vals[0], true
}

// GetString returns the first value under key rendered as a string, or the
// empty string when absent.
func (e *Entity) GetString(key string) string {
	v, ok := e.Get(key)
	if !ok {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return formatValue(v)
}

// GetAll returns every value stored under key in declaration order.
func (e *Entity) GetAll(key string) []any {
	return e.attrs[key]
}

// Has reports whether key is present in the attribute bag.
func (e *Entity) Has(key string) bool {
	_, ok := e.attrs[key]
	return ok
}

// Keys returns the attribute tags in first-seen order.
func (e *Entity) Keys() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Synonyms returns the retained synonym texts.
func (e *Entity) Synonyms() []string {
	return e.synonyms
}

// IsA returns the parent references in declaration order.
func (e *Entity) IsA() []Reference {
	return e.isA
}

// AllRelationships returns every typed edge in declaration order.
func (e *Entity) AllRelationships() []Relationship {
	return e.rels
}

// Relationships returns the typed edges for one predicate.
func (e *Entity) Relationships(predicate string) []Relationship {
	return e.byPred[predicate]
}

// Vocabulary returns the owning vocabulary, nil before binding.
func (e *Entity) Vocabulary() *Vocabulary {
	return e.vocabulary
}

// Parents resolves the is_a edges through the owning vocabulary. Dangling
// references are skipped; parents are never resolved across vocabularies.
// An empty result means this term is a root.
func (e *Entity) Parents() []*Entity {
	if e.vocabulary == nil || len(e.isA) == 0 {
		return nil
	}
	out := make([]*Entity, 0, len(e.isA))
	for _, ref := range e.isA {
		if parent, ok := e.vocabulary.terms[ref.Accession]; ok {
			out = append(out, parent)
		}
	}
	return out
}

// Children resolves the child back-references through the owning vocabulary.
func (e *Entity) Children() []*Entity {
	return e.resolveIDs(e.childIDs)
}

// Parts resolves part_of back-references through the owning vocabulary.
func (e *Entity) Parts() []*Entity {
	return e.resolveIDs(e.partIDs)
}

func (e *Entity) resolveIDs(ids []string) []*Entity {
	if e.vocabulary == nil || len(ids) == 0 {
		return nil
	}
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if term, ok := e.vocabulary.terms[id]; ok {
			out = append(out, term)
		}
	}
	return out
}

// Equal reports identity through the id strings. Two entities with the same
// id loaded into different vocabularies compare equal here but remain
// distinct objects.
func (e *Entity) Equal(other *Entity) bool {
	if other == nil {
		return false
	}
	return e.ID == other.ID
}

// IsOfType tests whether target is this term or one of its ancestors via
// the reflexive-transitive closure of the is_a relationship.
//
// Target may be an *Entity or an accession/name string resolved through the
// owning vocabulary; an unresolvable string yields false, not an error. The
// walk uses an explicit work list with a visited set so that multi-parent
// diamonds are handled and a parent cycle cannot loop forever.
func (e *Entity) IsOfType(target any) bool {
	var tp *Entity
	switch t := target.(type) {
	case *Entity:
		tp = t
	case string:
		if e.vocabulary == nil {
			return false
		}
		resolved, err := e.vocabulary.Term(t)
		if err != nil {
			return false
		}
		tp = resolved
	default:
		return false
	}
	if tp == nil {
		return false
	}

	visited := make(map[string]struct{})
	stack := []*Entity{e}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.ID == tp.ID {
			return true
		}
		if _, seen := visited[current.ID]; seen {
			continue
		}
		visited[current.ID] = struct{}{}
		stack = append(stack, current.Parents()...)
	}
	return false
}
