package cv

// Provider is the capability contract every term source must satisfy to
// participate in resolution. ControlledVocabulary implements it for parsed
// OBO graphs; alternative backends (a relational modification database, a
// remote term service) plug in behind the same three methods and the
// resolver never knows the difference.
type Provider interface {
	// ID returns the short identifier annotations are credited to,
	// e.g. "MS" or "UO".
	ID() string

	// FullName returns the human-readable vocabulary name.
	FullName() string

	// Term resolves an accession, name, or synonym to an entity.
	// It returns an error wrapping errors.ErrTermNotFound when the
	// query matches nothing.
	Term(query string) (*Entity, error)
}
