package resolver

import (
	"fmt"
	"log/slog"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
	"github.com/c360/semvocab/metric"
)

// Resolver answers term queries and builds annotations against an ordered
// list of term providers. Provider order is lookup priority; all
// configuration is fixed at construction.
type Resolver struct {
	providers []cv.Provider

	validateUnits               bool
	warnOnAmbiguousMissingUnits bool

	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures a Resolver during construction.
type Option func(*Resolver)

// WithLogger sets the logger validation warnings are emitted through.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics wires the resolver's counters into a metric registry.
func WithMetrics(registry *metric.Registry) Option {
	return func(r *Resolver) {
		if registry != nil {
			r.metrics = registry.CoreMetrics()
		}
	}
}

// WithUnitValidation toggles comparing supplied units against a term's
// permitted units. On by default.
func WithUnitValidation(enabled bool) Option {
	return func(r *Resolver) { r.validateUnits = enabled }
}

// WithAmbiguousUnitWarnings toggles the warning emitted when a term permits
// several units and the caller supplied none. On by default.
func WithAmbiguousUnitWarnings(enabled bool) Option {
	return func(r *Resolver) { r.warnOnAmbiguousMissingUnits = enabled }
}

// New creates a resolver over the given providers. Earlier providers win
// ordinary lookups; ambiguity across providers is only an error for
// source-crediting resolution (ResolveCVRef).
func New(providers []cv.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		providers:                   providers,
		validateUnits:               true,
		warnOnAmbiguousMissingUnits: true,
		logger:                      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the provider list in priority order.
func (r *Resolver) Providers() []cv.Provider {
	return r.providers
}

// GetVocabulary resolves a provider by its id or full name.
func (r *Resolver) GetVocabulary(id string) (cv.Provider, error) {
	for _, p := range r.providers {
		if p.ID() == id || p.FullName() == id {
			return p, nil
		}
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: %q", errors.ErrUnknownVocabulary, id),
		"resolver", "GetVocabulary", "find provider")
}

// Term resolves a query against the providers in order.
func (r *Resolver) Term(query string) (*cv.Entity, error) {
	term, _, err := r.TermWithSource(query)
	return term, err
}

// TermWithSource resolves a query and reports which provider satisfied it.
//
// Providers are scanned in order. An obsolete match is remembered and the
// scan continues: a live term in any provider beats an obsolete one in an
// earlier provider. The deferred obsolete match is returned only when no
// live match exists anywhere; if several providers hold obsolete matches,
// the earliest one is kept.
func (r *Resolver) TermWithSource(query string) (*cv.Entity, cv.Provider, error) {
	var deferredTerm *cv.Entity
	var deferredSource cv.Provider

	for _, p := range r.providers {
		term, err := p.Term(query)
		if err != nil {
			continue
		}
		if term.IsObsolete {
			if deferredTerm == nil {
				deferredTerm = term
				deferredSource = p
			}
			continue
		}
		r.recordLookup(p.ID(), "hit")
		return term, p, nil
	}

	if deferredTerm != nil {
		r.recordLookup(deferredSource.ID(), "obsolete")
		return deferredTerm, deferredSource, nil
	}

	r.recordLookup("none", "miss")
	return nil, nil, errors.WrapInvalid(
		fmt.Errorf("%w: %q in any provider", errors.ErrTermNotFound, query),
		"resolver", "TermWithSource", "scan providers")
}

// ResolveCVRef scans every provider for the query and credits the matched
// term to its source vocabulary.
//
// Unlike Term, the scan never stops early: a query resolvable in more than
// one provider is an ambiguity error, because silently picking one would
// miscredit the annotation's source ontology. When no provider recognizes
// the query, the inputs are returned unchanged with an empty cvRef and no
// error; the caller turns that into an uncontrolled annotation.
func (r *Resolver) ResolveCVRef(query, name, accession string) (cvRef, outName, outAccession string, term *cv.Entity, err error) {
	outName, outAccession = name, accession

	for _, p := range r.providers {
		t, lookupErr := p.Term(query)
		if lookupErr != nil {
			continue
		}
		if cvRef != "" {
			r.recordAmbiguity()
			return "", "", "", nil, errors.WrapInvalid(
				fmt.Errorf("%w: %q found in both %s and %s", errors.ErrAmbiguousTerm, query, cvRef, p.ID()),
				"resolver", "ResolveCVRef", "credit source vocabulary")
		}
		cvRef = p.ID()
		outName = t.Name
		outAccession = t.ID
		term = t
	}
	return cvRef, outName, outAccession, term, nil
}

func (r *Resolver) recordLookup(vocabulary, result string) {
	if r.metrics != nil {
		r.metrics.RecordLookup(vocabulary, result)
	}
}

func (r *Resolver) recordAmbiguity() {
	if r.metrics != nil {
		r.metrics.RecordAmbiguousResolution()
	}
}

func (r *Resolver) recordAnnotation(kind string) {
	if r.metrics != nil {
		r.metrics.RecordAnnotation(kind)
	}
}

// warn emits a non-fatal validation warning through the logger and counts it.
func (r *Resolver) warn(reason, msg string, args ...any) {
	r.logger.Warn(msg, args...)
	if r.metrics != nil {
		r.metrics.RecordValidationWarning(reason)
	}
}
