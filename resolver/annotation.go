package resolver

import (
	"fmt"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
)

// Param is a normalized annotation: either controlled (CVParam),
// uncontrolled (UserParam), or a reference to a shared parameter group.
type Param interface {
	isParam()
}

// CVParam is an annotation backed by a controlled vocabulary term. The
// accession and CVRef credit the source vocabulary; unit fields are always
// canonical when present.
type CVParam struct {
	Name      string
	Value     any
	Accession string
	CVRef     string

	UnitName      string
	UnitAccession string
	UnitCVRef     string

	Extra map[string]any
}

func (CVParam) isParam() {}

// UserParam is an uncontrolled annotation: a name and value no provider
// recognizes, carried without an accession.
type UserParam struct {
	Name  string
	Value any

	UnitName      string
	UnitAccession string
	UnitCVRef     string

	Extra map[string]any
}

func (UserParam) isParam() {}

// ParamGroupReference points at a shared parameter group declared elsewhere
// in the enclosing document.
type ParamGroupReference struct {
	Ref string
}

func (ParamGroupReference) isParam() {}

// Pair is the 2-tuple annotation shape: a name and its value.
type Pair struct {
	Name  string
	Value any
}

// annotationState carries the fields extracted from a spec through unit
// resolution and validation.
type annotationState struct {
	name      string
	value     any
	accession string
	cvRef     string

	unitName      string
	unitAccession string
	unitCVRef     string

	extra map[string]any
}

// BuildAnnotation normalizes a caller-supplied spec into a Param.
//
// Accepted shapes: an already-built Param (returned unchanged), a Pair, a
// bare string naming a term, a single-entry map treated as {name: value}, a
// {"ref": id} map (a group reference), or a structured map carrying name,
// value, accession, cv_ref/cvRef, unit fields in either snake_case or
// camelCase, plus arbitrary passthrough fields.
//
// Units are resolved to canonical form first; then the term is credited to
// a source vocabulary (an ambiguous credit is a hard error), and finally
// the supplied unit is validated against the term's permitted units. Unit
// validation failures are warnings, never errors: the annotation is still
// produced.
func (r *Resolver) BuildAnnotation(spec any) (Param, error) {
	var state annotationState

	switch s := spec.(type) {
	case CVParam:
		return s, nil
	case UserParam:
		return s, nil
	case ParamGroupReference:
		return s, nil
	case Pair:
		state.name = s.Name
		state.value = s.Value
	case string:
		state.name = s
	case map[string]any:
		parsed, group, err := r.unpackMapping(s)
		if err != nil {
			return nil, err
		}
		if group != nil {
			r.recordAnnotation("group_ref")
			return *group, nil
		}
		state = parsed
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: unsupported spec shape %T", errors.ErrInvalidParam, spec),
			"resolver", "BuildAnnotation", "normalize spec")
	}

	// A bare ("ref", value) pair is a group reference in disguise.
	if state.name == "ref" && state.value != nil &&
		state.cvRef == "" && state.accession == "" && len(state.extra) == 0 {
		r.recordAnnotation("group_ref")
		return ParamGroupReference{Ref: stringify(state.value)}, nil
	}

	if err := r.resolveUnits(&state); err != nil {
		return nil, err
	}
	if state.name == "" && state.accession == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: spec carries neither name nor accession", errors.ErrInvalidParam),
			"resolver", "BuildAnnotation", "normalize spec")
	}

	var term *cv.Entity
	if state.cvRef == "" {
		query := state.accession
		if query == "" {
			query = state.name
		}
		cvRef, name, accession, t, err := r.ResolveCVRef(query, state.name, state.accession)
		if err != nil {
			return nil, err
		}
		state.cvRef, state.name, state.accession, term = cvRef, name, accession, t
	} else {
		provider, err := r.GetVocabulary(state.cvRef)
		if err != nil {
			return nil, err
		}
		query := state.accession
		if query == "" {
			query = state.name
		}
		t, err := provider.Term(query)
		if err != nil {
			return nil, errors.Wrap(err, "resolver", "BuildAnnotation",
				fmt.Sprintf("resolve %q in %s", query, state.cvRef))
		}
		term = t
		state.name = t.Name
		state.accession = t.ID
	}

	if term != nil {
		r.checkUnits(term, &state)
	}

	if state.cvRef == "" {
		r.recordAnnotation("user")
		return UserParam{
			Name:          state.name,
			Value:         state.value,
			UnitName:      state.unitName,
			UnitAccession: state.unitAccession,
			UnitCVRef:     state.unitCVRef,
			Extra:         state.extra,
		}, nil
	}

	r.recordAnnotation("cv")
	return CVParam{
		Name:          state.name,
		Value:         state.value,
		Accession:     state.accession,
		CVRef:         state.cvRef,
		UnitName:      state.unitName,
		UnitAccession: state.unitAccession,
		UnitCVRef:     state.unitCVRef,
		Extra:         state.extra,
	}, nil
}

// Params normalizes a batch of specs in order, failing on the first bad one.
func (r *Resolver) Params(specs ...any) ([]Param, error) {
	out := make([]Param, 0, len(specs))
	for _, spec := range specs {
		p, err := r.BuildAnnotation(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// unpackMapping extracts the structured fields from a map spec. A
// single-entry {"ref": id} map short-circuits to a group reference.
func (r *Resolver) unpackMapping(m map[string]any) (annotationState, *ParamGroupReference, error) {
	var state annotationState

	remaining := make(map[string]any, len(m))
	for k, v := range m {
		remaining[k] = v
	}

	if len(remaining) == 1 {
		if ref, ok := remaining["ref"]; ok {
			return state, &ParamGroupReference{Ref: stringify(ref)}, nil
		}
	}

	state.value = popAny(remaining, "value")
	state.accession = popString(remaining, "accession")
	state.cvRef = popString(remaining, "cv_ref", "cvRef")
	state.unitName = popString(remaining, "unit_name", "unitName")
	state.unitAccession = popString(remaining, "unit_accession", "unitAccession")
	state.unitCVRef = popString(remaining, "unit_cv_ref", "unitCvRef")
	state.name = popString(remaining, "name")

	if state.name == "" && state.accession == "" {
		if len(remaining) != 1 {
			return state, nil, errors.WrapInvalid(
				fmt.Errorf("%w: could not coerce parameter from %v", errors.ErrInvalidParam, m),
				"resolver", "BuildAnnotation", "normalize mapping")
		}
		for k, v := range remaining {
			state.name = k
			state.value = v
		}
		return state, nil, nil
	}

	if len(remaining) > 0 {
		state.extra = remaining
	}
	return state, nil, nil
}

// resolveUnits canonicalizes caller-supplied unit fields: a unit named
// loosely (by accession or by any resolvable name) is rewritten to its
// canonical accession, name, and source id. A unit that was explicitly
// supplied but resolves nowhere is a hard error.
func (r *Resolver) resolveUnits(state *annotationState) error {
	if state.unitName == "" && state.unitAccession == "" {
		return nil
	}
	query := state.unitAccession
	if query == "" {
		query = state.unitName
	}
	term, source, err := r.TermWithSource(query)
	if err != nil {
		return errors.Wrap(err, "resolver", "resolveUnits",
			fmt.Sprintf("resolve unit %q", query))
	}
	state.unitName = term.Name
	state.unitAccession = term.ID
	state.unitCVRef = source.ID()
	return nil
}

// checkUnits validates the annotation's unit against the term's permitted
// units (its has_units relationships). All failures degrade to warnings so
// one odd annotation cannot abort a multi-record write.
func (r *Resolver) checkUnits(term *cv.Entity, state *annotationState) {
	permitted := term.Relationships(cv.RelHasUnits)
	switch {
	case len(permitted) == 0:
		return

	case len(permitted) == 1:
		if state.unitAccession == "" {
			r.fillUnit(permitted[0].Accession, state)
			return
		}
		if !r.validateUnits {
			return
		}
		unitTerm, source, err := r.TermWithSource(permitted[0].Accession)
		if err != nil {
			return
		}
		if state.unitAccession != unitTerm.ID || state.unitName != unitTerm.Name ||
			state.unitCVRef != source.ID() {
			r.warn("unit_mismatch", "provided unit does not match the permitted unit",
				"term", state.name,
				"provided_unit", state.unitAccession,
				"permitted_unit", unitTerm.ID)
		}

	default:
		if state.unitAccession == "" {
			if r.warnOnAmbiguousMissingUnits {
				r.warn("ambiguous_missing_unit",
					"multiple unit options are possible but none were specified",
					"term", state.name)
			}
			r.fillUnit(permitted[0].Accession, state)
			return
		}
		if !r.validateUnits {
			return
		}
		for _, p := range permitted {
			unitTerm, source, err := r.TermWithSource(p.Accession)
			if err != nil {
				continue
			}
			if state.unitAccession == unitTerm.ID && state.unitName == unitTerm.Name &&
				state.unitCVRef == source.ID() {
				return
			}
		}
		r.warn("unit_not_permitted", "provided unit does not match any permitted unit",
			"term", state.name,
			"provided_unit", state.unitAccession)
	}
}

// fillUnit populates the unit fields from a permitted unit accession.
// Unresolvable defaults are skipped silently; the term's own declaration may
// point at a vocabulary this resolver does not hold.
func (r *Resolver) fillUnit(accession string, state *annotationState) {
	unitTerm, source, err := r.TermWithSource(accession)
	if err != nil {
		return
	}
	state.unitAccession = unitTerm.ID
	state.unitName = unitTerm.Name
	state.unitCVRef = source.ID()
}

func popAny(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			delete(m, k)
			if v != nil {
				return v
			}
		}
	}
	return nil
}

func popString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			delete(m, k)
			if v != nil {
				return stringify(v)
			}
		}
	}
	return ""
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
