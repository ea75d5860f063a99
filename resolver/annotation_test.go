package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
	"github.com/c360/semvocab/metric"
)

func TestBuildAnnotationUnitAutofill(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	// m/z array permits exactly one unit and none was supplied.
	param, err := r.BuildAnnotation(Pair{Name: "m/z array", Value: 300.5})
	require.NoError(t, err)

	p, ok := param.(CVParam)
	require.True(t, ok)
	assert.Equal(t, "m/z array", p.Name)
	assert.Equal(t, "MS:1000514", p.Accession)
	assert.Equal(t, "MS", p.CVRef)
	assert.Equal(t, 300.5, p.Value)
	assert.Equal(t, "m/z", p.UnitName)
	assert.Equal(t, "MS:1000040", p.UnitAccession)
	assert.Equal(t, "MS", p.UnitCVRef)
}

func TestBuildAnnotationNoUnits(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	// dalton declares no permitted units; nothing is filled in.
	param, err := r.BuildAnnotation("dalton")
	require.NoError(t, err)

	p, ok := param.(CVParam)
	require.True(t, ok)
	assert.Equal(t, "UO:0000221", p.Accession)
	assert.Empty(t, p.UnitName)
	assert.Empty(t, p.UnitAccession)
	assert.Empty(t, p.UnitCVRef)
}

func TestBuildAnnotationUserParam(t *testing.T) {
	r := newTestResolver(t, msSource)

	param, err := r.BuildAnnotation(Pair{Name: "lab custom field", Value: 42})
	require.NoError(t, err)

	p, ok := param.(UserParam)
	require.True(t, ok)
	assert.Equal(t, "lab custom field", p.Name)
	assert.Equal(t, 42, p.Value)
}

func TestBuildAnnotationGroupReference(t *testing.T) {
	r := newTestResolver(t, msSource)

	tests := []struct {
		name string
		spec any
	}{
		{name: "ref map", spec: map[string]any{"ref": "commonInstrumentParams"}},
		{name: "ref pair", spec: Pair{Name: "ref", Value: "commonInstrumentParams"}},
		{name: "passthrough", spec: ParamGroupReference{Ref: "commonInstrumentParams"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			param, err := r.BuildAnnotation(tc.spec)
			require.NoError(t, err)
			ref, ok := param.(ParamGroupReference)
			require.True(t, ok)
			assert.Equal(t, "commonInstrumentParams", ref.Ref)
		})
	}
}

func TestBuildAnnotationMappingShapes(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	t.Run("single entry map is name to value", func(t *testing.T) {
		param, err := r.BuildAnnotation(map[string]any{"m/z array": 512.0})
		require.NoError(t, err)
		p, ok := param.(CVParam)
		require.True(t, ok)
		assert.Equal(t, "MS:1000514", p.Accession)
		assert.Equal(t, 512.0, p.Value)
	})

	t.Run("structured map with loose unit name", func(t *testing.T) {
		param, err := r.BuildAnnotation(map[string]any{
			"name":      "lowest observed m/z",
			"value":     204.89,
			"unit_name": "dalton",
		})
		require.NoError(t, err)
		p, ok := param.(CVParam)
		require.True(t, ok)
		assert.Equal(t, "MS:1000528", p.Accession)
		// The loosely named unit is rewritten to canonical form.
		assert.Equal(t, "UO:0000221", p.UnitAccession)
		assert.Equal(t, "dalton", p.UnitName)
		assert.Equal(t, "UO", p.UnitCVRef)
	})

	t.Run("camelCase aliases", func(t *testing.T) {
		param, err := r.BuildAnnotation(map[string]any{
			"name":          "m/z array",
			"unitAccession": "MS:1000040",
		})
		require.NoError(t, err)
		p, ok := param.(CVParam)
		require.True(t, ok)
		assert.Equal(t, "MS:1000040", p.UnitAccession)
	})

	t.Run("explicit cv_ref skips cross-provider scan", func(t *testing.T) {
		param, err := r.BuildAnnotation(map[string]any{
			"name":   "dalton",
			"cv_ref": "UO",
		})
		require.NoError(t, err)
		p, ok := param.(CVParam)
		require.True(t, ok)
		assert.Equal(t, "UO", p.CVRef)
		assert.Equal(t, "UO:0000221", p.Accession)
	})

	t.Run("passthrough fields survive", func(t *testing.T) {
		param, err := r.BuildAnnotation(map[string]any{
			"name":      "m/z array",
			"own_field": "kept",
			"unit_name": "m/z",
		})
		require.NoError(t, err)
		p, ok := param.(CVParam)
		require.True(t, ok)
		assert.Equal(t, "kept", p.Extra["own_field"])
	})
}

func TestBuildAnnotationErrors(t *testing.T) {
	r := newTestResolver(t, msSource, dupSource)

	t.Run("ambiguous source crediting", func(t *testing.T) {
		_, err := r.BuildAnnotation(Pair{Name: "m/z array", Value: 1.0})
		require.Error(t, err)
		assert.True(t, errors.IsAmbiguous(err))
	})

	t.Run("unsupported shape", func(t *testing.T) {
		_, err := r.BuildAnnotation(42)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidParam))
	})

	t.Run("multi entry map without name", func(t *testing.T) {
		_, err := r.BuildAnnotation(map[string]any{"a": 1, "b": 2})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidParam))
	})

	t.Run("explicitly named unit must resolve", func(t *testing.T) {
		_, err := r.BuildAnnotation(map[string]any{
			"name":      "binary data array",
			"unit_name": "no such unit",
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("unknown cv_ref", func(t *testing.T) {
		_, err := r.BuildAnnotation(map[string]any{
			"name":   "m/z array",
			"cv_ref": "NOPE",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnknownVocabulary))
	})
}

func TestBuildAnnotationUnitWarnings(t *testing.T) {
	registry := metric.NewRegistry()
	r := New(
		[]cv.Provider{loadVocabulary(t, msSource), loadVocabulary(t, uoSource)},
		WithLogger(quietLogger()),
		WithMetrics(registry),
	)

	// m/z array permits only m/z; supplying "second" is a mismatch, but the
	// annotation is still produced with the supplied unit.
	param, err := r.BuildAnnotation(map[string]any{
		"name":           "m/z array",
		"value":          1.0,
		"unit_accession": "UO:0000010",
	})
	require.NoError(t, err)
	p, ok := param.(CVParam)
	require.True(t, ok)
	assert.Equal(t, "UO:0000010", p.UnitAccession)

	assert.GreaterOrEqual(t, warningCount(t, registry, "unit_mismatch"), 1.0)
}

func TestBuildAnnotationAmbiguousMissingUnit(t *testing.T) {
	registry := metric.NewRegistry()
	r := New(
		[]cv.Provider{loadVocabulary(t, msSource), loadVocabulary(t, uoSource)},
		WithLogger(quietLogger()),
		WithMetrics(registry),
	)

	// Two permitted units, none supplied: warn and default-fill the first.
	param, err := r.BuildAnnotation(Pair{Name: "lowest observed m/z", Value: 204.89})
	require.NoError(t, err)
	p, ok := param.(CVParam)
	require.True(t, ok)
	assert.Equal(t, "MS:1000040", p.UnitAccession)
	assert.Equal(t, "m/z", p.UnitName)

	assert.GreaterOrEqual(t, warningCount(t, registry, "ambiguous_missing_unit"), 1.0)
}

func warningCount(t *testing.T, registry *metric.Registry, reason string) float64 {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "semvocab_annotation_validation_warnings_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "reason" && label.GetValue() == reason {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestParams(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	params, err := r.Params(
		Pair{Name: "m/z array", Value: 1.5},
		"dalton",
		map[string]any{"ref": "group1"},
	)
	require.NoError(t, err)
	require.Len(t, params, 3)

	_, ok := params[0].(CVParam)
	assert.True(t, ok)
	_, ok = params[1].(CVParam)
	assert.True(t, ok)
	_, ok = params[2].(ParamGroupReference)
	assert.True(t, ok)

	_, err = r.Params("m/z array", 42)
	require.Error(t, err)
}
