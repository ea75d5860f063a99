package resolver

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
	"github.com/c360/semvocab/obo"
)

const msSource = `format-version: 1.2
ontology: ms
default-namespace: Proteomics Standards Initiative Mass Spectrometry Ontology

[Term]
id: MS:1000040
name: m/z

[Term]
id: MS:1000513
name: binary data array

[Term]
id: MS:1000514
name: m/z array
is_a: MS:1000513 ! binary data array
relationship: has_units MS:1000040 ! m/z
synonym: "mz array" EXACT []

[Term]
id: MS:1000528
name: lowest observed m/z
relationship: has_units MS:1000040 ! m/z
relationship: has_units UO:0000221 ! dalton

[Term]
id: MS:1000030
name: vendor
is_obsolete: true
`

const uoSource = `format-version: 1.2
ontology: uo
default-namespace: unit.ontology

[Term]
id: UO:0000221
name: dalton

[Term]
id: UO:0000010
name: second
`

const otherSource = `format-version: 1.2
ontology: other

[Term]
id: OTHER:0001
name: vendor
`

const retiredSource = `format-version: 1.2
ontology: retired

[Term]
id: RET:0001
name: vendor
is_obsolete: true
`

const dupSource = `format-version: 1.2
ontology: dup

[Term]
id: DUP:0001
name: m/z array
`

func loadVocabulary(t *testing.T, source string) *cv.Vocabulary {
	t.Helper()
	vocab, err := obo.Load(strings.NewReader(source))
	require.NoError(t, err)
	return vocab
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(t *testing.T, sources ...string) *Resolver {
	t.Helper()
	providers := make([]cv.Provider, 0, len(sources))
	for _, src := range sources {
		providers = append(providers, loadVocabulary(t, src))
	}
	return New(providers, WithLogger(quietLogger()))
}

func TestTermWithSource(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	term, source, err := r.TermWithSource("m/z array")
	require.NoError(t, err)
	assert.Equal(t, "MS:1000514", term.ID)
	assert.Equal(t, "MS", source.ID())

	// Later providers are reachable too.
	term, source, err = r.TermWithSource("dalton")
	require.NoError(t, err)
	assert.Equal(t, "UO:0000221", term.ID)
	assert.Equal(t, "UO", source.ID())
}

func TestTermNotFound(t *testing.T) {
	r := newTestResolver(t, msSource)

	_, err := r.Term("no such term anywhere")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsInvalid(err))
}

func TestTermObsoleteDeferral(t *testing.T) {
	t.Run("live term in later provider wins", func(t *testing.T) {
		r := newTestResolver(t, msSource, otherSource)

		term, source, err := r.TermWithSource("vendor")
		require.NoError(t, err)
		assert.Equal(t, "OTHER:0001", term.ID)
		assert.Equal(t, "OTHER", source.ID())
		assert.False(t, term.IsObsolete)
	})

	t.Run("obsolete term returned when no live match exists", func(t *testing.T) {
		r := newTestResolver(t, msSource)

		term, err := r.Term("vendor")
		require.NoError(t, err)
		assert.Equal(t, "MS:1000030", term.ID)
		assert.True(t, term.IsObsolete)
	})

	t.Run("earliest provider wins among obsolete-only matches", func(t *testing.T) {
		r := newTestResolver(t, msSource, retiredSource)

		term, source, err := r.TermWithSource("vendor")
		require.NoError(t, err)
		assert.Equal(t, "MS:1000030", term.ID)
		assert.Equal(t, "MS", source.ID())
		assert.True(t, term.IsObsolete)
	})
}

func TestGetVocabulary(t *testing.T) {
	r := newTestResolver(t, msSource, uoSource)

	p, err := r.GetVocabulary("MS")
	require.NoError(t, err)
	assert.Equal(t, "MS", p.ID())

	p, err = r.GetVocabulary("unit.ontology")
	require.NoError(t, err)
	assert.Equal(t, "UO", p.ID())

	_, err = r.GetVocabulary("NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownVocabulary))
}

func TestResolveCVRef(t *testing.T) {
	t.Run("single provider resolution is canonical", func(t *testing.T) {
		r := newTestResolver(t, msSource, uoSource)

		cvRef, name, accession, term, err := r.ResolveCVRef("mz array", "mz array", "")
		require.NoError(t, err)
		assert.Equal(t, "MS", cvRef)
		assert.Equal(t, "m/z array", name)
		assert.Equal(t, "MS:1000514", accession)
		require.NotNil(t, term)
		assert.Equal(t, "MS:1000514", term.ID)
	})

	t.Run("two providers resolving the same query is an error", func(t *testing.T) {
		r := newTestResolver(t, msSource, dupSource)

		_, _, _, _, err := r.ResolveCVRef("m/z array", "m/z array", "")
		require.Error(t, err)
		assert.True(t, errors.IsAmbiguous(err))
		assert.Contains(t, err.Error(), "MS")
		assert.Contains(t, err.Error(), "DUP")
	})

	t.Run("unknown query returns empty ref without error", func(t *testing.T) {
		r := newTestResolver(t, msSource)

		cvRef, name, accession, term, err := r.ResolveCVRef("custom field", "custom field", "")
		require.NoError(t, err)
		assert.Empty(t, cvRef)
		assert.Equal(t, "custom field", name)
		assert.Empty(t, accession)
		assert.Nil(t, term)
	})
}
