package cv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvocab/errors"
)

func lookupVocab(t *testing.T) *Vocabulary {
	t.Helper()

	mz := buildEntity("MS:1000040", "m/z")
	mzArray := buildEntity("MS:1000514", "m/z array", "MS:1000513")
	mzArray.AddSynonym("mz array")
	binary := buildEntity("MS:1000513", "binary data array")
	vendor := buildEntity("MS:1000030", "vendor")
	vendor.IsObsolete = true

	vocab, err := New(map[string]*Entity{
		"MS:1000040": mz,
		"MS:1000514": mzArray,
		"MS:1000513": binary,
		"MS:1000030": vendor,
	}, WithMetadata(map[string][]string{
		"ontology":          {"ms"},
		"data-version":      {"4.1.99"},
		"default-namespace": {"Mass Spectrometry Ontology"},
	}))
	require.NoError(t, err)
	return vocab
}

func TestNewEmptyVocabulary(t *testing.T) {
	_, err := New(map[string]*Entity{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEmptyVocabulary)
	assert.True(t, errors.IsFatal(err))
}

func TestMetadataDefaults(t *testing.T) {
	vocab := lookupVocab(t)
	assert.Equal(t, "MS", vocab.ID())
	assert.Equal(t, "MS", vocab.Name())
	assert.Equal(t, "4.1.99", vocab.Version())
	assert.Equal(t, "Mass Spectrometry Ontology", vocab.FullName())
	assert.Equal(t, 4, vocab.Len())
}

func TestMetadataOverrides(t *testing.T) {
	vocab, err := New(map[string]*Entity{
		"X:0001": buildEntity("X:0001", "thing"),
	}, WithID("PSI-MS"), WithName("custom"), WithVersion("9.9"))
	require.NoError(t, err)

	assert.Equal(t, "PSI-MS", vocab.ID())
	assert.Equal(t, "custom", vocab.Name())
	assert.Equal(t, "9.9", vocab.Version())
	// No default-namespace metadata, so the full name falls back to the name.
	assert.Equal(t, "custom", vocab.FullName())
}

func TestTermLookupLadder(t *testing.T) {
	vocab := lookupVocab(t)

	tests := []struct {
		name   string
		query  string
		wantID string
	}{
		{"by accession", "MS:1000514", "MS:1000514"},
		{"by exact name", "m/z array", "MS:1000514"},
		{"by case-normalized name", "M/Z Array", "MS:1000514"},
		{"by synonym", "mz array", "MS:1000514"},
		{"by synonym case-insensitive", "MZ ARRAY", "MS:1000514"},
		{"by lowercased accession", "ms:1000040", "MS:1000040"},
		{"by obsolete name", "vendor", "MS:1000030"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			term, err := vocab.Term(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, term.ID)
		})
	}
}

func TestTermNameAndAccessionAgree(t *testing.T) {
	vocab := lookupVocab(t)

	byName, err := vocab.Term("m/z array")
	require.NoError(t, err)
	byAccession, err := vocab.Term("MS:1000514")
	require.NoError(t, err)
	assert.Same(t, byName, byAccession)

	parents := byName.Parents()
	require.Len(t, parents, 1)
	assert.Equal(t, "binary data array", parents[0].Name)
}

func TestTermNotFound(t *testing.T) {
	vocab := lookupVocab(t)

	_, err := vocab.Term("does not exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTermNotFound)
	assert.True(t, errors.IsNotFound(err))
}

func TestTermMemoizesSlowLookups(t *testing.T) {
	vocab := lookupVocab(t)

	_, cached := vocab.translations.Get("MZ ARRAY")
	assert.False(t, cached)

	term, err := vocab.Term("MZ ARRAY")
	require.NoError(t, err)

	memo, cached := vocab.translations.Get("MZ ARRAY")
	require.True(t, cached)
	assert.Same(t, term, memo)
}

func TestTranslationCacheBounded(t *testing.T) {
	term := buildEntity("X:0001", "thing")
	for i := 0; i < translationCacheSize+100; i++ {
		term.AddSynonym(fmt.Sprintf("alias-%d", i))
	}
	vocab, err := New(map[string]*Entity{"X:0001": term}, WithID("X"))
	require.NoError(t, err)

	// Every distinct query lands on the synonym rung and is memoized; the
	// cache must evict rather than grow with caller input.
	for i := 0; i < translationCacheSize+100; i++ {
		got, lookupErr := vocab.Term(fmt.Sprintf("ALIAS-%d", i))
		require.NoError(t, lookupErr)
		assert.Equal(t, "X:0001", got.ID)
	}
	assert.Equal(t, translationCacheSize, vocab.translations.Size())
}

func TestTermByReference(t *testing.T) {
	vocab := lookupVocab(t)

	term, err := vocab.TermByReference(Reference{Accession: "MS:1000513", Comment: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "binary data array", term.Name)
}

func TestNormalizeName(t *testing.T) {
	vocab := lookupVocab(t)

	canonical, ok := vocab.NormalizeName("M/Z ARRAY")
	require.True(t, ok)
	assert.Equal(t, "m/z array", canonical)

	_, ok = vocab.NormalizeName("nope")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	vocab := lookupVocab(t)

	hits := vocab.Search("array")
	require.Len(t, hits, 2)
	assert.Equal(t, "MS:1000513", hits[0].ID)
	assert.Equal(t, "MS:1000514", hits[1].ID)

	assert.Empty(t, vocab.Search("zzz"))
}

func TestNames(t *testing.T) {
	vocab := lookupVocab(t)

	names := vocab.Names()
	assert.Equal(t, []string{"binary data array", "m/z", "m/z array"}, names)
	assert.NotContains(t, names, "vendor", "obsolete names are not listed")
}
