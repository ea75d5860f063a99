package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvocab/errors"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Reference
	}{
		{
			name: "accession with comment",
			text: "MS:1000513 ! binary data array",
			want: Reference{Accession: "MS:1000513", Comment: "binary data array"},
		},
		{
			name: "bare accession",
			text: "MS:1000513",
			want: Reference{Accession: "MS:1000513"},
		},
		{
			name: "whitespace trimmed",
			text: "  MS:1000513  !  comment  ",
			want: Reference{Accession: "MS:1000513", Comment: "comment"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseReference(tc.text)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Matches(tc.want.Accession))
		})
	}
}

func TestReferenceString(t *testing.T) {
	assert.Equal(t, "MS:1000513 ! binary data array",
		Reference{Accession: "MS:1000513", Comment: "binary data array"}.String())
	assert.Equal(t, "MS:1000513", Reference{Accession: "MS:1000513"}.String())
}

func TestParseRelationship(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Relationship
	}{
		{
			name: "predicate target comment",
			text: "has_units MS:1000040 ! m/z",
			want: Relationship{Predicate: "has_units", Accession: "MS:1000040", Comment: "m/z"},
		},
		{
			name: "no comment",
			text: "part_of MS:1000548",
			want: Relationship{Predicate: "part_of", Accession: "MS:1000548"},
		},
		{
			name: "trailing colon on predicate",
			text: "has_order: MS:1000039",
			want: Relationship{Predicate: "has_order", Accession: "MS:1000039"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRelationship(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRelationshipError(t *testing.T) {
	_, err := ParseRelationship("lonelytoken")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRelationshipReference(t *testing.T) {
	rel := Relationship{Predicate: "has_units", Accession: "MS:1000040", Comment: "m/z"}
	ref := rel.Reference()
	assert.Equal(t, "MS:1000040", ref.Accession)
	assert.Equal(t, "m/z", ref.Comment)
}
