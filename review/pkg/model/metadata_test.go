package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	existing := Metadata{
		ToWatch:     true,
		Watched:     false,
		Liked:       true,
		Rating:      3,
		Notes:       "solid",
		Collections: []string{"Favorites", "noir"},
	}

	tests := []struct {
		name  string
		patch Patch
		want  Metadata
	}{
		{
			name:  "empty patch preserves every key",
			patch: Patch{},
			want:  existing,
		},
		{
			name:  "single toggle leaves the rest untouched",
			patch: Patch{Watched: Bool(true)},
			want: Metadata{
				ToWatch:     true,
				Watched:     true,
				Liked:       true,
				Rating:      3,
				Notes:       "solid",
				Collections: []string{"Favorites", "noir"},
			},
		},
		{
			name:  "zero values overwrite when present in the patch",
			patch: Patch{Rating: Int(0), Notes: String("")},
			want: Metadata{
				ToWatch:     true,
				Watched:     false,
				Liked:       true,
				Rating:      0,
				Notes:       "",
				Collections: []string{"Favorites", "noir"},
			},
		},
		{
			name:  "collections are replaced wholesale",
			patch: Patch{Collections: []string{"westerns"}},
			want: Metadata{
				ToWatch:     true,
				Watched:     false,
				Liked:       true,
				Rating:      3,
				Notes:       "solid",
				Collections: []string{"westerns"},
			},
		},
		{
			name:  "empty non-nil collections clear the array",
			patch: Patch{Collections: []string{}},
			want: Metadata{
				ToWatch:     true,
				Watched:     false,
				Liked:       true,
				Rating:      3,
				Notes:       "solid",
				Collections: []string{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(existing, tt.patch)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeIdempotent(t *testing.T) {
	d := Metadata{Watched: true, Rating: 2, Collections: []string{"a"}}
	p := Patch{Liked: Bool(true), Notes: String("again"), Collections: []string{"b", "a"}}

	once := Merge(d, p)
	twice := Merge(once, p)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("merging the same patch twice changed the document (-once +twice):\n%s", diff)
	}
}

func TestMergeIntoAbsentDocument(t *testing.T) {
	got := Merge(Metadata{}, Patch{ToWatch: Bool(true)})
	assert.True(t, got.ToWatch)
	assert.False(t, got.Watched)
	assert.False(t, got.Liked)
	assert.Equal(t, 0, got.Rating)
	assert.Empty(t, got.Notes)
	assert.Empty(t, got.Collections)
}

func TestMergeDoesNotShareCollectionsWithPatch(t *testing.T) {
	patch := Patch{Collections: []string{"x"}}
	got := Merge(Metadata{}, patch)
	patch.Collections[0] = "mutated"
	assert.Equal(t, []string{"x"}, got.Collections)
}
