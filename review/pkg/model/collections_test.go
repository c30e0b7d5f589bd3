package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddCollection(t *testing.T) {
	tests := []struct {
		name        string
		collections []string
		add         string
		want        []string
	}{
		{name: "append to empty", collections: nil, add: "Favorites", want: []string{"Favorites"}},
		{name: "sorted case-insensitively", collections: []string{"action", "Westerns"}, add: "Noir", want: []string{"action", "Noir", "Westerns"}},
		{name: "existing exact match is a no-op", collections: []string{"Noir"}, add: "Noir", want: []string{"Noir"}},
		{name: "different case is a distinct entry", collections: []string{"noir"}, add: "Noir", want: []string{"noir", "Noir"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddCollection(tt.collections, tt.add))
		})
	}
}

func TestRemoveCollection(t *testing.T) {
	tests := []struct {
		name        string
		collections []string
		remove      string
		want        []string
	}{
		{name: "removes exact match", collections: []string{"a", "b", "c"}, remove: "b", want: []string{"a", "c"}},
		{name: "absent name is a no-op", collections: []string{"a"}, remove: "b", want: []string{"a"}},
		{name: "case matters", collections: []string{"Noir", "noir"}, remove: "noir", want: []string{"Noir"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveCollection(tt.collections, tt.remove))
		})
	}
}

// Any sequence of adds and removes keeps the list deduplicated and
// case-insensitively sorted.
func TestCollectionSequenceInvariants(t *testing.T) {
	ops := []struct {
		add  bool
		name string
	}{
		{true, "Westerns"},
		{true, "action"},
		{true, "Noir"},
		{true, "action"},
		{false, "Westerns"},
		{true, "b-movies"},
		{true, "Westerns"},
		{false, "missing"},
	}
	var collections []string
	for _, op := range ops {
		if op.add {
			collections = AddCollection(collections, op.name)
		} else {
			collections = RemoveCollection(collections, op.name)
		}

		seen := map[string]bool{}
		for _, c := range collections {
			assert.False(t, seen[c], "duplicate entry %q", c)
			seen[c] = true
		}
		for i := 1; i < len(collections); i++ {
			assert.LessOrEqual(t,
				strings.ToLower(collections[i-1]), strings.ToLower(collections[i]),
				"list not sorted: %v", collections)
		}
	}
	assert.Equal(t, []string{"action", "b-movies", "Noir", "Westerns"}, collections)
}
