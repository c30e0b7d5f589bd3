package model

import (
	"slices"
	"sort"
	"strings"
)

// AddCollection returns the collections list with name added. Adding a
// name already present (exact match) is a no-op. The result is sorted
// ascending by case-insensitive comparison.
func AddCollection(collections []string, name string) []string {
	if slices.Contains(collections, name) {
		return collections
	}
	out := make([]string, 0, len(collections)+1)
	out = append(out, collections...)
	out = append(out, name)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// RemoveCollection returns the collections list with every entry exactly
// equal to name filtered out. Removing an absent name is a no-op.
func RemoveCollection(collections []string, name string) []string {
	out := make([]string, 0, len(collections))
	for _, c := range collections {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
