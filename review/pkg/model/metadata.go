package model

// Rating bounds. Zero means unrated.
const (
	MinRating = 0
	MaxRating = 5
)

// Metadata is the per-review document of toggles, rating, notes and
// collection memberships.
type Metadata struct {
	ToWatch     bool     `json:"toWatch"`
	Watched     bool     `json:"watched"`
	Liked       bool     `json:"liked"`
	Rating      int      `json:"rating" validate:"min=0,max=5"`
	Notes       string   `json:"notes"`
	Collections []string `json:"collections"`
}

// Patch is a partial metadata update. Nil fields are left untouched by
// Merge; a non-nil Collections replaces the whole array.
type Patch struct {
	ToWatch     *bool    `json:"toWatch,omitempty"`
	Watched     *bool    `json:"watched,omitempty"`
	Liked       *bool    `json:"liked,omitempty"`
	Rating      *int     `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Notes       *string  `json:"notes,omitempty"`
	Collections []string `json:"collections,omitempty"`
}

// Merge returns a copy of existing with every field present in the patch
// overwritten by the patch's value. The merge is shallow: collections are
// replaced wholesale, never combined element-wise. Merging the same patch
// twice yields the same document.
func Merge(existing Metadata, p Patch) Metadata {
	m := existing
	if p.ToWatch != nil {
		m.ToWatch = *p.ToWatch
	}
	if p.Watched != nil {
		m.Watched = *p.Watched
	}
	if p.Liked != nil {
		m.Liked = *p.Liked
	}
	if p.Rating != nil {
		m.Rating = *p.Rating
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.Collections != nil {
		m.Collections = append([]string(nil), p.Collections...)
	}
	return m
}

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for building patches.
func Int(i int) *int { return &i }

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }
