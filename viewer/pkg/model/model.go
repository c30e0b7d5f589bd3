package model

import (
	catalogmodel "github.com/soylemez/jumboboxd/catalog/pkg/model"
)

// State of one mounted view. A view re-enters Loading after every
// mutating action and returns to Ready once the review list is reloaded.
type State string

const (
	StateIdle    = State("idle")
	StateLoading = State("loading")
	StateReady   = State("ready")
)

// Flag enumerates the boolean metadata toggles.
type Flag string

const (
	FlagToWatch = Flag("toWatch")
	FlagWatched = Flag("watched")
	FlagLiked   = Flag("liked")
)

// MovieDetail is the per-visible-movie view model: the catalog entry
// joined with the signed-in user's metadata for it, zero-valued when the
// user has no review yet.
type MovieDetail struct {
	Movie       catalogmodel.Movie `json:"movie"`
	ToWatch     bool               `json:"toWatch"`
	Watched     bool               `json:"watched"`
	Liked       bool               `json:"liked"`
	Rating      int                `json:"rating"`
	Notes       string             `json:"notes"`
	Collections []string           `json:"collections"`
}
