package model

import "time"

// UserID is an opaque identity-provider subject.
type UserID string

// MovieData is a denormalized snapshot of a catalog entry, captured on
// first review and never updated afterwards.
type MovieData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	Poster      string `json:"poster"`
}

// Review holds one user's metadata for one movie.
type Review struct {
	ID        int64     `json:"id"`
	UserID    UserID    `json:"userId"`
	MovieID   int       `json:"movieId"`
	MovieData MovieData `json:"movieData"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}
