package model

// Movie is a single catalog entry. The list endpoint omits the
// description; the single-entry endpoint includes it.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year"`
	Poster      string `json:"poster"`
}

// Catalog pagination bounds. The upstream catalog is fixed at 25 entries
// per page across pages 1 to 10.
const (
	PageSize = 25
	MinPage  = 1
	MaxPage  = 10
)

// MovieID derives the global movie id from a 1-indexed catalog page and a
// 0-indexed position within that page.
func MovieID(page int, index int) int {
	return index + PageSize*(page-1)
}
