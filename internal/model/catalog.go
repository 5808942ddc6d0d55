package model

// CatalogSummary holds the counters shown on the index page.
type CatalogSummary struct {
	NumBooks           int `json:"num_books"`
	NumCopies          int `json:"num_copies"`
	NumCopiesAvailable int `json:"num_copies_available"`
	NumAuthors         int `json:"num_authors"`
	NumGenres          int `json:"num_genres"`
}
