package model

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type FindGenre struct {
	ID     *int
	Name   *string
	BookID *int
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type GenreDetail struct {
	*Genre
	Books []*Book `json:"books"`
}
