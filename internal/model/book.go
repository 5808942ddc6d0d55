package model

type Book struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	AuthorID *int   `json:"author_id"`
	Summary  string `json:"summary"`
	ISBN     string `json:"isbn"`
	HasCover bool   `json:"has_cover"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`

	// Filled by list and detail queries.
	AuthorName string   `json:"author_name,omitempty"`
	Genres     []string `json:"genres,omitempty"`
}

type FindBook struct {
	ID       *int
	Title    *string
	AuthorID *int
	GenreID  *int
	ISBN     *string

	// The maximum number of books to return.
	Limit  *int
	Offset *int
}

type BookGenreLink struct {
	BookID  int `json:"book"`
	GenreID int `json:"genre"`
}

// BookRequest creates or replaces a book.
type BookRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	AuthorID *int   `json:"author_id" validate:"omitempty,gt=0"`
	Summary  string `json:"summary" validate:"max=1000"`
	ISBN     string `json:"isbn" validate:"omitempty,len=13,numeric"`
	GenreIDs []int  `json:"genre_ids" validate:"dive,gt=0"`
}

// BookDetail is a book with its copies and reviews.
type BookDetail struct {
	*Book
	Copies  []*BookCopy `json:"copies"`
	Reviews []*Review   `json:"reviews"`
}
