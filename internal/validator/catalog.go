package validator // import "github.com/Xunop/e-library/internal/validator"

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

// ValidateAuthorRequest checks the request and returns the parsed author.
func ValidateAuthorRequest(req *model.AuthorRequest) (*model.Author, error) {
	if err := Struct(req); err != nil {
		return nil, err
	}
	author := &model.Author{FirstName: req.FirstName, LastName: req.LastName}

	var err error
	if author.DateOfBirth, err = optionalDate(req.DateOfBirth); err != nil {
		return nil, errors.Wrap(err, "invalid date of birth")
	}
	if author.DateOfDeath, err = optionalDate(req.DateOfDeath); err != nil {
		return nil, errors.Wrap(err, "invalid date of death")
	}
	if author.DateOfBirth != nil && author.DateOfDeath != nil && author.DateOfDeath.Before(*author.DateOfBirth) {
		return nil, errors.New("date of death is before date of birth")
	}
	return author, nil
}

// ValidateBookRequest checks the request and returns the book and its genre ids.
func ValidateBookRequest(req *model.BookRequest) (*model.Book, []int, error) {
	if err := Struct(req); err != nil {
		return nil, nil, err
	}
	return &model.Book{
		Title:    req.Title,
		AuthorID: req.AuthorID,
		Summary:  req.Summary,
		ISBN:     req.ISBN,
	}, req.GenreIDs, nil
}

// ValidateReturnDate parses the YYYY-MM-DD date of a lending request.
func ValidateReturnDate(value string) (time.Time, error) {
	date, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := model.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
