package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

func TestBookRequest(t *testing.T) {
	tests := []struct {
		name string
		req  model.BookRequest
		err  string
	}{
		{"valid", model.BookRequest{Title: "Dune", ISBN: "9780441013593"}, ""},
		{"no isbn", model.BookRequest{Title: "Dune"}, ""},
		{"short isbn", model.BookRequest{Title: "Dune", ISBN: "12345"}, "isbn: len=13"},
		{"letters in isbn", model.BookRequest{Title: "Dune", ISBN: "978044101359X"}, "isbn: numeric"},
		{"missing title", model.BookRequest{}, "title: required"},
		{"bad genre", model.BookRequest{Title: "Dune", GenreIDs: []int{0}}, "genreids[0]: gt=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateBookRequest(&tt.req)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestAuthorRequest(t *testing.T) {
	author, err := ValidateAuthorRequest(&model.AuthorRequest{
		FirstName:   "Frank",
		LastName:    "Herbert",
		DateOfBirth: "1920-10-08",
	})
	require.NoError(t, err)
	assert.Equal(t, "Herbert, Frank", author.DisplayName())
	require.NotNil(t, author.DateOfBirth)
	assert.Equal(t, 1920, author.DateOfBirth.Year())
	assert.Nil(t, author.DateOfDeath)

	_, err = ValidateAuthorRequest(&model.AuthorRequest{FirstName: "Frank", LastName: "Herbert", DateOfBirth: "08/10/1920"})
	assert.Error(t, err)

	_, err = ValidateAuthorRequest(&model.AuthorRequest{
		FirstName:   "Frank",
		LastName:    "Herbert",
		DateOfBirth: "1986-02-11",
		DateOfDeath: "1920-10-08",
	})
	assert.Error(t, err)
}

func TestLendRequest(t *testing.T) {
	assert.NoError(t, Struct(&model.LendRequest{Action: "borrow", ReturnDate: "2024-03-08"}))
	assert.Error(t, Struct(&model.LendRequest{Action: "steal", ReturnDate: "2024-03-08"}))
	assert.Error(t, Struct(&model.LendRequest{Action: "reserve", ReturnDate: "tomorrow"}))

	date, err := ValidateReturnDate("2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, 8, date.Day())
}

func TestReviewRequestLength(t *testing.T) {
	long := make([]byte, 151)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, Struct(&model.ReviewRequest{Text: string(long)}))
	assert.NoError(t, Struct(&model.ReviewRequest{Text: string(long[:150])}))
}
