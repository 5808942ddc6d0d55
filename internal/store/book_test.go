package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

func TestBookWithAuthorAndGenres(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	born := time.Date(1920, 10, 8, 0, 0, 0, 0, time.UTC)
	author, err := s.CreateAuthor(ctx, &model.Author{FirstName: "Frank", LastName: "Herbert", DateOfBirth: &born})
	require.NoError(t, err)
	require.NotNil(t, author.DateOfBirth)
	assert.True(t, born.Equal(*author.DateOfBirth))
	assert.Nil(t, author.DateOfDeath)

	scifi, err := s.CreateGenre(ctx, &model.Genre{Name: "Science Fiction"})
	require.NoError(t, err)
	classic, err := s.CreateGenre(ctx, &model.Genre{Name: "Classic"})
	require.NoError(t, err)

	book, err := s.CreateBook(ctx, &model.Book{
		Title:    "Dune",
		AuthorID: &author.ID,
		ISBN:     "9780441013593",
	}, []int{classic.ID, scifi.ID})
	require.NoError(t, err)
	assert.Equal(t, "Herbert, Frank", book.AuthorName)
	assert.Equal(t, []string{"Science Fiction", "Classic"}, book.Genres)

	byGenre, err := s.ListBooks(ctx, &model.FindBook{GenreID: &classic.ID})
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, book.ID, byGenre[0].ID)

	book.Title = "Dune Messiah"
	updated, err := s.UpdateBook(ctx, book, []int{scifi.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, []string{"Science Fiction"}, updated.Genres)

	// Deleting the author keeps the book.
	require.NoError(t, s.DeleteAuthor(ctx, author.ID))
	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AuthorID)
	assert.Empty(t, got.AuthorName)
}

func TestListBooksOrderedByTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, title := range []string{"Neuromancer", "Dune", "Hyperion"} {
		createTestBook(t, s, title)
	}

	list, err := s.ListBooks(ctx, &model.FindBook{})
	require.NoError(t, err)
	titles := []string{}
	for _, b := range list {
		titles = append(titles, b.Title)
		assert.Empty(t, b.Genres)
	}
	assert.Equal(t, []string{"Dune", "Hyperion", "Neuromancer"}, titles)
}

func TestDeleteBookCascadesCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	book := createTestBook(t, s, "Dune")
	_, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBook(ctx, book.ID))
	count, err := s.CountCopies(ctx, &model.FindBookCopy{BookID: &book.ID})
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	book := createTestBook(t, s, "Dune")
	_, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace", Status: model.CopyStatusAvailable})
	require.NoError(t, err)
	_, err = s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace"})
	require.NoError(t, err)
	_, err = s.CreateGenre(ctx, &model.Genre{Name: "Science Fiction"})
	require.NoError(t, err)

	summary, err := s.GetCatalogSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.CatalogSummary{
		NumBooks:           1,
		NumCopies:          2,
		NumCopiesAvailable: 1,
		NumAuthors:         0,
		NumGenres:          1,
	}, summary)
}
