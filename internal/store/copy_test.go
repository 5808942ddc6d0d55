package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

func TestCreateCopyDefaultsToMaintenance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	book := createTestBook(t, s, "Dune")

	c, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace, 1965"})
	require.NoError(t, err)
	assert.True(t, len(c.ID) == 36)
	assert.Equal(t, model.CopyStatusMaintenance, c.Status)
	assert.Nil(t, c.BorrowerID)
	assert.Nil(t, c.DueBack)
	assert.Equal(t, "Dune", c.BookTitle)

	_, err = s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "x", Status: model.CopyStatusOnLoan})
	assert.Error(t, err)
}

func TestSaveCopyRoundTripsLoan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createTestUser(t, s, "alice", model.RoleUser)
	book := createTestBook(t, s, "Dune")
	c, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace", Status: model.CopyStatusAvailable})
	require.NoError(t, err)

	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	c.Status = model.CopyStatusOnLoan
	c.BorrowerID = &user.ID
	c.DueBack = &due
	require.NoError(t, s.SaveCopy(ctx, c))

	got, err := s.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusOnLoan, got.Status)
	require.NotNil(t, got.BorrowerID)
	assert.Equal(t, user.ID, *got.BorrowerID)
	require.NotNil(t, got.DueBack)
	assert.True(t, due.Equal(*got.DueBack))

	// The schema refuses a held copy without a borrower.
	c.BorrowerID = nil
	err = s.SaveCopy(ctx, c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
}

func TestCountAndFilterCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createTestUser(t, s, "alice", model.RoleUser)
	book := createTestBook(t, s, "Dune")

	today := model.DateOf(time.Now())
	yesterday := today.AddDate(0, 0, -1)
	for _, due := range []*time.Time{&yesterday, &today, nil} {
		c, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace", Status: model.CopyStatusAvailable})
		require.NoError(t, err)
		if due != nil {
			c.Status = model.CopyStatusOnLoan
			c.BorrowerID = &user.ID
			c.DueBack = due
			require.NoError(t, s.SaveCopy(ctx, c))
		}
	}

	onLoan := model.CopyStatusOnLoan
	count, err := s.CountCopies(ctx, &model.FindBookCopy{BorrowerID: &user.ID, Status: &onLoan})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	overdue, err := s.ListCopies(ctx, &model.FindBookCopy{BorrowerID: &user.ID, Status: &onLoan, DueBefore: &today})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.True(t, yesterday.Equal(*overdue[0].DueBack))

	available := model.CopyStatusAvailable
	limit := 1
	list, err := s.ListCopies(ctx, &model.FindBookCopy{BookID: &book.ID, Status: &available, Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	book := createTestBook(t, s, "Dune")
	c, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCopy(ctx, c.ID))
	assert.ErrorIs(t, s.DeleteCopy(ctx, c.ID), ErrNotFound)
	got, err := s.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
