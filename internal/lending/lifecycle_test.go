package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

var today = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newCopy(id string, status model.CopyStatus) *model.BookCopy {
	return &model.BookCopy{ID: id, BookID: 1, Imprint: "Ace", Status: status, BookTitle: "Dune"}
}

func heldCopy(id string, status model.CopyStatus, borrower int32, due time.Time) *model.BookCopy {
	c := newCopy(id, status)
	c.BorrowerID = &borrower
	c.DueBack = &due
	return c
}

func TestBorrowAvailableCopy(t *testing.T) {
	c := newCopy("c1", model.CopyStatusAvailable)
	due := today.AddDate(0, 0, 7)

	next, err := Borrow(c, 7, due)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusOnLoan, next.Status)
	assert.True(t, next.HeldBy(7))
	assert.True(t, due.Equal(*next.DueBack))
	assert.NoError(t, CheckInvariant(next))

	// The argument is untouched.
	assert.Equal(t, model.CopyStatusAvailable, c.Status)
	assert.Nil(t, c.BorrowerID)
}

func TestBorrowReservedCopy(t *testing.T) {
	c := heldCopy("c1", model.CopyStatusReserved, 7, today.AddDate(0, 0, 3))

	next, err := Borrow(c, 7, today.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, "c1", next.ID)
	assert.Equal(t, model.CopyStatusOnLoan, next.Status)
	assert.True(t, today.AddDate(0, 0, 10).Equal(*next.DueBack))

	_, err = Borrow(c, 8, today)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionsRejectWrongStatus(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"borrow maintenance", func() error {
			_, err := Borrow(newCopy("c", model.CopyStatusMaintenance), 1, today)
			return err
		}},
		{"borrow on loan", func() error {
			_, err := Borrow(heldCopy("c", model.CopyStatusOnLoan, 1, today), 1, today)
			return err
		}},
		{"reserve reserved", func() error {
			_, err := Reserve(heldCopy("c", model.CopyStatusReserved, 1, today), 2, today)
			return err
		}},
		{"return available", func() error {
			_, err := Return(newCopy("c", model.CopyStatusAvailable))
			return err
		}},
		{"renew reserved", func() error {
			_, err := Renew(heldCopy("c", model.CopyStatusReserved, 1, today), today)
			return err
		}},
		{"admin on held copy", func() error {
			_, err := SetAdminStatus(heldCopy("c", model.CopyStatusOnLoan, 1, today), model.CopyStatusMaintenance)
			return err
		}},
		{"admin to held status", func() error {
			_, err := SetAdminStatus(newCopy("c", model.CopyStatusAvailable), model.CopyStatusOnLoan)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrInvalidTransition)
		})
	}
}

func TestReturnClearsBorrower(t *testing.T) {
	for _, status := range []model.CopyStatus{model.CopyStatusOnLoan, model.CopyStatusReserved} {
		next, err := Return(heldCopy("c1", status, 7, today))
		require.NoError(t, err)
		assert.Equal(t, model.CopyStatusAvailable, next.Status)
		assert.Nil(t, next.BorrowerID)
		assert.Nil(t, next.DueBack)
		assert.NoError(t, CheckInvariant(next))
	}
}

func TestSetAdminStatus(t *testing.T) {
	next, err := SetAdminStatus(newCopy("c1", model.CopyStatusMaintenance), model.CopyStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusAvailable, next.Status)

	next, err = SetAdminStatus(next, model.CopyStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusMaintenance, next.Status)
}

func TestCheckInvariant(t *testing.T) {
	borrower := int32(1)
	tests := []struct {
		name string
		copy *model.BookCopy
		ok   bool
	}{
		{"available", newCopy("c", model.CopyStatusAvailable), true},
		{"on loan", heldCopy("c", model.CopyStatusOnLoan, 1, today), true},
		{"on loan without due date", &model.BookCopy{ID: "c", Status: model.CopyStatusOnLoan, BorrowerID: &borrower}, false},
		{"available with borrower", &model.BookCopy{ID: "c", Status: model.CopyStatusAvailable, BorrowerID: &borrower}, false},
		{"reserved without anything", newCopy("c", model.CopyStatusReserved), false},
		{"unknown status", newCopy("c", "lost"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInvariant(tt.copy)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvariant)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	assert.True(t, IsOverdue(heldCopy("c", model.CopyStatusOnLoan, 1, today.AddDate(0, 0, -1)), today))
	assert.False(t, IsOverdue(heldCopy("c", model.CopyStatusOnLoan, 1, today), today))
	assert.False(t, IsOverdue(heldCopy("c", model.CopyStatusReserved, 1, today.AddDate(0, 0, -1)), today))
	// Time of day does not matter.
	assert.False(t, IsOverdue(heldCopy("c", model.CopyStatusOnLoan, 1, today), today.Add(23*time.Hour)))
}
