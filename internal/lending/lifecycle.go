package lending

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

// The functions below are the only way a copy changes status. Each returns a
// new copy and leaves its argument untouched.
//
//	available            --borrow-->  on_loan   (borrower, due_back set)
//	available            --reserve--> reserved  (borrower, due_back set)
//	reserved (same user) --borrow-->  on_loan   (due_back replaced)
//	on_loan | reserved   --return-->  available (borrower, due_back cleared)
//	on_loan              --renew-->   on_loan   (due_back replaced)
//	maintenance <-> available, administrative only

// Borrow moves an available copy, or the borrower's own reserved copy, to on_loan.
func Borrow(c *model.BookCopy, userID int32, due time.Time) (*model.BookCopy, error) {
	switch {
	case c.Status == model.CopyStatusAvailable:
	case c.Status == model.CopyStatusReserved && c.HeldBy(userID):
	default:
		return nil, errors.Wrapf(ErrInvalidTransition, "borrow copy %s in status %s", c.ID, c.Status)
	}
	next := c.Clone()
	next.Status = model.CopyStatusOnLoan
	next.BorrowerID = &userID
	next.DueBack = dateRef(due)
	return next, nil
}

// Reserve moves an available copy to reserved.
func Reserve(c *model.BookCopy, userID int32, due time.Time) (*model.BookCopy, error) {
	if c.Status != model.CopyStatusAvailable {
		return nil, errors.Wrapf(ErrInvalidTransition, "reserve copy %s in status %s", c.ID, c.Status)
	}
	next := c.Clone()
	next.Status = model.CopyStatusReserved
	next.BorrowerID = &userID
	next.DueBack = dateRef(due)
	return next, nil
}

// Return makes a held copy available again.
func Return(c *model.BookCopy) (*model.BookCopy, error) {
	if !c.Status.IsHeld() {
		return nil, errors.Wrapf(ErrInvalidTransition, "return copy %s in status %s", c.ID, c.Status)
	}
	next := c.Clone()
	next.Status = model.CopyStatusAvailable
	next.BorrowerID = nil
	next.DueBack = nil
	return next, nil
}

// Renew replaces the due date of a copy on loan.
func Renew(c *model.BookCopy, due time.Time) (*model.BookCopy, error) {
	if c.Status != model.CopyStatusOnLoan {
		return nil, errors.Wrapf(ErrInvalidTransition, "renew copy %s in status %s", c.ID, c.Status)
	}
	next := c.Clone()
	next.DueBack = dateRef(due)
	return next, nil
}

// SetAdminStatus moves a copy nobody holds between maintenance and available.
func SetAdminStatus(c *model.BookCopy, status model.CopyStatus) (*model.BookCopy, error) {
	if c.Status.IsHeld() || status.IsHeld() || !status.IsValid() {
		return nil, errors.Wrapf(ErrInvalidTransition, "set copy %s from %s to %s", c.ID, c.Status, status)
	}
	next := c.Clone()
	next.Status = status
	return next, nil
}

// CheckInvariant verifies status in {on_loan, reserved} <=> borrower set <=> due_back set.
func CheckInvariant(c *model.BookCopy) error {
	if !c.Status.IsValid() {
		return errors.Wrapf(ErrInvariant, "copy %s has unknown status %q", c.ID, c.Status)
	}
	held := c.Status.IsHeld()
	if held != (c.BorrowerID != nil) || held != (c.DueBack != nil) {
		return errors.Wrapf(ErrInvariant, "copy %s", c.ID)
	}
	return nil
}

// IsOverdue reports whether the copy is on loan and due strictly before today.
func IsOverdue(c *model.BookCopy, today time.Time) bool {
	return c.Status == model.CopyStatusOnLoan &&
		c.DueBack != nil &&
		model.DateOf(*c.DueBack).Before(model.DateOf(today))
}

func dateRef(t time.Time) *time.Time {
	d := model.DateOf(t)
	return &d
}
