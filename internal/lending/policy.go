package lending

import (
	"fmt"
	"strings"
	"time"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/model"
)

const (
	defaultMaxLoans        = 3
	defaultMaxReservations = 1
	defaultMaxLoanWeeks    = 4
)

// Policy holds the per-user limits. Limits are system wide: they count a
// user's copies of every book, not of the requested one.
type Policy struct {
	MaxLoans        int
	MaxReservations int
	MaxLoanWeeks    int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxLoans:        defaultMaxLoans,
		MaxReservations: defaultMaxReservations,
		MaxLoanWeeks:    defaultMaxLoanWeeks,
	}
}

// PolicyFromConfig reads the limits from config.Opts, falling back to the defaults.
func PolicyFromConfig() Policy {
	p := DefaultPolicy()
	if config.Opts == nil {
		return p
	}
	if v := config.Opts.Lending.MaxLoans; v > 0 {
		p.MaxLoans = v
	}
	if v := config.Opts.Lending.MaxReservations; v > 0 {
		p.MaxReservations = v
	}
	if v := config.Opts.Lending.MaxLoanWeeks; v > 0 {
		p.MaxLoanWeeks = v
	}
	return p
}

// LatestReturnDate is the last acceptable due date for a request made today.
func (p Policy) LatestReturnDate(today time.Time) time.Time {
	return model.DateOf(today).AddDate(0, 0, 7*p.MaxLoanWeeks)
}

// ValidReturnDate reports whether today <= due <= today + MaxLoanWeeks.
func (p Policy) ValidReturnDate(due, today time.Time) bool {
	due, today = model.DateOf(due), model.DateOf(today)
	return !due.Before(today) && !due.After(p.LatestReturnDate(today))
}

// Snapshot is what the store knows about the requester and the requested book
// at the start of the transaction.
type Snapshot struct {
	Today time.Time
	// LoanCount and ReservationCount cover every book.
	LoanCount        int
	ReservationCount int
	// Overdue holds the requester's on_loan copies due before Today.
	Overdue []*model.BookCopy
	// Held holds the requester's copies of the requested book.
	Held []*model.BookCopy
	// Available is any available copy of the requested book, nil when there is none.
	Available *model.BookCopy
}

type Request struct {
	UserID     int32
	Book       *model.Book
	Action     Action
	ReturnDate time.Time
}

// Evaluate decides a borrow or reserve request. It is a pure function of its
// inputs: the snapshot is never modified and a rejected request carries no copy.
//
// Rules, first match wins:
//
//	REJECT borrow_limit_reached      if the user has MaxLoans copies on loan (any action)
//	REJECT has_overdue_copies        if any of the user's loans is overdue, listing them
//	REJECT invalid_return_date       unless today <= return date <= today + MaxLoanWeeks
//	REJECT no_copies_available       if the book has no available copy
//	borrow:
//	  CONVERT the user's reserved copy of the book to on_loan (the available copy is untouched)
//	  REJECT  already_borrowed if the user has this book on loan
//	  LEND    the available copy
//	reserve:
//	  REJECT  reservation_limit_reached if the user already holds MaxReservations reservations
//	  REJECT  already_borrowed if the user has this book on loan
//	  RESERVE the available copy
func (p Policy) Evaluate(s Snapshot, r Request) Outcome {
	if s.LoanCount >= p.MaxLoans {
		return reject(ReasonBorrowLimitReached,
			fmt.Sprintf("you already have %d books on loan, the limit is %d", s.LoanCount, p.MaxLoans))
	}

	if len(s.Overdue) > 0 {
		o := reject(ReasonHasOverdueCopies, "return your overdue books first: "+describeCopies(s.Overdue))
		for _, c := range s.Overdue {
			o.Overdue = append(o.Overdue, c.Clone())
		}
		return o
	}

	if !p.ValidReturnDate(r.ReturnDate, s.Today) {
		return reject(ReasonInvalidReturnDate,
			fmt.Sprintf("return date must be between %s and %s",
				model.DateOf(s.Today).Format(model.DateLayout),
				p.LatestReturnDate(s.Today).Format(model.DateLayout)))
	}

	if s.Available == nil {
		return reject(ReasonNoCopiesAvailable, fmt.Sprintf("no copies of %q are available", r.Book.Title))
	}

	reserved, onLoan := heldCopies(s.Held)
	switch r.Action {
	case ActionBorrow:
		target := s.Available
		if reserved != nil {
			target = reserved
		} else if onLoan != nil {
			return reject(ReasonAlreadyBorrowed, fmt.Sprintf("you already have %q on loan", r.Book.Title))
		}
		next, err := Borrow(target, r.UserID, r.ReturnDate)
		if err != nil {
			return reject(ReasonNoCopiesAvailable, err.Error())
		}
		return success(next, fmt.Sprintf("You borrowed %q, due back on %s",
			r.Book.Title, next.DueBack.Format(model.DateLayout)))

	case ActionReserve:
		if s.ReservationCount >= p.MaxReservations {
			return reject(ReasonReservationLimitReached,
				fmt.Sprintf("you can hold at most %d reservation(s)", p.MaxReservations))
		}
		if onLoan != nil {
			return reject(ReasonAlreadyBorrowed, fmt.Sprintf("you already have %q on loan", r.Book.Title))
		}
		next, err := Reserve(s.Available, r.UserID, r.ReturnDate)
		if err != nil {
			return reject(ReasonNoCopiesAvailable, err.Error())
		}
		return success(next, fmt.Sprintf("You reserved %q until %s",
			r.Book.Title, next.DueBack.Format(model.DateLayout)))
	}

	return reject(ReasonInvalidAction, fmt.Sprintf("unknown action %q", r.Action))
}

// EvaluateReturn decides a return. Only the borrower, or a librarian acting
// for them, may return a copy; anyone else gets ErrNotBorrower.
func EvaluateReturn(user *model.User, c *model.BookCopy) (Outcome, error) {
	superuser := user.Role.IsSuperuser()
	if !c.HeldBy(user.ID) && !superuser {
		return Outcome{}, ErrNotBorrower
	}
	if !c.Status.IsHeld() {
		return reject(ReasonCopyNotHeld, fmt.Sprintf("copy %s is %s", c.ID, c.Status)), nil
	}
	next, err := Return(c)
	if err != nil {
		return Outcome{}, err
	}
	return success(next, fmt.Sprintf("Copy %s of %q returned", c.ID, c.BookTitle)), nil
}

// EvaluateRenewal decides a librarian renewal.
func (p Policy) EvaluateRenewal(user *model.User, c *model.BookCopy, due, today time.Time) (Outcome, error) {
	if !user.Role.IsSuperuser() {
		return Outcome{}, ErrNotLibrarian
	}
	if c.Status != model.CopyStatusOnLoan {
		return reject(ReasonNotOnLoan, fmt.Sprintf("copy %s is %s", c.ID, c.Status)), nil
	}
	if !p.ValidReturnDate(due, today) {
		return reject(ReasonInvalidReturnDate,
			fmt.Sprintf("renewal date must be between %s and %s",
				model.DateOf(today).Format(model.DateLayout),
				p.LatestReturnDate(today).Format(model.DateLayout))), nil
	}
	next, err := Renew(c, due)
	if err != nil {
		return Outcome{}, err
	}
	return success(next, fmt.Sprintf("Copy %s of %q renewed until %s",
		c.ID, c.BookTitle, next.DueBack.Format(model.DateLayout))), nil
}

func heldCopies(held []*model.BookCopy) (reserved, onLoan *model.BookCopy) {
	for _, c := range held {
		switch c.Status {
		case model.CopyStatusReserved:
			if reserved == nil {
				reserved = c
			}
		case model.CopyStatusOnLoan:
			if onLoan == nil {
				onLoan = c
			}
		}
	}
	return reserved, onLoan
}

func describeCopies(copies []*model.BookCopy) string {
	parts := make([]string, 0, len(copies))
	for _, c := range copies {
		due := ""
		if c.DueBack != nil {
			due = c.DueBack.Format(model.DateLayout)
		}
		title := c.BookTitle
		if title == "" {
			title = c.ID
		}
		parts = append(parts, fmt.Sprintf("%s (due %s)", title, due))
	}
	return strings.Join(parts, ", ")
}
