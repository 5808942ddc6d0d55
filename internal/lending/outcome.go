package lending

import "github.com/Xunop/e-library/internal/model"

// Action is a member request on a book.
type Action string

const (
	ActionBorrow  Action = "borrow"
	ActionReserve Action = "reserve"
)

func (a Action) IsValid() bool {
	return a == ActionBorrow || a == ActionReserve
}

// Reason names why a request was rejected.
type Reason string

const (
	ReasonBorrowLimitReached      Reason = "borrow_limit_reached"
	ReasonHasOverdueCopies        Reason = "has_overdue_copies"
	ReasonInvalidReturnDate       Reason = "invalid_return_date"
	ReasonNoCopiesAvailable       Reason = "no_copies_available"
	ReasonAlreadyBorrowed         Reason = "already_borrowed"
	ReasonReservationLimitReached Reason = "reservation_limit_reached"
	ReasonCopyNotHeld             Reason = "copy_not_held"
	ReasonNotOnLoan               Reason = "not_on_loan"
	ReasonInvalidAction           Reason = "invalid_action"
)

// Outcome is the tagged result of an evaluation: either Copy and Message are
// set (success) or Reason is set (rejection).
type Outcome struct {
	Copy    *model.BookCopy `json:"copy,omitempty"`
	Message string          `json:"message,omitempty"`

	Reason Reason `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
	// Overdue lists the offending copies of a has_overdue_copies rejection.
	Overdue []*model.BookCopy `json:"overdue_copies,omitempty"`
}

// Accepted reports whether the outcome is a success.
func (o Outcome) Accepted() bool {
	return o.Reason == ""
}

func success(c *model.BookCopy, message string) Outcome {
	return Outcome{Copy: c, Message: message}
}

func reject(reason Reason, detail string) Outcome {
	return Outcome{Reason: reason, Detail: detail}
}
