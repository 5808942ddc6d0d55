package model

import "time"

// CopyStatus is the lifecycle state of a BookCopy.
type CopyStatus string

const (
	CopyStatusMaintenance CopyStatus = "maintenance"
	CopyStatusOnLoan      CopyStatus = "on_loan"
	CopyStatusAvailable   CopyStatus = "available"
	CopyStatusReserved    CopyStatus = "reserved"
)

var validCopyStatuses = map[CopyStatus]bool{
	CopyStatusMaintenance: true,
	CopyStatusOnLoan:      true,
	CopyStatusAvailable:   true,
	CopyStatusReserved:    true,
}

func (s CopyStatus) String() string {
	return string(s)
}

func (s CopyStatus) IsValid() bool {
	return validCopyStatuses[s]
}

// IsHeld reports whether a copy in this status has a borrower and a due date.
func (s CopyStatus) IsHeld() bool {
	return s == CopyStatusOnLoan || s == CopyStatusReserved
}

// BookCopy is one loanable unit of a Book.
type BookCopy struct {
	ID         string     `json:"id"`
	BookID     int        `json:"book_id"`
	Imprint    string     `json:"imprint"`
	Status     CopyStatus `json:"status"`
	BorrowerID *int32     `json:"borrower_id"`
	DueBack    *time.Time `json:"due_back"`

	// Filled by list queries.
	BookTitle string `json:"book_title,omitempty"`
}

// Clone returns a deep copy so decisions never alias the caller's snapshot.
func (c *BookCopy) Clone() *BookCopy {
	if c == nil {
		return nil
	}
	clone := *c
	if c.BorrowerID != nil {
		borrower := *c.BorrowerID
		clone.BorrowerID = &borrower
	}
	if c.DueBack != nil {
		due := *c.DueBack
		clone.DueBack = &due
	}
	return &clone
}

// HeldBy reports whether userID is the current borrower.
func (c *BookCopy) HeldBy(userID int32) bool {
	return c.BorrowerID != nil && *c.BorrowerID == userID
}

type FindBookCopy struct {
	ID         *string
	BookID     *int
	BorrowerID *int32
	Status     *CopyStatus
	// DueBefore keeps copies whose due_back is strictly before the date.
	DueBefore *time.Time

	// OrderBy is one of "due_back", "title", "imprint".
	OrderBy string
	Limit   *int
}

type CopyCreateRequest struct {
	BookID  int        `json:"book_id" validate:"required,gt=0"`
	Imprint string     `json:"imprint" validate:"required,max=200"`
	Status  CopyStatus `json:"status" validate:"omitempty,oneof=maintenance available"`
}

type CopyStatusRequest struct {
	Status CopyStatus `json:"status" validate:"required,oneof=maintenance available"`
}

// LendRequest is the body of a borrow or reserve call.
type LendRequest struct {
	Action     string `json:"action" validate:"required,oneof=borrow reserve"`
	ReturnDate string `json:"return_date" validate:"required,datetime=2006-01-02"`
}

type RenewRequest struct {
	RenewalDate string `json:"renewal_date" validate:"required,datetime=2006-01-02"`
}

// RenewForm is what the renewal form is prefilled with.
type RenewForm struct {
	Copy         *BookCopy `json:"copy"`
	ProposedDate string    `json:"proposed_renewal_date"`
	MinDate      string    `json:"min_date"`
	MaxDate      string    `json:"max_date"`
}
