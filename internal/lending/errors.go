package lending

import "github.com/pkg/errors"

// Hard failures. Policy violations are never errors, they are rejected Outcomes.
var (
	// ErrNotBorrower is returned when a caller acts on a copy held by someone else.
	ErrNotBorrower = errors.New("caller is not the borrower of this copy")
	// ErrNotLibrarian is returned when a member calls a librarian operation.
	ErrNotLibrarian = errors.New("operation requires a librarian")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid copy status transition")
	// ErrInvariant is returned when a copy's status, borrower and due date disagree.
	ErrInvariant = errors.New("copy status, borrower and due date are inconsistent")

	ErrBookNotFound = errors.New("book not found")
	ErrCopyNotFound = errors.New("copy not found")
)
