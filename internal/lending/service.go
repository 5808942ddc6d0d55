package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
)

const defaultProposedRenewalWeeks = 3

// Notifier receives the notification recorded for every accepted decision.
type Notifier interface {
	Notify(n *model.Notification)
}

// Service runs each lending operation as one read-decide-write transaction.
type Service struct {
	store    *store.Store
	policy   Policy
	now      func() time.Time
	notifier Notifier

	proposedRenewalWeeks int
	retryOptions         []RetryOption
}

type Option func(*Service)

func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock replaces time.Now, "today" is derived from it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithRetry(options ...RetryOption) Option {
	return func(s *Service) { s.retryOptions = append(s.retryOptions, options...) }
}

func WithProposedRenewalWeeks(weeks int) Option {
	return func(s *Service) {
		if weeks > 0 {
			s.proposedRenewalWeeks = weeks
		}
	}
}

func NewService(s *store.Store, options ...Option) *Service {
	service := &Service{
		store:                s,
		policy:               PolicyFromConfig(),
		now:                  time.Now,
		proposedRenewalWeeks: defaultProposedRenewalWeeks,
	}
	if opts := config.Opts; opts != nil {
		if opts.Lending.ProposedRenewalWeeks > 0 {
			service.proposedRenewalWeeks = opts.Lending.ProposedRenewalWeeks
		}
		if opts.Lending.TransactionMaxAttempts > 0 {
			service.retryOptions = append(service.retryOptions, WithMaxAttempts(opts.Lending.TransactionMaxAttempts))
		}
		if opts.Lending.TransactionBaseDelay > 0 {
			service.retryOptions = append(service.retryOptions, WithBaseDelay(opts.Lending.TransactionBaseDelay))
		}
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Today is the calendar date every decision of the service is made on.
func (s *Service) Today() time.Time {
	return model.DateOf(s.now())
}

// BorrowOrReserve evaluates a borrow or reserve request on a book and stores
// the changed copy when the request is accepted.
func (s *Service) BorrowOrReserve(ctx context.Context, user *model.User, bookID int, action Action, returnDate time.Time) (*Outcome, error) {
	if !action.IsValid() {
		o := reject(ReasonInvalidAction, fmt.Sprintf("unknown action %q", action))
		return &o, nil
	}

	var (
		outcome Outcome
		notice  *model.Notification
	)
	err := s.transact(ctx, func(tx *store.Tx) error {
		book, err := tx.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return errors.Wrapf(ErrBookNotFound, "book %d", bookID)
		}

		snapshot, err := loadSnapshot(ctx, tx, user.ID, bookID, s.Today())
		if err != nil {
			return err
		}
		outcome = s.policy.Evaluate(snapshot, Request{
			UserID:     user.ID,
			Book:       book,
			Action:     action,
			ReturnDate: returnDate,
		})
		notice, err = s.apply(ctx, tx, user.ID, &outcome)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(string(action), user, &outcome, notice)
	return &outcome, nil
}

// Return gives a held copy back. Librarians may return on behalf of the borrower.
func (s *Service) Return(ctx context.Context, user *model.User, copyID string) (*Outcome, error) {
	var (
		outcome Outcome
		notice  *model.Notification
	)
	err := s.transact(ctx, func(tx *store.Tx) error {
		c, err := s.loadCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}
		if outcome, err = EvaluateReturn(user, c); err != nil {
			return err
		}
		notice, err = s.apply(ctx, tx, borrowerOf(c), &outcome)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish("return", user, &outcome, notice)
	return &outcome, nil
}

// Renew moves the due date of a copy on loan. Librarians only.
func (s *Service) Renew(ctx context.Context, user *model.User, copyID string, due time.Time) (*Outcome, error) {
	if !user.Role.IsSuperuser() {
		return nil, ErrNotLibrarian
	}

	var (
		outcome Outcome
		notice  *model.Notification
	)
	err := s.transact(ctx, func(tx *store.Tx) error {
		c, err := s.loadCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}
		if outcome, err = s.policy.EvaluateRenewal(user, c, due, s.Today()); err != nil {
			return err
		}
		notice, err = s.apply(ctx, tx, borrowerOf(c), &outcome)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish("renew", user, &outcome, notice)
	return &outcome, nil
}

// RenewForm returns what the renewal form is prefilled with.
func (s *Service) RenewForm(ctx context.Context, user *model.User, copyID string) (*model.RenewForm, error) {
	if !user.Role.IsSuperuser() {
		return nil, ErrNotLibrarian
	}
	c, err := s.store.GetCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Wrapf(ErrCopyNotFound, "copy %s", copyID)
	}
	today := s.Today()
	return &model.RenewForm{
		Copy:         c,
		ProposedDate: today.AddDate(0, 0, 7*s.proposedRenewalWeeks).Format(model.DateLayout),
		MinDate:      today.Format(model.DateLayout),
		MaxDate:      s.policy.LatestReturnDate(today).Format(model.DateLayout),
	}, nil
}

// SetAdminStatus moves a copy nobody holds between maintenance and available.
func (s *Service) SetAdminStatus(ctx context.Context, user *model.User, copyID string, status model.CopyStatus) (*model.BookCopy, error) {
	if !user.Role.IsSuperuser() {
		return nil, ErrNotLibrarian
	}
	var next *model.BookCopy
	err := s.transact(ctx, func(tx *store.Tx) error {
		c, err := s.loadCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}
		if next, err = SetAdminStatus(c, status); err != nil {
			return err
		}
		return tx.SaveCopy(ctx, next)
	})
	return next, err
}

// Overdue lists every overdue copy, ordered by due date.
func (s *Service) Overdue(ctx context.Context) ([]*model.BookCopy, error) {
	onLoan := model.CopyStatusOnLoan
	today := s.Today()
	return s.store.ListCopies(ctx, &model.FindBookCopy{Status: &onLoan, DueBefore: &today, OrderBy: "due_back"})
}

func (s *Service) transact(ctx context.Context, fn func(tx *store.Tx) error) error {
	return RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		return s.store.RunInTx(ctx, fn)
	}, s.retryOptions...)
}

func (s *Service) loadCopy(ctx context.Context, tx *store.Tx, copyID string) (*model.BookCopy, error) {
	c, err := tx.GetCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Wrapf(ErrCopyNotFound, "copy %s", copyID)
	}
	return c, nil
}

// apply stores an accepted outcome and records a notification for recipient.
// Rejections write nothing.
func (s *Service) apply(ctx context.Context, tx *store.Tx, recipient int32, o *Outcome) (*model.Notification, error) {
	if !o.Accepted() {
		return nil, nil
	}
	if err := CheckInvariant(o.Copy); err != nil {
		return nil, err
	}
	if err := tx.SaveCopy(ctx, o.Copy); err != nil {
		return nil, err
	}
	if recipient == 0 {
		return nil, nil
	}
	return tx.CreateNotification(ctx, &model.Notification{
		UserID:  recipient,
		CopyID:  o.Copy.ID,
		Message: o.Message,
	})
}

// publish logs the decision and, once committed, pushes its notification.
func (s *Service) publish(action string, user *model.User, o *Outcome, notice *model.Notification) {
	if !o.Accepted() {
		log.Info("Lending request rejected",
			zap.String("action", action),
			zap.Int32("user", user.ID),
			zap.String("reason", string(o.Reason)))
		return
	}
	log.Info("Lending request accepted",
		zap.String("action", action),
		zap.Int32("user", user.ID),
		zap.String("copy", o.Copy.ID))
	if s.notifier != nil && notice != nil {
		s.notifier.Notify(notice)
	}
}

func borrowerOf(c *model.BookCopy) int32 {
	if c.BorrowerID == nil {
		return 0
	}
	return *c.BorrowerID
}

// loadSnapshot reads what Evaluate needs about the user and the book.
func loadSnapshot(ctx context.Context, tx *store.Tx, userID int32, bookID int, today time.Time) (Snapshot, error) {
	onLoan, reserved, available := model.CopyStatusOnLoan, model.CopyStatusReserved, model.CopyStatusAvailable
	snapshot := Snapshot{Today: today}

	var err error
	if snapshot.LoanCount, err = tx.CountCopies(ctx, &model.FindBookCopy{BorrowerID: &userID, Status: &onLoan}); err != nil {
		return snapshot, err
	}
	if snapshot.ReservationCount, err = tx.CountCopies(ctx, &model.FindBookCopy{BorrowerID: &userID, Status: &reserved}); err != nil {
		return snapshot, err
	}
	if snapshot.Overdue, err = tx.ListCopies(ctx, &model.FindBookCopy{
		BorrowerID: &userID,
		Status:     &onLoan,
		DueBefore:  &today,
		OrderBy:    "due_back",
	}); err != nil {
		return snapshot, err
	}
	if snapshot.Held, err = tx.ListCopies(ctx, &model.FindBookCopy{BorrowerID: &userID, BookID: &bookID}); err != nil {
		return snapshot, err
	}

	limit := 1
	list, err := tx.ListCopies(ctx, &model.FindBookCopy{BookID: &bookID, Status: &available, Limit: &limit})
	if err != nil {
		return snapshot, err
	}
	if len(list) > 0 {
		snapshot.Available = list[0]
	}
	return snapshot, nil
}
