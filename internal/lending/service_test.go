package lending

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
}

func (r *recordingNotifier) Notify(n *model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

type fixture struct {
	store    *store.Store
	service  *Service
	notifier *recordingNotifier
	member   *model.User
	admin    *model.User
	book     *model.Book
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "e-library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(ctx))

	s := store.NewStore(d.DB)
	f := &fixture{store: s, notifier: &recordingNotifier{}}
	f.service = NewService(s,
		WithPolicy(DefaultPolicy()),
		WithClock(func() time.Time { return today.Add(10 * time.Hour) }),
		WithNotifier(f.notifier),
	)
	f.admin, err = s.CreateUser(ctx, &model.User{Username: "host", Role: model.RoleHost, PasswordHash: "x"})
	require.NoError(t, err)
	f.member, err = s.CreateUser(ctx, &model.User{Username: "alice", Role: model.RoleUser, PasswordHash: "x"})
	require.NoError(t, err)
	f.book = f.createBook(t, "Dune")
	return f
}

func (f *fixture) createBook(t *testing.T, title string) *model.Book {
	t.Helper()
	book, err := f.store.CreateBook(context.Background(), &model.Book{Title: title}, nil)
	require.NoError(t, err)
	return book
}

func (f *fixture) createCopy(t *testing.T, bookID int, status model.CopyStatus) *model.BookCopy {
	t.Helper()
	c, err := f.store.CreateCopy(context.Background(), &model.BookCopy{BookID: bookID, Imprint: "Ace", Status: status})
	require.NoError(t, err)
	return c
}

func (f *fixture) lend(t *testing.T, c *model.BookCopy, status model.CopyStatus, due time.Time) {
	t.Helper()
	c.Status = status
	c.BorrowerID = &f.member.ID
	c.DueBack = &due
	require.NoError(t, f.store.SaveCopy(context.Background(), c))
}

func TestServiceBorrowSingleAvailableCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	o, err := f.service.BorrowOrReserve(ctx, f.member, f.book.ID, ActionBorrow, today.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.True(t, o.Accepted(), o.Detail)

	stored, err := f.store.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusOnLoan, stored.Status)
	assert.True(t, stored.HeldBy(f.member.ID))
	assert.True(t, today.AddDate(0, 0, 7).Equal(*stored.DueBack))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.member.ID, f.notifier.sent[0].UserID)
	assert.Equal(t, c.ID, f.notifier.sent[0].CopyID)
}

func TestServiceBorrowLimitAcrossBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, title := range []string{"Hyperion", "Neuromancer", "Solaris"} {
		book := f.createBook(t, title)
		f.lend(t, f.createCopy(t, book.ID, model.CopyStatusAvailable), model.CopyStatusOnLoan, today.AddDate(0, 0, 5))
	}
	c := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	o, err := f.service.BorrowOrReserve(ctx, f.member, f.book.ID, ActionBorrow, today.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, ReasonBorrowLimitReached, o.Reason)

	// Nothing was written.
	stored, err := f.store.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusAvailable, stored.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestServiceReserveTooLate(t *testing.T) {
	f := newFixture(t)
	f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	o, err := f.service.BorrowOrReserve(context.Background(), f.member, f.book.ID, ActionReserve, today.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, ReasonInvalidReturnDate, o.Reason)
}

func TestServiceOverdueBlocksRequests(t *testing.T) {
	f := newFixture(t)
	other := f.createBook(t, "Hyperion")
	f.lend(t, f.createCopy(t, other.ID, model.CopyStatusAvailable), model.CopyStatusOnLoan, today.AddDate(0, 0, -1))
	f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	o, err := f.service.BorrowOrReserve(context.Background(), f.member, f.book.ID, ActionReserve, today.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, ReasonHasOverdueCopies, o.Reason)
	require.Len(t, o.Overdue, 1)
	assert.Equal(t, "Hyperion", o.Overdue[0].BookTitle)
}

func TestServiceBorrowConvertsReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reserved := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)
	f.lend(t, reserved, model.CopyStatusReserved, today.AddDate(0, 0, 2))
	spare := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	o, err := f.service.BorrowOrReserve(ctx, f.member, f.book.ID, ActionBorrow, today.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.True(t, o.Accepted(), o.Detail)
	assert.Equal(t, reserved.ID, o.Copy.ID)

	stored, err := f.store.GetCopy(ctx, reserved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusOnLoan, stored.Status)
	stored, err = f.store.GetCopy(ctx, spare.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusAvailable, stored.Status)
}

func TestServiceUnknownBook(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.BorrowOrReserve(context.Background(), f.member, 999, ActionBorrow, today)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestServiceReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)
	f.lend(t, c, model.CopyStatusOnLoan, today.AddDate(0, 0, 3))

	stranger, err := f.store.CreateUser(ctx, &model.User{Username: "bob", Role: model.RoleUser, PasswordHash: "x"})
	require.NoError(t, err)
	_, err = f.service.Return(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, ErrNotBorrower)

	o, err := f.service.Return(ctx, f.member, c.ID)
	require.NoError(t, err)
	require.True(t, o.Accepted())

	stored, err := f.store.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusAvailable, stored.Status)
	assert.Nil(t, stored.BorrowerID)
	assert.Nil(t, stored.DueBack)

	o, err = f.service.Return(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, ReasonCopyNotHeld, o.Reason)

	_, err = f.service.Return(ctx, f.member, "missing")
	assert.ErrorIs(t, err, ErrCopyNotFound)
}

func TestServiceRenew(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCopy(t, f.book.ID, model.CopyStatusAvailable)
	f.lend(t, c, model.CopyStatusOnLoan, today.AddDate(0, 0, 3))

	_, err := f.service.Renew(ctx, f.member, c.ID, today.AddDate(0, 0, 14))
	assert.ErrorIs(t, err, ErrNotLibrarian)

	form, err := f.service.RenewForm(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-22", form.ProposedDate)
	assert.Equal(t, "2024-03-01", form.MinDate)
	assert.Equal(t, "2024-03-29", form.MaxDate)

	o, err := f.service.Renew(ctx, f.admin, c.ID, today.AddDate(0, 0, 21))
	require.NoError(t, err)
	require.True(t, o.Accepted(), o.Detail)

	stored, err := f.store.GetCopy(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, today.AddDate(0, 0, 21).Equal(*stored.DueBack))
	assert.True(t, stored.HeldBy(f.member.ID))

	// The borrower hears about it, not the librarian.
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.member.ID, f.notifier.sent[0].UserID)
}

func TestServiceSetAdminStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.createCopy(t, f.book.ID, "")

	_, err := f.service.SetAdminStatus(ctx, f.member, c.ID, model.CopyStatusAvailable)
	assert.ErrorIs(t, err, ErrNotLibrarian)

	next, err := f.service.SetAdminStatus(ctx, f.admin, c.ID, model.CopyStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.CopyStatusAvailable, next.Status)

	_, err = f.service.SetAdminStatus(ctx, f.admin, c.ID, model.CopyStatusReserved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestServiceConcurrentBorrowOfLastCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createCopy(t, f.book.ID, model.CopyStatusAvailable)

	users := make([]*model.User, 4)
	for i := range users {
		u, err := f.store.CreateUser(ctx, &model.User{Username: fmt.Sprintf("reader%d", i), Role: model.RoleUser, PasswordHash: "x"})
		require.NoError(t, err)
		users[i] = u
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u *model.User) {
			defer wg.Done()
			o, err := f.service.BorrowOrReserve(ctx, u, f.book.ID, ActionBorrow, today.AddDate(0, 0, 7))
			if !assert.NoError(t, err) {
				return
			}
			if o.Accepted() {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.Equal(t, ReasonNoCopiesAvailable, o.Reason)
			}
		}(u)
	}
	wg.Wait()
	assert.Equal(t, 1, accepted)

	onLoan := model.CopyStatusOnLoan
	count, err := f.store.CountCopies(ctx, &model.FindBookCopy{Status: &onLoan})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
