package worker

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
)

var today = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
}

func (r *recordingNotifier) Notify(n *model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "e-library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return store.NewStore(d.DB)
}

// overdueCopy lends a fresh copy to a new member, due on the given date.
func overdueCopy(t *testing.T, s *store.Store, due time.Time) *model.BookCopy {
	t.Helper()
	ctx := context.Background()
	user, err := s.CreateUser(ctx, &model.User{Username: "alice", Role: model.RoleUser, PasswordHash: "x"})
	require.NoError(t, err)
	book, err := s.CreateBook(ctx, &model.Book{Title: "Dune"}, nil)
	require.NoError(t, err)
	c, err := s.CreateCopy(ctx, &model.BookCopy{BookID: book.ID, Imprint: "Ace"})
	require.NoError(t, err)

	c.Status = model.CopyStatusOnLoan
	c.BorrowerID = &user.ID
	c.DueBack = &due
	require.NoError(t, s.SaveCopy(ctx, c))
	c.BookTitle = book.Title
	return c
}

func TestNoticeIsSentOncePerDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	c := overdueCopy(t, s, model.DateOf(today).AddDate(0, 0, -3))

	w := &OverdueNoticeWorker{store: s, notifier: notifier}
	require.NoError(t, w.handle(ctx, Job{Copy: c, Today: today}))
	require.NoError(t, w.handle(ctx, Job{Copy: c, Today: today.Add(2 * time.Hour)}))

	notices, err := s.ListNotifications(ctx, &model.FindNotification{UserID: c.BorrowerID})
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, c.ID, notices[0].CopyID)
	assert.Contains(t, notices[0].Message, "2024-02-27")
	assert.Contains(t, notices[0].Message, "3 day(s) overdue")
	assert.Equal(t, 1, notifier.count())
}

func TestNoticeSkipsCopyWithoutBorrower(t *testing.T) {
	s := newTestStore(t)
	w := &OverdueNoticeWorker{store: s}
	err := w.handle(context.Background(), Job{Copy: &model.BookCopy{ID: "x", Status: model.CopyStatusAvailable}, Today: today})
	assert.NoError(t, err)
}

func TestScannerQueuesOverdueCopies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t)
	notifier := &recordingNotifier{}
	overdueCopy(t, s, model.DateOf(today).AddDate(0, 0, -1))

	service := lending.NewService(s, lending.WithClock(func() time.Time { return today }))
	pool := NewPool(ctx, s, notifier, 2)
	scanner := NewOverdueScanner(service, pool, time.Hour)
	scanner.now = func() time.Time { return today }

	n, err := scanner.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Eventually(t, func() bool { return notifier.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScannerDisabledWithZeroInterval(t *testing.T) {
	scanner := NewOverdueScanner(nil, nil, 0)
	done := make(chan struct{})
	go func() {
		scanner.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled scanner did not return")
	}
}
