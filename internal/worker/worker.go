package worker // import "github.com/Xunop/e-library/internal/worker"

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
)

// Job asks a worker to warn the borrower of an overdue copy.
type Job struct {
	Copy  *model.BookCopy
	Today time.Time
}

// OverdueNoticeWorker records at most one overdue notification per copy and
// day, and pushes it live.
type OverdueNoticeWorker struct {
	id       int
	store    *store.Store
	notifier lending.Notifier
}

// Run handles jobs until the queue is closed or ctx is cancelled.
func (w *OverdueNoticeWorker) Run(ctx context.Context, c <-chan Job) {
	log.Debug("OverdueNoticeWorker is running", zap.Int("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-c:
			if !ok {
				return
			}
			if err := w.handle(ctx, job); err != nil {
				log.Error("Failed to send overdue notice",
					zap.Int("worker_id", w.id),
					zap.String("copy_id", job.Copy.ID),
					zap.Error(err))
			}
		}
	}
}

func (w *OverdueNoticeWorker) handle(ctx context.Context, job Job) error {
	if job.Copy.BorrowerID == nil || job.Copy.DueBack == nil {
		return nil
	}
	userID := *job.Copy.BorrowerID
	since := model.DateOf(job.Today).Unix()
	exists, err := w.store.HasNotification(ctx, &model.FindNotification{
		UserID:       &userID,
		CopyID:       &job.Copy.ID,
		CreatedAfter: &since,
	})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	days := int(model.DateOf(job.Today).Sub(model.DateOf(*job.Copy.DueBack)).Hours() / 24)
	n, err := w.store.CreateNotification(ctx, &model.Notification{
		UserID: userID,
		CopyID: job.Copy.ID,
		Message: fmt.Sprintf("%q was due back on %s (%d day(s) overdue)",
			job.Copy.BookTitle, job.Copy.DueBack.Format(model.DateLayout), days),
	})
	if err != nil {
		return err
	}
	log.Debug("Overdue notice recorded", zap.Int32("user_id", userID), zap.String("copy_id", job.Copy.ID))
	if w.notifier != nil {
		w.notifier.Notify(n)
	}
	return nil
}
