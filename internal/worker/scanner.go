package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/log"
)

// OverdueScanner periodically queues a notice for every overdue copy.
type OverdueScanner struct {
	service  *lending.Service
	pool     WorkPool
	interval time.Duration
	now      func() time.Time
}

func NewOverdueScanner(service *lending.Service, pool WorkPool, interval time.Duration) *OverdueScanner {
	return &OverdueScanner{service: service, pool: pool, interval: interval, now: time.Now}
}

// Run scans once at start and then every interval until ctx is cancelled.
// A zero interval disables the scanner.
func (s *OverdueScanner) Run(ctx context.Context) {
	if s.interval <= 0 {
		log.Info("Overdue scanner disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if n, err := s.ScanOnce(ctx); err != nil {
			log.Error("Overdue scan failed", zap.Error(err))
		} else {
			log.Info("Overdue scan finished", zap.Int("overdue", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ScanOnce queues every currently overdue copy and returns how many there were.
func (s *OverdueScanner) ScanOnce(ctx context.Context) (int, error) {
	copies, err := s.service.Overdue(ctx)
	if err != nil {
		return 0, err
	}
	today := s.now()
	for _, c := range copies {
		s.pool.Push(Job{Copy: c, Today: today})
	}
	return len(copies), nil
}
