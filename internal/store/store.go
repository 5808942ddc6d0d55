package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
)

type Store struct {
	db                 *sql.DB
	UserCache          sync.Map // map[int32]*model.User
	UserSettingCache   sync.Map // map[string]*model.UserSetting
	SystemSettingCache sync.Map // map[string]*model.SystemSetting
	BookCache          sync.Map // map[int]*model.Book
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

// clearBookCache drops every cached book, used when a change touches book
// rows indirectly such as renaming an author.
func (s *Store) clearBookCache() {
	s.BookCache.Range(func(key, _ any) bool {
		s.BookCache.Delete(key)
		return true
	})
}

// queryer is satisfied by *sql.DB and *sql.Tx, so queries are written once and
// run either standalone or inside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx runs fn in one transaction. The connection is opened with
// _txlock=immediate, so the write lock is taken before fn reads anything.
// fn must only use tx: the pool has a single connection.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// zap escapes newlines, so queries are dumped raw.
// https://github.com/uber-go/zap/issues/963
func logQuery(query string, args []any) {
	log.Debug("SQL query and args:", zap.Int("args", len(args)))
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))
}
