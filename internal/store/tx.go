package store

import (
	"context"
	"database/sql"

	"github.com/Xunop/e-library/internal/model"
)

// Tx exposes the queries the lending service needs inside one transaction.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) ListCopies(ctx context.Context, find *model.FindBookCopy) ([]*model.BookCopy, error) {
	return listCopies(ctx, t.tx, find)
}

func (t *Tx) CountCopies(ctx context.Context, find *model.FindBookCopy) (int, error) {
	return countCopies(ctx, t.tx, find)
}

func (t *Tx) GetCopy(ctx context.Context, id string) (*model.BookCopy, error) {
	return getCopy(ctx, t.tx, id)
}

func (t *Tx) SaveCopy(ctx context.Context, c *model.BookCopy) error {
	return saveCopy(ctx, t.tx, c)
}

func (t *Tx) GetBook(ctx context.Context, id int) (*model.Book, error) {
	return getBook(ctx, t.tx, id)
}

func (t *Tx) CreateNotification(ctx context.Context, create *model.Notification) (*model.Notification, error) {
	return createNotification(ctx, t.tx, create)
}
