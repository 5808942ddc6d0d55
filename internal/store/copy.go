package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/util"
)

const copyColumns = `
	book_copy.id,
	book_copy.book_id,
	book_copy.imprint,
	book_copy.status,
	book_copy.borrower_id,
	book_copy.due_back,
	book.title`

func copyWhere(find *model.FindBookCopy) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book_copy.id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_copy.book_id = ?"), append(args, *v)
	}
	if v := find.BorrowerID; v != nil {
		where, args = append(where, "book_copy.borrower_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "book_copy.status = ?"), append(args, v.String())
	}
	if v := find.DueBefore; v != nil {
		where, args = append(where, "book_copy.due_back < ?"), append(args, model.DateOf(*v).Format(model.DateLayout))
	}
	return where, args
}

func listCopies(ctx context.Context, q queryer, find *model.FindBookCopy) ([]*model.BookCopy, error) {
	where, args := copyWhere(find)

	var orderBy string
	switch find.OrderBy {
	case "due_back":
		orderBy = "book_copy.due_back ASC, book_copy.id ASC"
	case "title":
		orderBy = "book.title ASC, book_copy.due_back ASC, book_copy.id ASC"
	default:
		orderBy = "book.title ASC, book_copy.imprint ASC, book_copy.id ASC"
	}

	query := `SELECT ` + copyColumns + `
		FROM book_copy
		JOIN book ON book.id = book_copy.book_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + orderBy
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}
	logQuery(query, args)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query copies")
	}
	defer rows.Close()

	list := make([]*model.BookCopy, 0)
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCopy(row rowScanner) (*model.BookCopy, error) {
	var (
		c        model.BookCopy
		status   string
		borrower sql.NullInt32
		dueBack  sql.NullString
	)
	if err := row.Scan(&c.ID, &c.BookID, &c.Imprint, &status, &borrower, &dueBack, &c.BookTitle); err != nil {
		return nil, err
	}
	c.Status = model.CopyStatus(status)
	if borrower.Valid {
		id := borrower.Int32
		c.BorrowerID = &id
	}
	if dueBack.Valid {
		due, err := model.ParseDate(dueBack.String)
		if err != nil {
			return nil, errors.Wrapf(err, "copy %s has malformed due_back %q", c.ID, dueBack.String)
		}
		c.DueBack = &due
	}
	return &c, nil
}

// countCopies is an aggregate COUNT, it never loads the rows.
func countCopies(ctx context.Context, q queryer, find *model.FindBookCopy) (int, error) {
	where, args := copyWhere(find)
	query := `SELECT COUNT(*) FROM book_copy WHERE ` + strings.Join(where, " AND ")
	logQuery(query, args)

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count copies")
	}
	return count, nil
}

func getCopy(ctx context.Context, q queryer, id string) (*model.BookCopy, error) {
	list, err := listCopies(ctx, q, &model.FindBookCopy{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// saveCopy writes status, borrower and due date of an existing copy.
func saveCopy(ctx context.Context, q queryer, c *model.BookCopy) error {
	var borrower, dueBack any
	if c.BorrowerID != nil {
		borrower = *c.BorrowerID
	}
	if c.DueBack != nil {
		dueBack = model.DateOf(*c.DueBack).Format(model.DateLayout)
	}
	stmt := `UPDATE book_copy SET status = ?, borrower_id = ?, due_back = ? WHERE id = ?`
	args := []any{c.Status.String(), borrower, dueBack, c.ID}
	logQuery(stmt, args)

	result, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to save copy %s", c.ID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "copy %s", c.ID)
	}
	return nil
}

func (s *Store) ListCopies(ctx context.Context, find *model.FindBookCopy) ([]*model.BookCopy, error) {
	return listCopies(ctx, s.db, find)
}

func (s *Store) CountCopies(ctx context.Context, find *model.FindBookCopy) (int, error) {
	return countCopies(ctx, s.db, find)
}

func (s *Store) GetCopy(ctx context.Context, id string) (*model.BookCopy, error) {
	return getCopy(ctx, s.db, id)
}

func (s *Store) SaveCopy(ctx context.Context, c *model.BookCopy) error {
	return saveCopy(ctx, s.db, c)
}

// CreateCopy inserts a copy. Copies start in maintenance unless told otherwise
// and never start held.
func (s *Store) CreateCopy(ctx context.Context, create *model.BookCopy) (*model.BookCopy, error) {
	if create.ID == "" {
		create.ID = util.GenUUID()
	}
	if create.Status == "" {
		create.Status = model.CopyStatusMaintenance
	}
	if create.Status.IsHeld() {
		return nil, errors.Errorf("a new copy cannot be %s", create.Status)
	}

	stmt := `INSERT INTO book_copy (id, book_id, imprint, status) VALUES (?, ?, ?, ?)`
	args := []any{create.ID, create.BookID, create.Imprint, create.Status.String()}
	logQuery(stmt, args)

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to create copy")
	}
	return s.GetCopy(ctx, create.ID)
}

func (s *Store) DeleteCopy(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM book_copy WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete copy %s", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "copy %s", id)
	}
	return nil
}
