package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

func (s *Store) ListAuthors(ctx context.Context, find *model.FindAuthor) ([]*model.Author, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.LastName; v != nil {
		where, args = append(where, "last_name = ?"), append(args, *v)
	}

	query := `
		SELECT id, first_name, last_name, date_of_birth, date_of_death
		FROM author
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY last_name ASC, first_name ASC, id ASC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query authors")
	}
	defer rows.Close()

	list := make([]*model.Author, 0)
	for rows.Next() {
		var (
			author      model.Author
			birth, died sql.NullString
		)
		if err := rows.Scan(&author.ID, &author.FirstName, &author.LastName, &birth, &died); err != nil {
			return nil, err
		}
		if author.DateOfBirth, err = parseNullDate(birth); err != nil {
			return nil, err
		}
		if author.DateOfDeath, err = parseNullDate(died); err != nil {
			return nil, err
		}
		list = append(list, &author)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetAuthor(ctx context.Context, id int) (*model.Author, error) {
	list, err := s.ListAuthors(ctx, &model.FindAuthor{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM author`).Scan(&count)
	return count, errors.Wrap(err, "failed to count authors")
}

func (s *Store) CreateAuthor(ctx context.Context, create *model.Author) (*model.Author, error) {
	stmt := `INSERT INTO author (first_name, last_name, date_of_birth, date_of_death) VALUES (?, ?, ?, ?) RETURNING id`
	args := []any{create.FirstName, create.LastName, formatNullDate(create.DateOfBirth), formatNullDate(create.DateOfDeath)}
	logQuery(stmt, args)

	var id int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to create author")
	}
	return s.GetAuthor(ctx, id)
}

func (s *Store) UpdateAuthor(ctx context.Context, update *model.Author) (*model.Author, error) {
	stmt := `UPDATE author SET first_name = ?, last_name = ?, date_of_birth = ?, date_of_death = ? WHERE id = ?`
	args := []any{update.FirstName, update.LastName, formatNullDate(update.DateOfBirth), formatNullDate(update.DateOfDeath), update.ID}
	logQuery(stmt, args)

	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update author %d", update.ID)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, errors.Wrapf(ErrNotFound, "author %d", update.ID)
	}
	s.clearBookCache()
	return s.GetAuthor(ctx, update.ID)
}

// DeleteAuthor removes an author; their books keep existing without one.
func (s *Store) DeleteAuthor(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM author WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete author %d", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "author %d", id)
	}
	s.clearBookCache()
	return nil
}

func parseNullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := model.ParseDate(v.String)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed date %q", v.String)
	}
	return &t, nil
}

func formatNullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return model.DateOf(*t).Format(model.DateLayout)
}
