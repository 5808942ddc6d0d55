package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

func (s *Store) ListGenres(ctx context.Context, find *model.FindGenre) ([]*model.Genre, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "genre.id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "genre.name = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "genre.id IN (SELECT genre_id FROM book_genre WHERE book_id = ?)"), append(args, *v)
	}

	query := `SELECT genre.id, genre.name FROM genre WHERE ` + strings.Join(where, " AND ") + ` ORDER BY genre.name ASC, genre.id ASC`
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query genres")
	}
	defer rows.Close()

	list := make([]*model.Genre, 0)
	for rows.Next() {
		var genre model.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, err
		}
		list = append(list, &genre)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetGenre(ctx context.Context, id int) (*model.Genre, error) {
	list, err := s.ListGenres(ctx, &model.FindGenre{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) CreateGenre(ctx context.Context, create *model.Genre) (*model.Genre, error) {
	stmt := `INSERT INTO genre (name) VALUES (?) RETURNING id, name`
	logQuery(stmt, []any{create.Name})

	var genre model.Genre
	if err := s.db.QueryRowContext(ctx, stmt, create.Name).Scan(&genre.ID, &genre.Name); err != nil {
		return nil, errors.Wrap(err, "failed to create genre")
	}
	return &genre, nil
}

func (s *Store) UpdateGenre(ctx context.Context, update *model.Genre) (*model.Genre, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE genre SET name = ? WHERE id = ?`, update.Name, update.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update genre %d", update.ID)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, errors.Wrapf(ErrNotFound, "genre %d", update.ID)
	}
	s.clearBookCache()
	return s.GetGenre(ctx, update.ID)
}

func (s *Store) DeleteGenre(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM genre WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete genre %d", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "genre %d", id)
	}
	s.clearBookCache()
	return nil
}
