package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

func (s *Store) ListReviews(ctx context.Context, find *model.FindReview) ([]*model.Review, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "review.id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "review.book_id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "review.user_id = ?"), append(args, *v)
	}

	query := `
		SELECT review.id, review.book_id, review.user_id, user.username, review.text, review.created_ts
		FROM review
		JOIN user ON user.id = review.user_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY review.created_ts DESC, review.id DESC`
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reviews")
	}
	defer rows.Close()

	list := make([]*model.Review, 0)
	for rows.Next() {
		var review model.Review
		if err := rows.Scan(&review.ID, &review.BookID, &review.UserID, &review.Username, &review.Text, &review.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetReview(ctx context.Context, id int) (*model.Review, error) {
	list, err := s.ListReviews(ctx, &model.FindReview{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) CreateReview(ctx context.Context, create *model.Review) (*model.Review, error) {
	stmt := `INSERT INTO review (book_id, user_id, text) VALUES (?, ?, ?) RETURNING id`
	args := []any{create.BookID, create.UserID, create.Text}
	logQuery(stmt, args)

	var id int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}
	return s.GetReview(ctx, id)
}

func (s *Store) DeleteReview(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM review WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete review %d", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "review %d", id)
	}
	return nil
}
