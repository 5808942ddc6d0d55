package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

func notificationWhere(find *model.FindNotification) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.Read; v != nil {
		where, args = append(where, "read = ?"), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "created_ts >= ?"), append(args, *v)
	}
	if v := find.CopyID; v != nil {
		where, args = append(where, "copy_id = ?"), append(args, *v)
	}
	return where, args
}

func (s *Store) ListNotifications(ctx context.Context, find *model.FindNotification) ([]*model.Notification, error) {
	where, args := notificationWhere(find)
	query := `
		SELECT id, user_id, copy_id, message, read, created_ts
		FROM notification
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notifications")
	}
	defer rows.Close()

	list := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.CopyID, &n.Message, &n.Read, &n.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// HasNotification reports whether a matching notification exists.
func (s *Store) HasNotification(ctx context.Context, find *model.FindNotification) (bool, error) {
	where, args := notificationWhere(find)
	query := `SELECT EXISTS (SELECT 1 FROM notification WHERE ` + strings.Join(where, " AND ") + `)`
	logQuery(query, args)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check notification")
	}
	return exists, nil
}

func (s *Store) CreateNotification(ctx context.Context, create *model.Notification) (*model.Notification, error) {
	return createNotification(ctx, s.db, create)
}

func createNotification(ctx context.Context, q queryer, create *model.Notification) (*model.Notification, error) {
	stmt := `INSERT INTO notification (user_id, copy_id, message) VALUES (?, ?, ?) RETURNING id, read, created_ts`
	args := []any{create.UserID, create.CopyID, create.Message}
	logQuery(stmt, args)

	n := *create
	if err := q.QueryRowContext(ctx, stmt, args...).Scan(&n.ID, &n.Read, &n.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}
	return &n, nil
}

// MarkNotificationRead marks one notification of the user as read.
func (s *Store) MarkNotificationRead(ctx context.Context, userID int32, id int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE notification SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.Wrapf(err, "failed to mark notification %d", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "notification %d", id)
	}
	return nil
}
