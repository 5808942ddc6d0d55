package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
)

func (s *Store) GetUser(ctx context.Context, find *model.FindUser) (*model.User, error) {
	if find.ID != nil {
		if cache, ok := s.UserCache.Load(*find.ID); ok {
			return cache.(*model.User), nil
		}
	}

	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.UserCache.Store(user.ID, user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *model.FindUser) ([]*model.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = ?"), append(args, v.String())
	}
	if v := find.Username; v != nil {
		where, args = append(where, "username = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = ?"), append(args, v.String())
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}

	// password_hash is returned here, strip it before answering a client.
	query := `
		SELECT
			id,
			username,
			role,
			email,
			nickname,
			password_hash,
			created_ts,
			updated_ts,
			last_login_ts,
			row_status
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Debug("Error querying users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Role,
			&user.Email,
			&user.Nickname,
			&user.PasswordHash,
			&user.CreatedTs,
			&user.UpdatedTs,
			&user.LastLoginTs,
			&user.RowStatus,
		); err != nil {
			return nil, err
		}
		list = append(list, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user`).Scan(&count)
	return count, errors.Wrap(err, "failed to count users")
}

func (s *Store) CreateUser(ctx context.Context, create *model.User) (*model.User, error) {
	fields := []string{"`username`", "`role`", "`email`", "`nickname`", "`password_hash`"}
	placeholder := []string{"?", "?", "?", "?", "?"}
	args := []any{create.Username, create.Role.String(), create.Email, create.Nickname, create.PasswordHash}
	stmt := "INSERT INTO user (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholder, ", ") +
		") RETURNING id, row_status, created_ts, updated_ts, last_login_ts, username, role, email, nickname"
	logQuery(stmt, args)

	var user model.User
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID,
		&user.RowStatus,
		&user.CreatedTs,
		&user.UpdatedTs,
		&user.LastLoginTs,
		&user.Username,
		&user.Role,
		&user.Email,
		&user.Nickname,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return &user, nil
}

func (s *Store) SetLastLogin(ctx context.Context, userID int32) error {
	_, err := s.db.ExecContext(ctx, `UPDATE user SET last_login_ts = strftime('%s', 'now') WHERE id = ?`, userID)
	s.UserCache.Delete(userID)
	return errors.Wrap(err, "unable to update last login date")
}

func (s *Store) UpdateUserRole(ctx context.Context, userID int32, role model.Role) (*model.User, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE user SET role = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`, role.String(), userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update role of user %d", userID)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, errors.Wrapf(ErrNotFound, "user %d", userID)
	}
	s.UserCache.Delete(userID)
	return s.GetUser(ctx, &model.FindUser{ID: &userID})
}
