package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

func getUserSettingCacheKey(userID int32, key string) string {
	return fmt.Sprintf("%d-%s", userID, key)
}

func (s *Store) UpsertUserSetting(ctx context.Context, userSetting *model.UserSetting) (*model.UserSetting, error) {
	stmt := `
		INSERT INTO user_setting (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE
		SET value = EXCLUDED.value`
	args := []any{userSetting.UserID, userSetting.Key.String(), userSetting.Value}
	logQuery(stmt, args)

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to upsert user setting")
	}
	s.UserSettingCache.Store(getUserSettingCacheKey(userSetting.UserID, userSetting.Key.String()), userSetting)
	return userSetting, nil
}

func (s *Store) GetUserSetting(ctx context.Context, find *model.FindUserSetting) (*model.UserSetting, error) {
	if find.UserID != nil {
		if cache, ok := s.UserSettingCache.Load(getUserSettingCacheKey(*find.UserID, find.Key.String())); ok {
			return cache.(*model.UserSetting), nil
		}
	}

	list, err := s.ListUserSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if len(list) > 1 {
		return nil, errors.Errorf("expected 1 user setting, but got %d", len(list))
	}
	return list[0], nil
}

func (s *Store) ListUserSettings(ctx context.Context, find *model.FindUserSetting) ([]*model.UserSetting, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Key; v != model.UserSettingKeyUnspecified {
		where, args = append(where, "key = ?"), append(args, v.String())
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}

	query := `SELECT user_id, key, value FROM user_setting WHERE ` + strings.Join(where, " AND ")
	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.UserSetting, 0)
	for rows.Next() {
		userSetting := &model.UserSetting{}
		var key string
		if err := rows.Scan(&userSetting.UserID, &key, &userSetting.Value); err != nil {
			return nil, err
		}
		userSetting.Key = model.UserSettingKeyValue[key]
		list = append(list, userSetting)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, userSetting := range list {
		s.UserSettingCache.Store(getUserSettingCacheKey(userSetting.UserID, userSetting.Key.String()), userSetting)
	}
	return list, nil
}

// GetUserAccessTokens returns the access tokens of the user.
func (s *Store) GetUserAccessTokens(ctx context.Context, userID int32) ([]*model.AccessToken, error) {
	userSetting, err := s.GetUserSetting(ctx, &model.FindUserSetting{
		UserID: &userID,
		Key:    model.UserSettingKeyAccessTokens,
	})
	if err != nil {
		return nil, err
	}
	if userSetting == nil {
		return []*model.AccessToken{}, nil
	}
	tokens := userSetting.GetAccessTokens()
	if tokens == nil {
		return []*model.AccessToken{}, nil
	}
	return tokens.AccessTokens, nil
}

// ValidateAccessToken reports whether token is still registered for the user.
// Tokens removed at sign out stop working even before they expire.
func (s *Store) ValidateAccessToken(ctx context.Context, userID int32, token string) (bool, error) {
	tokens, err := s.GetUserAccessTokens(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(tokens, func(t *model.AccessToken) bool {
		return t.AccessToken == token
	}), nil
}

func (s *Store) UpsertAccessToken(ctx context.Context, userID int32, token *model.AccessToken) error {
	tokens, err := s.GetUserAccessTokens(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "unable to update access token")
	}
	return s.saveAccessTokens(ctx, userID, append(tokens, token))
}

func (s *Store) RemoveAccessToken(ctx context.Context, userID int32, token string) error {
	tokens, err := s.GetUserAccessTokens(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "unable to remove access token")
	}
	tokens = slices.DeleteFunc(slices.Clone(tokens), func(t *model.AccessToken) bool {
		return t.AccessToken == token
	})
	return s.saveAccessTokens(ctx, userID, tokens)
}

func (s *Store) saveAccessTokens(ctx context.Context, userID int32, tokens []*model.AccessToken) error {
	setting := &model.AccessTokensUserSetting{AccessTokens: tokens}
	if _, err := s.UpsertUserSetting(ctx, &model.UserSetting{
		UserID: userID,
		Key:    model.UserSettingKeyAccessTokens,
		Value:  setting.String(),
	}); err != nil {
		return errors.Wrap(err, "unable to save access tokens")
	}
	return nil
}
