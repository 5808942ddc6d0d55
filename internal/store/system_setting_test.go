package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

func TestSecuritySettingIsGeneratedOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.GetOrUpsertSystemSecuritySetting(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.JWTSecret)

	second, err := s.GetOrUpsertSystemSecuritySetting(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.JWTSecret, second.JWTSecret)
}

func TestGeneralSetting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	general, err := s.GetSystemGeneralSetting(ctx)
	require.NoError(t, err)
	assert.False(t, general.DisableSignup)

	_, err = s.UpsertGeneralSetting(ctx, &model.SystemSettingGeneral{DisableSignup: true})
	require.NoError(t, err)
	general, err = s.GetSystemGeneralSetting(ctx)
	require.NoError(t, err)
	assert.True(t, general.DisableSignup)

	_, err = s.UpsertSystemSetting(ctx, &model.SystemSetting{Name: "SETTINGS_UNKNOWN", Value: "{}"})
	assert.Error(t, err)
}

func TestAccessTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createTestUser(t, s, "alice", model.RoleUser)

	require.NoError(t, s.UpsertAccessToken(ctx, user.ID, &model.AccessToken{AccessToken: "t1", Description: "signin"}))
	require.NoError(t, s.UpsertAccessToken(ctx, user.ID, &model.AccessToken{AccessToken: "t2"}))

	ok, err := s.ValidateAccessToken(ctx, user.ID, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveAccessToken(ctx, user.ID, "t1"))
	ok, err = s.ValidateAccessToken(ctx, user.ID, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.ValidateAccessToken(ctx, user.ID, "t2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRoleAndNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createTestUser(t, s, "alice", model.RoleUser)
	assert.Equal(t, model.RoleUser, user.Role)

	updated, err := s.UpdateUserRole(ctx, user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, updated.Role.IsSuperuser())

	n, err := s.CreateNotification(ctx, &model.Notification{UserID: user.ID, CopyID: "c1", Message: "overdue"})
	require.NoError(t, err)
	assert.False(t, n.Read)

	copyID := "c1"
	exists, err := s.HasNotification(ctx, &model.FindNotification{UserID: &user.ID, CopyID: &copyID})
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.MarkNotificationRead(ctx, user.ID, n.ID))
	unread := false
	list, err := s.ListNotifications(ctx, &model.FindNotification{UserID: &user.ID, Read: &unread})
	require.NoError(t, err)
	assert.Empty(t, list)

	other := createTestUser(t, s, "bob", model.RoleUser)
	assert.ErrorIs(t, s.MarkNotificationRead(ctx, other.ID, n.ID), ErrNotFound)
}
