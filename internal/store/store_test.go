package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "e-library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return NewStore(d.DB)
}

func createTestUser(t *testing.T, s *Store, username string, role model.Role) *model.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), &model.User{
		Username:     username,
		Role:         role,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func createTestBook(t *testing.T, s *Store, title string) *model.Book {
	t.Helper()
	book, err := s.CreateBook(context.Background(), &model.Book{Title: title}, nil)
	require.NoError(t, err)
	return book
}
