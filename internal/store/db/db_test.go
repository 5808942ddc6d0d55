package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/version"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(filepath.Join(t.TempDir(), "e-library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestMigrateNewDatabase(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	require.NoError(t, d.Migrate(ctx))

	for _, table := range []string{"user", "book", "book_copy", "review", "notification", "system_setting"} {
		exists, err := d.CheckTableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s", table)
	}

	list, err := d.FindMigrationHistoryList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, version.GetSchemaVersion(version.GetCurrentVersion()), list[0].Version)

	// Running again is a no-op.
	require.NoError(t, d.Migrate(ctx))
	list, err = d.FindMigrationHistoryList(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMigrateFromOlderVersion(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	require.NoError(t, d.Migrate(ctx))

	// Roll the database back to a 0.1 layout.
	_, err := d.ExecContext(ctx, "DROP TABLE notification; DELETE FROM migration_history; INSERT INTO migration_history (version) VALUES ('0.1.0')")
	require.NoError(t, err)

	require.NoError(t, d.Migrate(ctx))

	exists, err := d.CheckTableExists(ctx, "notification")
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := d.FindMigrationHistoryList(ctx)
	require.NoError(t, err)
	versions := []string{}
	for _, h := range list {
		versions = append(versions, h.Version)
	}
	assert.Contains(t, versions, "0.2.0")
}

func TestCopyInvariantIsEnforcedBySchema(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	require.NoError(t, d.Migrate(ctx))

	_, err := d.ExecContext(ctx, "INSERT INTO book (title) VALUES ('Dune')")
	require.NoError(t, err)

	// on_loan without borrower or due date
	_, err = d.ExecContext(ctx, "INSERT INTO book_copy (id, book_id, imprint, status) VALUES ('c1', 1, 'Ace 1965', 'on_loan')")
	assert.Error(t, err)

	_, err = d.ExecContext(ctx, "INSERT INTO book_copy (id, book_id, imprint) VALUES ('c2', 1, 'Ace 1965')")
	require.NoError(t, err)
	var status string
	require.NoError(t, d.QueryRowContext(ctx, "SELECT status FROM book_copy WHERE id = 'c2'").Scan(&status))
	assert.Equal(t, "maintenance", status)
}

func TestGetMinorVersionList(t *testing.T) {
	assert.Equal(t, []string{"0.2"}, getMinorVersionList())
}
