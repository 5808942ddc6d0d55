package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/util"
	"github.com/Xunop/e-library/internal/version"
)

// Every connection enforces foreign keys, waits on a locked database instead
// of failing at once, and starts transactions with BEGIN IMMEDIATE so that a
// read-decide-write transaction holds the write lock from its first read.
const connectionParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

type DB struct {
	*sql.DB
	path string
}

func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	util.RegisterSQLiteFunctions()

	d, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	// A single connection serializes writers inside the process.
	d.SetMaxOpenConns(1)

	return &DB{DB: d, path: path}, nil
}

func dataSourceName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + connectionParams
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SYSTEM_SCHEMA.sql"

// Migrate brings the schema to the current version. A new database gets the
// latest schema; an older one gets every minor version migration newer than
// its recorded history, after a file backup.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	schemaVersion := version.GetSchemaVersion(currentVersion)

	exists, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil {
		return errors.Wrap(err, "failed to check migration_history table")
	}
	if !exists {
		log.Info("Applying latest schema", zap.String("version", schemaVersion))
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if _, err := d.UpsertMigrationHistory(ctx, schemaVersion); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryList, err := d.FindMigrationHistoryList(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}
	if len(migrationHistoryList) == 0 {
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		_, err := d.UpsertMigrationHistory(ctx, schemaVersion)
		return errors.Wrap(err, "failed to upsert migration history")
	}

	versions := make([]string, 0, len(migrationHistoryList))
	for _, migrationHistory := range migrationHistoryList {
		versions = append(versions, migrationHistory.Version)
	}
	version.SortVersion(versions)
	latestVersion := versions[len(versions)-1]

	if !version.IsVersionGreaterThan(schemaVersion, latestVersion) {
		return nil
	}

	backupPath, err := d.backup()
	if err != nil {
		return errors.Wrap(err, "failed to back up database before migration")
	}
	log.Info("Start migration",
		zap.String("from", latestVersion),
		zap.String("to", schemaVersion),
		zap.String("backup", backupPath))

	for _, minorVersion := range getMinorVersionList() {
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestVersion) && version.IsVersionGreaterOrEqualThan(schemaVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrapf(err, "failed to apply version %s migration", normalizedVersion)
			}
		}
	}
	if _, err := d.UpsertMigrationHistory(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to upsert migration history")
	}

	if backupPath != "" {
		if err := os.Remove(backupPath); err != nil {
			log.Warn("Failed to remove database backup", zap.String("path", backupPath), zap.Error(err))
		}
	}
	return nil
}

// backup copies the database file next to itself. In-memory databases are skipped.
func (d *DB) backup() (string, error) {
	if d.path == "" || strings.HasPrefix(d.path, ":memory:") || strings.HasPrefix(d.path, "file:") {
		return "", nil
	}
	rawBytes, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	backupPath := filepath.Join(filepath.Dir(d.path),
		fmt.Sprintf("e-library_%s_%d_backup.db", version.GetCurrentVersion(), time.Now().Unix()))
	if err := os.WriteFile(backupPath, rawBytes, 0644); err != nil {
		return "", err
	}
	return backupPath, nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	if err := d.execute(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "failed to find migration files for version %s", minorVersion)
	}

	// 10001__example.sql, 10002__example.sql, ... are applied in name order.
	slices.Sort(filenames)
	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %q", filename)
		}
		if err := d.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", filename)
		}
	}

	if _, err := d.UpsertMigrationHistory(ctx, minorVersion+".0"); err != nil {
		return errors.Wrapf(err, "failed to upsert migration history for version %s", minorVersion)
	}
	return nil
}

// execute runs a statement within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp matches a minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}
		return nil
	}); err != nil {
		panic(err)
	}

	// Sort as x.y.0 so that 0.10 comes after 0.9.
	normalized := make([]string, 0, len(minorVersionList))
	for _, v := range minorVersionList {
		normalized = append(normalized, v+".0")
	}
	version.SortVersion(normalized)
	for i, v := range normalized {
		minorVersionList[i] = version.GetMinorVersion(v)
	}
	return minorVersionList
}

// LatestSchema returns the embedded latest schema, used by tests of other packages.
func LatestSchema() (string, error) {
	buf, err := migrationFS.ReadFile("migration/" + latestSchemaFileName)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

