package store

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	"github.com/folio-reader/folio/internal/version"
)

// Migration files live under migration/{driver}/:
//   - LATEST.sql holds the full current schema and initializes fresh
//     databases in one shot.
//   - {minor-version}/NN__description.sql are incremental migrations applied
//     in version order, then file order, to existing databases.
//
// The applied schema version is tracked in system_setting.

//go:embed migration
var migrationFS embed.FS

const (
	migrateFileNameSplit     = "__"
	latestSchemaFileName     = "LATEST.sql"
	schemaVersionSettingName = "schema_version"
)

func (s *Store) migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database state")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if err := s.setSchemaVersion(ctx, version.Version); err != nil {
			return err
		}
		slog.Info("database initialized", "version", version.Version)
		return nil
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current != "" && semver.Compare("v"+current, "v"+version.Version) >= 0 {
		return nil
	}

	files, err := s.pendingMigrations(current)
	if err != nil {
		return err
	}
	for _, file := range files {
		buf, err := migrationFS.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", file)
		}
		if err := s.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
		slog.Info("applied migration", "file", path.Base(path.Dir(file))+"/"+path.Base(file))
	}
	return s.setSchemaVersion(ctx, version.Version)
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	buf, err := migrationFS.ReadFile(path.Join("migration", s.profile.Driver, latestSchemaFileName))
	if err != nil {
		return errors.Wrap(err, "failed to read latest schema")
	}
	return s.execute(ctx, string(buf))
}

// pendingMigrations returns incremental migration files newer than the
// current schema version, ordered by version then filename.
func (s *Store) pendingMigrations(current string) ([]string, error) {
	root := path.Join("migration", s.profile.Driver)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migration directory")
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v := "v" + entry.Name()
		if !semver.IsValid(v) {
			return nil, errors.Errorf("invalid migration directory name: %s", entry.Name())
		}
		if current == "" || semver.Compare(v, "v"+current) > 0 {
			versions = append(versions, entry.Name())
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare("v"+versions[i], "v"+versions[j]) < 0
	})

	var files []string
	for _, v := range versions {
		dir := path.Join(root, v)
		names, err := fs.ReadDir(migrationFS, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read migration directory %s", dir)
		}
		var batch []string
		for _, n := range names {
			if err := validateMigrationFileName(n.Name()); err != nil {
				return nil, err
			}
			batch = append(batch, path.Join(dir, n.Name()))
		}
		sort.Strings(batch)
		files = append(files, batch...)
	}
	return files, nil
}

func validateMigrationFileName(filename string) error {
	if !strings.Contains(filename, migrateFileNameSplit) {
		return errors.Errorf("invalid migration filename format (missing %s): %s", migrateFileNameSplit, filename)
	}
	if !strings.HasSuffix(filename, ".sql") {
		return errors.Errorf("migration file must be .sql: %s", filename)
	}
	return nil
}

// execute runs every statement in a migration file inside one transaction.
func (s *Store) execute(ctx context.Context, script string) error {
	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %q", stmt)
		}
	}
	return tx.Commit()
}

func (s *Store) schemaVersion(ctx context.Context) (string, error) {
	query := "SELECT value FROM system_setting WHERE name = ?"
	if s.profile.Driver == "postgres" {
		query = "SELECT value FROM system_setting WHERE name = $1"
	}
	var value string
	row := s.driver.GetDB().QueryRowContext(ctx, query, schemaVersionSettingName)
	if err := row.Scan(&value); err != nil {
		// An initialized database without a recorded version predates
		// version tracking; treat it as oldest.
		return "", nil
	}
	return value, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, v string) error {
	var stmt string
	if s.profile.Driver == "postgres" {
		stmt = "INSERT INTO system_setting (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	} else {
		stmt = "INSERT INTO system_setting (name, value) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, stmt, schemaVersionSettingName, v); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}
	return nil
}
