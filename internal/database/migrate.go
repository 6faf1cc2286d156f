package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	dbmigrations "career-compass/database"
	"career-compass/internal/config"
	"career-compass/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MigrateUp applies every pending migration for the configured driver.
func MigrateUp(ctx context.Context, db *sqlx.DB, driver string) error {
	switch driver {
	case config.DriverPostgres:
		m, err := newPostgresMigrate(db)
		if err != nil {
			return err
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply migrations: %w", err)
		}
		logger.Get().Info("Migrations completed successfully", zap.String("driver", driver))
		return nil
	case config.DriverOracle:
		return newOracleMigrator(db, dbmigrations.Migrations, dbmigrations.OracleMigrationsDir).Up(ctx)
	default:
		return fmt.Errorf("unsupported db driver %q", driver)
	}
}

// MigrateDown rolls back the last steps migrations.
func MigrateDown(ctx context.Context, db *sqlx.DB, driver string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	switch driver {
	case config.DriverPostgres:
		m, err := newPostgresMigrate(db)
		if err != nil {
			return err
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not roll back migrations: %w", err)
		}
		return nil
	case config.DriverOracle:
		return newOracleMigrator(db, dbmigrations.Migrations, dbmigrations.OracleMigrationsDir).Down(ctx, steps)
	default:
		return fmt.Errorf("unsupported db driver %q", driver)
	}
}

func newPostgresMigrate(db *sqlx.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(dbmigrations.Migrations, dbmigrations.PostgresMigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("could not open migration source: %w", err)
	}
	drv, err := pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

// migrationFile is one NNNNNN_name.{up,down}.sql pair.
type migrationFile struct {
	Version  uint64
	Name     string
	UpPath   string
	DownPath string
}

func loadMigrations(fsys fs.FS, dir string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	byVersion := make(map[uint64]*migrationFile)
	for _, entry := range entries {
		name := entry.Name()
		var direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(name, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("malformed migration file name %s", name)
		}
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed migration version in %s: %w", name, err)
		}

		mf, exists := byVersion[version]
		if !exists {
			mf = &migrationFile{Version: version, Name: strings.TrimSuffix(strings.TrimSuffix(rest, ".up.sql"), ".down.sql")}
			byVersion[version] = mf
		}
		if direction == "up" {
			mf.UpPath = path.Join(dir, name)
		} else {
			mf.DownPath = path.Join(dir, name)
		}
	}

	files := make([]migrationFile, 0, len(byVersion))
	for _, mf := range byVersion {
		if mf.UpPath == "" {
			return nil, fmt.Errorf("migration %d has no up script", mf.Version)
		}
		files = append(files, *mf)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// SplitStatements breaks a script into statements on semicolons that end a
// line. Full-line "--" comments are dropped. Oracle rejects the trailing
// semicolon, so it is not kept.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteString(trimmed)
		current.WriteString("\n")
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

// oracleMigrator applies the Oracle scripts and tracks versions in
// schema_migrations. Oracle commits DDL implicitly, so each statement runs
// on its own.
type oracleMigrator struct {
	db   *sqlx.DB
	fsys fs.FS
	dir  string
	now  func() time.Time
}

func newOracleMigrator(db *sqlx.DB, fsys fs.FS, dir string) *oracleMigrator {
	return &oracleMigrator{db: db, fsys: fsys, dir: dir, now: time.Now}
}

func (m *oracleMigrator) ensureVersionTable(ctx context.Context) error {
	var count int
	if err := m.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`); err != nil {
		return fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`); err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (m *oracleMigrator) appliedVersions(ctx context.Context) (map[uint64]bool, error) {
	var versions []uint64
	if err := m.db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[uint64]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (m *oracleMigrator) exec(ctx context.Context, scriptPath string) error {
	content, err := fs.ReadFile(m.fsys, scriptPath)
	if err != nil {
		return fmt.Errorf("could not read migration file %s: %w", scriptPath, err)
	}
	for _, stmt := range SplitStatements(string(content)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", scriptPath, err)
		}
	}
	return nil
}

func (m *oracleMigrator) Up(ctx context.Context) error {
	files, err := loadMigrations(m.fsys, m.dir)
	if err != nil {
		return err
	}
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mf := range files {
		if applied[mf.Version] {
			continue
		}
		if err := m.exec(ctx, mf.UpPath); err != nil {
			return err
		}
		if _, err := m.db.ExecContext(ctx, m.db.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`), mf.Version, m.now().UTC()); err != nil {
			return fmt.Errorf("could not record migration %d: %w", mf.Version, err)
		}
		logger.Get().Info("Executed migration", zap.Uint64("version", mf.Version), zap.String("name", mf.Name))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("driver", config.DriverOracle))
	return nil
}

func (m *oracleMigrator) Down(ctx context.Context, steps int) error {
	files, err := loadMigrations(m.fsys, m.dir)
	if err != nil {
		return err
	}
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for i := len(files) - 1; i >= 0 && steps > 0; i-- {
		mf := files[i]
		if !applied[mf.Version] {
			continue
		}
		if mf.DownPath == "" {
			return fmt.Errorf("migration %d has no down script", mf.Version)
		}
		if err := m.exec(ctx, mf.DownPath); err != nil {
			return err
		}
		if _, err := m.db.ExecContext(ctx, m.db.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), mf.Version); err != nil {
			return fmt.Errorf("could not remove migration %d: %w", mf.Version, err)
		}
		logger.Get().Info("Rolled back migration", zap.Uint64("version", mf.Version), zap.String("name", mf.Name))
		steps--
	}
	return nil
}
