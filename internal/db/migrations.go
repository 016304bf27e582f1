package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/fetalrisk/migrations"
	"gorm.io/gorm"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)

type migrationFile struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// MigrationState reports one embedded migration and whether it has been applied.
type MigrationState struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

type schemaMigrationRow struct {
	Version   string    `gorm:"column:version"`
	Name      string    `gorm:"column:name"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func applyEmbeddedMigrations(database *gorm.DB) ([]string, error) {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return nil, err
	}

	files, err := loadMigrationFiles(embeddedmigrations.Files)
	if err != nil {
		return nil, err
	}
	applied, err := loadAppliedMigrations(database)
	if err != nil {
		return nil, err
	}

	newlyApplied := make([]string, 0)
	for _, file := range files {
		if _, done := applied[file.Version]; done {
			continue
		}
		if err := applyMigration(database, file); err != nil {
			return newlyApplied, err
		}
		newlyApplied = append(newlyApplied, file.Name)
	}
	return newlyApplied, nil
}

// MigrationStatus lists every embedded migration in order with its applied state.
func MigrationStatus(database *gorm.DB) ([]MigrationState, error) {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return nil, err
	}
	files, err := loadMigrationFiles(embeddedmigrations.Files)
	if err != nil {
		return nil, err
	}
	applied, err := loadAppliedMigrations(database)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(files))
	for _, file := range files {
		state := MigrationState{Version: file.Version, Name: file.Name}
		if row, ok := applied[file.Version]; ok {
			appliedAt := row.AppliedAt
			state.Applied = true
			state.AppliedAt = &appliedAt
		}
		states = append(states, state)
	}
	return states, nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func loadMigrationFiles(source fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		matches := migrationFilePattern.FindStringSubmatch(name)
		if len(matches) != 2 {
			continue
		}

		version := matches[1]
		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		if existing, duplicate := seen[version]; duplicate {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, existing, name)
		}
		seen[version] = name

		raw, err := fs.ReadFile(source, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		files = append(files, migrationFile{Version: version, Order: order, Name: name, SQL: string(raw)})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Order == files[j].Order {
			return files[i].Name < files[j].Name
		}
		return files[i].Order < files[j].Order
	})
	return files, nil
}

func loadAppliedMigrations(database *gorm.DB) (map[string]schemaMigrationRow, error) {
	rows := make([]schemaMigrationRow, 0)
	if err := database.Raw(`SELECT version, name, applied_at FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	applied := make(map[string]schemaMigrationRow, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

func applyMigration(database *gorm.DB, file migrationFile) error {
	statements := splitSQLStatements(file.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", file.Name, errors.New("no SQL statements"))
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", file.Name, statement, err)
			}
		}
		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			file.Version,
			file.Name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", file.Name, err)
		}
		return nil
	})
}

func splitSQLStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
