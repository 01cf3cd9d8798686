package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigrationFile describes a created up/down migration pair.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration creates a timestamped up/down SQL file pair in
// migrationsDir. The version uses YYYYMMDDHHMMSS so files sort in creation
// order, which is what golang-migrate expects.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	mf := &MigrationFile{
		Version:     now.Format("20060102150405"),
		Name:        name,
		Description: description,
	}
	base := mf.Version + "_" + sanitizeName(name)
	mf.UpPath = filepath.Join(migrationsDir, base+".up.sql")
	mf.DownPath = filepath.Join(migrationsDir, base+".down.sql")

	created := now.Format(time.RFC3339)
	up := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n-- Description: %s\n\n-- Write your UP migration SQL here\n\n",
		name, created, description)
	down := fmt.Sprintf("-- Migration: %s (Rollback)\n-- Created: %s\n-- Description: Rollback for %s\n\n-- Write your DOWN migration SQL here\n\n",
		name, created, description)

	if err := os.WriteFile(mf.UpPath, []byte(up), 0644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(down), 0644); err != nil {
		// Keep the pair atomic: an orphaned up file would block the tool.
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return mf, nil
}

// sanitizeName lowercases the name and collapses everything that is not a
// letter or digit into single underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			s := b.String()
			if len(s) > 0 && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of all migration pairs in a
// directory. A missing directory yields an empty list, not an error.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".up.sql")
		if !seen[base] {
			seen[base] = true
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
