package postgres

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestMigratorDownRejectsNonPositiveSteps(t *testing.T) {
	m := NewMigrator("postgres://localhost/db", "migrations", zerolog.Nop())
	if err := m.Down(0); err == nil {
		t.Fatal("expected error for zero steps")
	}
}

func TestMigratorUpMissingSource(t *testing.T) {
	m := NewMigrator("postgres://localhost:1/db?sslmode=disable&connect_timeout=1", t.TempDir()+"/missing", zerolog.Nop())
	if err := m.Up(); err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
