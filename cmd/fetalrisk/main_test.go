package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "migrate", "reset-password"} {
		command, _, err := root.Find([]string{name})
		if err != nil || command.Name() != name {
			t.Fatalf("expected subcommand %q, got %v (err %v)", name, command, err)
		}
	}
}

func TestMigrateCommandPrintsAppliedMigrations(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "migrate.db"))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate returned error: %v", err)
	}

	output := out.String()
	if !strings.HasPrefix(output, "VERSION") {
		t.Fatalf("expected header row, got %q", output)
	}
	if !strings.Contains(output, "applied") || strings.Contains(output, "pending") {
		t.Fatalf("expected every migration applied, got %q", output)
	}
}

func TestResetPasswordCommandIssuesTemporaryPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reset.db")
	t.Setenv("DB_PATH", dbPath)

	database, err := db.OpenSQLite(dbPath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repositories := db.NewRepositories(database)
	authService := services.NewAuthService(repositories.Users, repositories.Patients)
	if _, _, err := authService.Register(services.RegistrationInput{
		Name:                 "Asha",
		Email:                "asha@example.com",
		Password:             "sunrise2026",
		PasswordConfirmation: "sunrise2026",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	closeDatabase(database)

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"reset-password", "--email", "asha@example.com"})
	if err := root.Execute(); err != nil {
		t.Fatalf("reset-password returned error: %v", err)
	}

	const marker = "Temporary password: "
	index := strings.Index(out.String(), marker)
	if index < 0 {
		t.Fatalf("expected temporary password in output, got %q", out.String())
	}
	temporary := strings.TrimSpace(out.String()[index+len(marker):])

	database, err = db.OpenSQLite(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer closeDatabase(database)
	repositories = db.NewRepositories(database)
	authService = services.NewAuthService(repositories.Users, repositories.Patients)
	if _, err := authService.Authenticate("asha@example.com", temporary); err != nil {
		t.Fatalf("expected login with temporary password, got %v", err)
	}
}

func TestResetPasswordCommandRequiresEmailFlag(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"reset-password"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error without --email")
	}
}
