package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/fetalrisk/internal/cli"
	"github.com/terraincognita07/fetalrisk/internal/config"
	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/services"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "fetalrisk",
		Short:         "Maternal and fetal risk monitoring API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (env vars take precedence)")

	root.AddCommand(
		serveCommand(&configFile),
		migrateCommand(&configFile),
		resetPasswordCommand(&configFile),
	)
	return root
}

func serveCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func migrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and print their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			database, err := db.OpenSQLite(cfg.DBPath, nil)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database)

			states, err := db.MigrationStatus(database)
			if err != nil {
				return err
			}
			return printMigrationStatus(cmd.OutOrStdout(), states)
		},
	}
}

func printMigrationStatus(out io.Writer, states []db.MigrationState) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "VERSION\tNAME\tSTATUS")
	for _, state := range states {
		status := "pending"
		if state.Applied {
			status = "applied"
			if state.AppliedAt != nil {
				status = "applied " + state.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", state.Version, state.Name, status)
	}
	return writer.Flush()
}

func resetPasswordCommand(configFile *string) *cobra.Command {
	var (
		email  string
		prompt bool
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset the password of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			database, err := db.OpenSQLite(cfg.DBPath, nil)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database)

			repositories := db.NewRepositories(database)
			authService := services.NewAuthService(repositories.Users, repositories.Patients)

			var reader cli.PasswordReader
			if prompt {
				reader = cli.TerminalPasswordReader(os.Stdin, cmd.OutOrStdout())
			}
			return cli.RunResetPassword(authService, email, reader, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&prompt, "prompt", false, "ask for the new password instead of generating one")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
