package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/config"
	"github.com/mlindqvist/catcost/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Inspect or upgrade the database schema.

Other commands migrate automatically on startup; "migrate up" exists for
upgrading a database in place without running anything else.`,
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateStatusCmd())

	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			slog.Info("running migrations", "database", cfg.DatabasePath)
			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current and expected schema versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Database: %s\n", cfg.DatabasePath)
			fmt.Printf("Schema version: %d (expected %d)\n", version, storage.ExpectedSchemaVersion)
			if version < storage.ExpectedSchemaVersion {
				fmt.Println(cli.FormatWarning("Migrations pending. Run: catcost migrate up"))
			} else {
				fmt.Println(cli.FormatSuccess("Schema is up to date"))
			}
			return nil
		},
	}
}
