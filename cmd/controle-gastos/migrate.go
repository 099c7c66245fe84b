package main

import (
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/backend"
	"github.com/FriggD/controle-gastos-residenciais/internal/cli"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply pending schema migrations to the configured SQL backend
(DATA_BACKEND=sqlite or mysql). The server also migrates on start.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "Show the applied schema version without migrating")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg)

	var (
		dialect storage.Dialect
		dsn     string
	)
	switch backend.BackendType(cfg.DataBackend) {
	case backend.SQLiteBackend:
		dialect, dsn = storage.DialectSQLite, cfg.SQLiteDBPath
	case backend.MySQLBackend:
		dialect, dsn = storage.DialectMySQL, cfg.MySQLDSN
	default:
		logger.Info("Memory backend has no schema, nothing to migrate")
		return nil
	}

	if !status {
		logger.Info("Running database migrations", "dialect", string(dialect))
		if err := storage.RunMigrations(dialect, dsn); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	version, dirty, err := storage.MigrationVersion(dialect, dsn)
	if err != nil {
		return err
	}
	cmd.Printf("schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
