package main

import (
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the postgres cart storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage.Driver != config.StoragePostgres {
			return errors.New("migrate requires storage.driver postgres")
		}
		if err := migrations.Up(cfg.Storage.PostgresDSN, logger); err != nil {
			return fmt.Errorf("migrations.Up: %w", err)
		}
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default config to the --config path",
	// Skips config loading, the file may not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}
