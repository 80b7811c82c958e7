package main

import (
	"fmt"

	"github.com/spf13/cobra"

	v2server "github.com/dropDatabas3/authkit/internal/http/v2/server"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/store"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes del store configurado",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			ctx := cmd.Context()

			conn, err := v2server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := store.Migrate(ctx, conn); err != nil {
				return fmt.Errorf("migrate %s: %w", conn.Name(), err)
			}
			logger.L().Info("migrations applied", logger.String("driver", conn.Name()))
			return nil
		},
	}
}
