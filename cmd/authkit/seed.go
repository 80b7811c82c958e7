package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authkit/internal/bootstrap"
	v2server "github.com/dropDatabas3/authkit/internal/http/v2/server"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		interactive bool
		migrate     bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el primer superusuario (FIRST_SUPERUSER / FIRST_SUPERUSER_PASSWORD)",
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

			if migrate {
				if err := store.Migrate(ctx, conn); err != nil {
					return fmt.Errorf("migrate %s: %w", conn.Name(), err)
				}
			}

			policy, err := v2server.BuildPolicy(cfg.Auth)
			if err != nil {
				return err
			}
			u, created, err := bootstrap.EnsureFirstSuperuser(ctx, bootstrap.AdminBootstrapConfig{
				Users:         conn.Users(),
				Hasher:        password.NewHasher(password.DefaultParams),
				Policy:        policy,
				AdminEmail:    cfg.Auth.FirstSuperuser,
				AdminPassword: cfg.Auth.FirstSuperuserPassword,
				Prompt:        interactive,
				In:            cmd.InOrStdin(),
				Out:           cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "superuser created: %s (%s)\n", u.Email, u.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "superuser already exists: %s\n", u.Email)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pedir email y password por terminal si faltan")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Aplicar migraciones antes del seed")
	return cmd
}
