package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/authkit/internal/bootstrap"
	"github.com/dropDatabas3/authkit/internal/config"
	v2server "github.com/dropDatabas3/authkit/internal/http/v2/server"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.L().With(logger.Component("serve"))

	built, err := v2server.BuildV2Handler(ctx, cfg)
	if err != nil {
		return fmt.Errorf("v2 wiring failed: %w", err)
	}
	defer func() {
		if err := built.Close(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	if cfg.Auth.FirstSuperuser != "" {
		if _, _, err := bootstrap.EnsureFirstSuperuser(ctx, bootstrap.AdminBootstrapConfig{
			Users:         built.Store.Users(),
			Hasher:        built.Hasher,
			Policy:        built.Policy,
			AdminEmail:    cfg.Auth.FirstSuperuser,
			AdminPassword: cfg.Auth.FirstSuperuserPassword,
		}); err != nil {
			log.Warn("first superuser bootstrap failed", logger.Err(err))
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      built.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", srv.Addr), logger.String("tag", cfg.App.Tag))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
