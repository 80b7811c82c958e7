package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authkit/internal/email"
	v2server "github.com/dropDatabas3/authkit/internal/http/v2/server"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

func newSMTPDiagCmd(opts *rootOptions) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "smtp-diag",
		Short: "Verifica la conexión SMTP y opcionalmente envía un email de prueba",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			out := cmd.OutOrStdout()

			if !cfg.SMTP.Enabled() {
				return errors.New("smtp not configured (SMTP_HOST / EMAILS_FROM_EMAIL)")
			}
			sender := v2server.NewSMTPSender(cfg)

			if err := sender.Check(); err != nil {
				d := email.DiagnoseSMTP(err)
				fmt.Fprintf(out, "smtp check failed: code=%s temporary=%t\n", d.Code, d.Temporary)
				return err
			}
			fmt.Fprintf(out, "smtp ok: %s:%d\n", cfg.SMTP.Host, cfg.SMTP.Port)

			if to == "" {
				return nil
			}
			renderer, err := email.NewRenderer()
			if err != nil {
				return err
			}
			subject, html, text, err := renderer.Render(email.TemplateTestEmail, map[string]any{
				"project_name": cfg.App.Name,
				"email":        to,
			})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := sender.Send(ctx, to, subject, html, text); err != nil {
				d := email.DiagnoseSMTP(err)
				fmt.Fprintf(out, "send failed: code=%s temporary=%t\n", d.Code, d.Temporary)
				return err
			}
			fmt.Fprintf(out, "test email sent to %s\n", to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destinatario del email de prueba")
	return cmd
}
