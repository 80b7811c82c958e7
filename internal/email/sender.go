package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// Sender entrega un mensaje ya renderizado.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPConfig configuración del servidor SMTP.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	TLSMode   string // "auto" | "starttls" | "ssl" | "none"
}

// Enabled: hay host y remitente.
func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.FromEmail != "" }

// SMTPSender implementa Sender con go-mail.
type SMTPSender struct {
	cfg SMTPConfig
	// InsecureSkipVerify sólo para desarrollo.
	InsecureSkipVerify bool
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host, InsecureSkipVerify: s.InsecureSkipVerify}
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

func (s *SMTPSender) message(to, subject, htmlBody, textBody string) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	// multipart/alternative: texto primero, html como alternativa
	switch {
	case textBody != "" && htmlBody != "":
		m.SetBody("text/plain", textBody)
		m.AddAlternative("text/html", htmlBody)
	case htmlBody != "":
		m.SetBody("text/html", htmlBody)
	default:
		m.SetBody("text/plain", textBody)
	}
	return m
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log := logger.From(ctx).With(
		logger.Component("smtp_sender"),
		logger.String("host", s.cfg.Host),
		logger.Int("port", s.cfg.Port),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer().DialAndSend(s.message(to, subject, htmlBody, textBody)); err != nil {
		diag := DiagnoseSMTP(err)
		log.Error("smtp send failed", logger.Err(err),
			logger.String("diag", diag.Code), logger.Bool("temporary", diag.Temporary))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Debug("email sent", logger.Email(to))
	return nil
}

// Check abre y cierra una conexión autenticada (comando smtp-diag).
func (s *SMTPSender) Check() error {
	c, err := s.dialer().Dial()
	if err != nil {
		return err
	}
	return c.Close()
}
