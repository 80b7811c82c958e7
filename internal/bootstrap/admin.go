// Package bootstrap crea el primer superusuario configurado.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/validation"
)

// AdminBootstrapConfig holds configuration for admin bootstrap
type AdminBootstrapConfig struct {
	Users  repository.UserRepository
	Hasher *password.Hasher
	Policy password.Policy

	AdminEmail    string
	AdminPassword string

	// Prompt pide email y password por terminal si faltan.
	Prompt bool
	In     io.Reader // default os.Stdin
	Out    io.Writer // default os.Stdout
}

var ErrMissingCredentials = errors.New("bootstrap: first superuser email and password are required")

// readPassword lee sin eco. Variable para tests.
var readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }

// EnsureFirstSuperuser crea el admin si ningún usuario (activo o archivado)
// tiene ese email. created=false si ya existía.
func EnsureFirstSuperuser(ctx context.Context, cfg AdminBootstrapConfig) (u *repository.User, created bool, err error) {
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Op("EnsureFirstSuperuser"))
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	if (cfg.AdminEmail == "" || cfg.AdminPassword == "") && cfg.Prompt {
		cfg.AdminEmail, cfg.AdminPassword, err = promptAdminCredentials(cfg)
		if err != nil {
			return nil, false, fmt.Errorf("prompt admin credentials: %w", err)
		}
	}
	addr := repository.NormalizeEmail(cfg.AdminEmail)
	if addr == "" || cfg.AdminPassword == "" {
		return nil, false, ErrMissingCredentials
	}
	if !validation.ValidEmail(addr) {
		return nil, false, fmt.Errorf("bootstrap: invalid email %q", addr)
	}

	existing, err := cfg.Users.GetByEmail(ctx, addr, repository.ReadOptions{WithArchived: true})
	switch {
	case err == nil:
		log.Info("first superuser already present", logger.UserID(existing.ID))
		return existing, false, nil
	case !repository.IsNotFound(err):
		return nil, false, fmt.Errorf("lookup first superuser: %w", err)
	}

	if ok, reasons := cfg.Policy.Validate(cfg.AdminPassword); !ok {
		return nil, false, fmt.Errorf("bootstrap: password rejected: %s", strings.Join(reasons, ", "))
	}
	hash, err := cfg.Hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	u = &repository.User{
		Email:        addr,
		PasswordHash: hash,
		Role:         repository.RoleAdmin,
		Language:     repository.LanguageEN,
		Confirmed:    true,
		Provider:     repository.ProviderEmail,
	}
	if err := cfg.Users.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("create first superuser: %w", err)
	}
	log.Info("first superuser created", logger.UserID(u.ID), logger.Email(addr))
	return u, true, nil
}

// promptAdminCredentials pide los datos faltantes; el password sin eco y con confirmación.
func promptAdminCredentials(cfg AdminBootstrapConfig) (email, pw string, err error) {
	email = cfg.AdminEmail
	if email == "" {
		fmt.Fprint(cfg.Out, "Admin Email: ")
		line, err := bufio.NewReader(cfg.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}

	pw = cfg.AdminPassword
	if pw == "" {
		fmt.Fprint(cfg.Out, "Admin Password: ")
		b, err := readPassword()
		fmt.Fprintln(cfg.Out)
		if err != nil {
			return "", "", err
		}
		fmt.Fprint(cfg.Out, "Confirm Password: ")
		confirm, err := readPassword()
		fmt.Fprintln(cfg.Out)
		if err != nil {
			return "", "", err
		}
		if string(b) != string(confirm) {
			return "", "", errors.New("passwords do not match")
		}
		pw = string(b)
	}
	return email, pw, nil
}
