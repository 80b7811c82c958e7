package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/authkit/internal/audit"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/users"
	authsvc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/authz"
	"github.com/dropDatabas3/authkit/internal/validation"
)

// UserService define las operaciones sobre usuarios. actor es el usuario
// autenticado que ejecuta la operación.
type UserService interface {
	List(ctx context.Context, actor *repository.User, opts repository.ListOptions) ([]repository.User, error)
	Create(ctx context.Context, actor *repository.User, in dto.CreateRequest) (*repository.User, error)
	Get(ctx context.Context, actor *repository.User, id string) (*repository.User, error)
	Update(ctx context.Context, actor *repository.User, id string, in dto.UpdateRequest) (*repository.User, error)
	Archive(ctx context.Context, actor *repository.User, id string) error
	Unarchive(ctx context.Context, actor *repository.User, id string) error
	Delete(ctx context.Context, actor *repository.User, id string) error

	UpdateMe(ctx context.Context, actor *repository.User, in dto.UpdateMeRequest) (*repository.User, error)
	ArchiveMe(ctx context.Context, actor *repository.User) error

	// OpenRegister es el alta pública, sin actor.
	OpenRegister(ctx context.Context, in dto.OpenRegisterRequest) (*repository.User, error)
}

// Errores de users. Los de credenciales se comparten con auth.
var (
	ErrRegistrationClosed = errors.New("open registration is disabled")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrInvalidProfile     = errors.New("invalid profile field")
	ErrPasswordNotAllowed = authsvc.ErrPasswordNotAllowed
)

type userService struct {
	deps Deps
}

// NewUserService crea el service con Deps ya validadas por el wiring.
func NewUserService(d Deps) UserService {
	return &userService{deps: d}
}

func (s *userService) List(ctx context.Context, actor *repository.User, opts repository.ListOptions) ([]repository.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	list, err := s.deps.Users.List(ctx, opts.Normalize())
	if err != nil {
		logger.From(ctx).Error("failed to list users", logger.Layer("service"), logger.Op("users.List"), logger.Err(err))
		return nil, err
	}
	return list, nil
}

func (s *userService) Create(ctx context.Context, actor *repository.User, in dto.CreateRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("users"),
		logger.Op("Create"),
	)

	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	role := repository.RoleCustomer
	if r := strings.TrimSpace(in.Role); r != "" {
		role = repository.Role(strings.ToLower(r))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	u := &repository.User{Role: role, Confirmed: in.Confirmed, Language: repository.LanguageEN}
	if err := applyProfile(u, in.Profile); err != nil {
		return nil, err
	}
	if err := s.create(ctx, u, in.Email, in.Password); err != nil {
		return nil, err
	}

	s.deps.Notifier.Send(ctx, email.TemplateNewAccount, u.Email, map[string]any{
		"email": u.Email,
		"link":  s.deps.WebAppURL,
	})
	log.Info("user created", logger.UserID(u.ID), logger.Role(string(role)))
	return u, nil
}

func (s *userService) OpenRegister(ctx context.Context, in dto.OpenRegisterRequest) (*repository.User, error) {
	if !s.deps.OpenRegistration {
		return nil, ErrRegistrationClosed
	}
	u := &repository.User{
		Role:      repository.RoleCustomer,
		Language:  repository.LanguageEN,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.create(ctx, u, in.Email, in.Password); err != nil {
		return nil, err
	}
	logger.From(ctx).Info("user self-registered",
		logger.Layer("service"), logger.Op("users.OpenRegister"), logger.UserID(u.ID))
	return u, nil
}

// create completa email/password y persiste un usuario provider=email.
func (s *userService) create(ctx context.Context, u *repository.User, addr, pw string) error {
	addr = repository.NormalizeEmail(addr)
	if addr == "" || pw == "" {
		return authsvc.ErrMissingFields
	}
	if !validation.ValidEmail(addr) {
		return authsvc.ErrInvalidEmail
	}
	if err := s.checkPassword(pw); err != nil {
		return err
	}
	if err := s.ensureEmailFree(ctx, addr, ""); err != nil {
		return err
	}

	hash, err := s.deps.Hasher.Hash(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Email = addr
	u.PasswordHash = hash
	u.Provider = repository.ProviderEmail

	if err := s.deps.Users.Create(ctx, u); err != nil {
		if repository.IsConflict(err) {
			return authsvc.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *userService) Get(ctx context.Context, actor *repository.User, id string) (*repository.User, error) {
	if err := authz.CanReadUser(actor, id); err != nil {
		return nil, err
	}
	// Admin ve también archivados.
	return s.load(ctx, id, actor.IsAdmin())
}

func (s *userService) Update(ctx context.Context, actor *repository.User, id string, in dto.UpdateRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("users"),
		logger.Op("Update"),
		logger.UserID(id),
	)

	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if in.Role != nil {
		role := repository.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		// Un admin no puede quitarse el rol a sí mismo.
		if actor.ID == u.ID && role != repository.RoleAdmin {
			return nil, authz.ErrPermissionDenied
		}
		u.Role = role
	}
	if in.Confirmed != nil {
		u.Confirmed = *in.Confirmed
	}
	if err := s.applyCredentials(ctx, u, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := applyProfile(u, in.Profile); err != nil {
		return nil, err
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}

	log.Info("user updated")
	return u, nil
}

func (s *userService) UpdateMe(ctx context.Context, actor *repository.User, in dto.UpdateMeRequest) (*repository.User, error) {
	if actor == nil {
		return nil, authz.ErrPermissionDenied
	}
	u, err := s.load(ctx, actor.ID, false)
	if err != nil {
		return nil, err
	}
	if err := s.applyCredentials(ctx, u, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := applyProfile(u, in.Profile); err != nil {
		return nil, err
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	logger.From(ctx).Info("profile updated",
		logger.Layer("service"), logger.Op("users.UpdateMe"), logger.UserID(u.ID))
	return u, nil
}

func (s *userService) ArchiveMe(ctx context.Context, actor *repository.User) error {
	if actor == nil {
		return authz.ErrPermissionDenied
	}
	// Admins no se auto-archivan, igual que en CanManageUser.
	if actor.IsAdmin() {
		return authz.ErrPermissionDenied
	}
	return s.archive(ctx, actor.ID)
}

func (s *userService) Archive(ctx context.Context, actor *repository.User, id string) error {
	if err := authz.CanManageUser(actor, id); err != nil {
		return err
	}
	return s.archive(ctx, id)
}

func (s *userService) archive(ctx context.Context, id string) error {
	if err := s.deps.Users.Archive(ctx, id, time.Now()); err != nil {
		return mapNotFound(err)
	}
	logger.From(ctx).Info("user archived", logger.Layer("service"), logger.Op("users.Archive"), logger.UserID(id))
	audit.Log(ctx, audit.EventUserArchived, logger.UserID(id))
	return nil
}

func (s *userService) Unarchive(ctx context.Context, actor *repository.User, id string) error {
	if err := authz.CanManageUser(actor, id); err != nil {
		return err
	}
	if err := s.deps.Users.Unarchive(ctx, id); err != nil {
		// Otro usuario activo tomó el email mientras estaba archivado.
		if repository.IsConflict(err) {
			return authsvc.ErrDuplicateEmail
		}
		return mapNotFound(err)
	}
	logger.From(ctx).Info("user unarchived", logger.Layer("service"), logger.Op("users.Unarchive"), logger.UserID(id))
	audit.Log(ctx, audit.EventUserRestored, logger.UserID(id), logger.String("actor_id", actor.ID))
	return nil
}

func (s *userService) Delete(ctx context.Context, actor *repository.User, id string) error {
	if err := authz.CanManageUser(actor, id); err != nil {
		return err
	}
	if err := s.deps.Users.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	logger.From(ctx).Info("user deleted", logger.Layer("service"), logger.Op("users.Delete"), logger.UserID(id))
	audit.Log(ctx, audit.EventUserDeleted, logger.UserID(id), logger.String("actor_id", actor.ID))
	return nil
}

func (s *userService) load(ctx context.Context, id string, withArchived bool) (*repository.User, error) {
	u, err := s.deps.Users.GetByID(ctx, id, repository.ReadOptions{WithArchived: withArchived})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

func (s *userService) save(ctx context.Context, u *repository.User) error {
	if err := s.deps.Users.Update(ctx, u); err != nil {
		if repository.IsConflict(err) {
			return authsvc.ErrDuplicateEmail
		}
		return mapNotFound(err)
	}
	return nil
}

// applyCredentials cambia email y/o password. Las cuentas SSO no tienen password local.
func (s *userService) applyCredentials(ctx context.Context, u *repository.User, newEmail, newPassword *string) error {
	if newEmail != nil {
		addr := repository.NormalizeEmail(*newEmail)
		if !validation.ValidEmail(addr) {
			return authsvc.ErrInvalidEmail
		}
		if addr != u.Email {
			if err := s.ensureEmailFree(ctx, addr, u.ID); err != nil {
				return err
			}
			u.Email = addr
		}
	}
	if newPassword != nil {
		if u.Provider != repository.ProviderEmail {
			return ErrPasswordNotAllowed
		}
		if err := s.checkPassword(*newPassword); err != nil {
			return err
		}
		hash, err := s.deps.Hasher.Hash(*newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, addr, selfID string) error {
	other, err := s.deps.Users.GetByEmail(ctx, addr, repository.ReadOptions{})
	if err == nil {
		if other.ID != selfID {
			return authsvc.ErrDuplicateEmail
		}
		return nil
	}
	if !repository.IsNotFound(err) {
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

func (s *userService) checkPassword(pw string) error {
	if ok, reasons := s.deps.Policy.Validate(pw); !ok {
		return authsvc.PolicyError(reasons)
	}
	return nil
}

// applyProfile copia los campos presentes. Nombres vacíos se permiten (borran el campo).
func applyProfile(u *repository.User, p dto.Profile) error {
	set := func(dst *string, v *string) error {
		if v == nil {
			return nil
		}
		val := strings.TrimSpace(*v)
		if val != "" && !validation.ValidName(val) {
			return ErrInvalidProfile
		}
		*dst = val
		return nil
	}
	for _, f := range []struct {
		dst *string
		v   *string
	}{
		{&u.FirstName, p.FirstName},
		{&u.LastName, p.LastName},
		{&u.Phone, p.Phone},
		{&u.Address, p.Address},
		{&u.City, p.City},
		{&u.Postcode, p.Postcode},
		{&u.Region, p.State},
	} {
		if err := set(f.dst, f.v); err != nil {
			return err
		}
	}
	if p.Language != nil {
		lang := repository.Language(strings.ToLower(strings.TrimSpace(*p.Language)))
		if !lang.Valid() {
			return ErrInvalidLanguage
		}
		u.Language = lang
	}
	return nil
}

func mapNotFound(err error) error {
	if repository.IsNotFound(err) {
		return authsvc.ErrNotFound
	}
	return err
}
