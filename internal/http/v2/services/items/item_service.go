// Package items contiene el CRUD de items. Cada item pertenece a un usuario;
// sólo el dueño o un admin pueden leerlo o modificarlo.
package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/items"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/authz"
	"github.com/dropDatabas3/authkit/internal/validation"
)

// ItemService define las operaciones sobre items.
type ItemService interface {
	// List: admin ve todos, el resto sólo los propios.
	List(ctx context.Context, actor *repository.User, opts repository.ListOptions) ([]repository.Item, error)
	Create(ctx context.Context, actor *repository.User, in dto.CreateRequest) (*repository.Item, error)
	// CreateFor crea un item a nombre de otro usuario. Sólo admin.
	CreateFor(ctx context.Context, actor *repository.User, ownerID string, in dto.CreateRequest) (*repository.Item, error)
	Get(ctx context.Context, actor *repository.User, id string) (*repository.Item, error)
	Update(ctx context.Context, actor *repository.User, id string, in dto.UpdateRequest) (*repository.Item, error)
	Archive(ctx context.Context, actor *repository.User, id string) (*repository.Item, error)
	Unarchive(ctx context.Context, actor *repository.User, id string) (*repository.Item, error)
	Delete(ctx context.Context, actor *repository.User, id string) error
}

var (
	ErrNotFound      = errors.New("item not found")
	ErrOwnerNotFound = errors.New("owner not found")
	ErrInvalidName   = errors.New("invalid item name")
)

// Deps contiene las dependencias del item service.
type Deps struct {
	Items repository.ItemRepository
	Users repository.UserRepository
}

// Services agrupa los services del dominio items.
type Services struct {
	Items ItemService
}

func NewServices(d Deps) Services {
	return Services{Items: NewItemService(d)}
}

type itemService struct {
	deps Deps
}

func NewItemService(d Deps) ItemService {
	return &itemService{deps: d}
}

func (s *itemService) List(ctx context.Context, actor *repository.User, opts repository.ListOptions) ([]repository.Item, error) {
	if actor == nil {
		return nil, authz.ErrPermissionDenied
	}
	opts = opts.Normalize()
	if actor.IsAdmin() {
		return s.deps.Items.List(ctx, opts)
	}
	return s.deps.Items.ListByOwner(ctx, actor.ID, opts)
}

func (s *itemService) Create(ctx context.Context, actor *repository.User, in dto.CreateRequest) (*repository.Item, error) {
	if actor == nil {
		return nil, authz.ErrPermissionDenied
	}
	return s.create(ctx, actor.ID, in)
}

func (s *itemService) CreateFor(ctx context.Context, actor *repository.User, ownerID string, in dto.CreateRequest) (*repository.Item, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.deps.Users.GetByID(ctx, ownerID, repository.ReadOptions{}); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("lookup owner: %w", err)
	}
	return s.create(ctx, ownerID, in)
}

func (s *itemService) create(ctx context.Context, ownerID string, in dto.CreateRequest) (*repository.Item, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("items"),
		logger.Op("Create"),
		logger.UserID(ownerID),
	)

	name := strings.TrimSpace(in.Name)
	if !validation.ValidName(name) {
		return nil, ErrInvalidName
	}
	it := &repository.Item{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     ownerID,
	}
	if err := s.deps.Items.Create(ctx, it); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, ErrOwnerNotFound
		}
		log.Error("failed to create item", logger.Err(err))
		return nil, err
	}

	log.Info("item created", logger.ItemID(it.ID))
	return it, nil
}

func (s *itemService) Get(ctx context.Context, actor *repository.User, id string) (*repository.Item, error) {
	return s.load(ctx, actor, id, false)
}

func (s *itemService) Update(ctx context.Context, actor *repository.User, id string, in dto.UpdateRequest) (*repository.Item, error) {
	it, err := s.load(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !validation.ValidName(name) {
			return nil, ErrInvalidName
		}
		it.Name = name
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.deps.Items.Update(ctx, it); err != nil {
		return nil, mapNotFound(err)
	}
	logger.From(ctx).Info("item updated", logger.Layer("service"), logger.Op("items.Update"), logger.ItemID(id))
	return it, nil
}

func (s *itemService) Archive(ctx context.Context, actor *repository.User, id string) (*repository.Item, error) {
	if _, err := s.load(ctx, actor, id, true); err != nil {
		return nil, err
	}
	if err := s.deps.Items.Archive(ctx, id, time.Now()); err != nil {
		return nil, mapNotFound(err)
	}
	logger.From(ctx).Info("item archived", logger.Layer("service"), logger.Op("items.Archive"), logger.ItemID(id))
	return s.load(ctx, actor, id, true)
}

func (s *itemService) Unarchive(ctx context.Context, actor *repository.User, id string) (*repository.Item, error) {
	if _, err := s.load(ctx, actor, id, true); err != nil {
		return nil, err
	}
	if err := s.deps.Items.Unarchive(ctx, id); err != nil {
		return nil, mapNotFound(err)
	}
	logger.From(ctx).Info("item unarchived", logger.Layer("service"), logger.Op("items.Unarchive"), logger.ItemID(id))
	return s.load(ctx, actor, id, false)
}

func (s *itemService) Delete(ctx context.Context, actor *repository.User, id string) error {
	if _, err := s.load(ctx, actor, id, true); err != nil {
		return err
	}
	if err := s.deps.Items.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	logger.From(ctx).Info("item deleted", logger.Layer("service"), logger.Op("items.Delete"), logger.ItemID(id))
	return nil
}

// load trae el item y verifica que actor sea dueño o admin.
func (s *itemService) load(ctx context.Context, actor *repository.User, id string, withArchived bool) (*repository.Item, error) {
	if actor == nil {
		return nil, authz.ErrPermissionDenied
	}
	it, err := s.deps.Items.GetByID(ctx, id, repository.ReadOptions{WithArchived: withArchived})
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := authz.CanAccessItem(actor, it); err != nil {
		return nil, err
	}
	return it, nil
}

func mapNotFound(err error) error {
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
