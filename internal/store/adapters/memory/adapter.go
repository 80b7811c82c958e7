// Package memory implementa el adapter in-process del store: datos en mapas
// protegidos por mutex. Se usa en tests y con database.driver=memory en dev.
package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.Connection, error) {
	return New(), nil
}

// Conn es una conexión en memoria. El mutex es compartido por ambos
// repositorios para que Delete de un usuario borre sus items de forma atómica.
type Conn struct {
	mu    sync.RWMutex
	users map[string]repository.User
	items map[string]repository.Item
}

// New crea un store vacío.
func New() *Conn {
	return &Conn{
		users: make(map[string]repository.User),
		items: make(map[string]repository.Item),
	}
}

func (c *Conn) Name() string                     { return "memory" }
func (c *Conn) Ping(context.Context) error       { return nil }
func (c *Conn) Close() error                     { return nil }
func (c *Conn) Users() repository.UserRepository { return &userRepo{c: c} }
func (c *Conn) Items() repository.ItemRepository { return &itemRepo{c: c} }

func page[T any](all []T, opts repository.ListOptions) []T {
	opts = opts.Normalize()
	if opts.Skip >= len(all) {
		return []T{}
	}
	end := opts.Skip + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Skip:end]
}
