// Package store provee el registry de adapters de persistencia.
//
// Cada adapter se registra en init() y se selecciona por nombre desde la
// config (database.driver). Importar el adapter con blank import:
//
//	import _ "github.com/dropDatabas3/authkit/internal/store/adapters/pg"
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

// Adapter crea conexiones a un backend de almacenamiento.
type Adapter interface {
	Name() string
	Connect(ctx context.Context, cfg AdapterConfig) (Connection, error)
}

// Connection expone los repositorios de un backend conectado.
type Connection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Users() repository.UserRepository
	Items() repository.ItemRepository
}

// MigratableConnection la implementan los backends SQL.
type MigratableConnection interface {
	Migrate(ctx context.Context) error
}

// AdapterConfig configuración de conexión.
type AdapterConfig struct {
	// Name del adapter: "postgres" | "memory"
	Name     string
	DSN      string
	MaxConns int
	MinConns int
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter. Panic si el nombre ya existe.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("store: adapter %q already registered", name))
	}
	adapters[name] = a
}

func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open conecta usando el adapter indicado en cfg.Name.
func Open(ctx context.Context, cfg AdapterConfig) (Connection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("store: adapter %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}

// Migrate corre las migraciones si la conexión las soporta; no-op en otro caso.
func Migrate(ctx context.Context, conn Connection) error {
	m, ok := conn.(MigratableConnection)
	if !ok {
		return nil
	}
	return m.Migrate(ctx)
}
