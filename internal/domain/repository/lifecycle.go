package repository

import "time"

// LifecycleState es el estado de soft-delete de una entidad.
type LifecycleState string

const (
	StateActive   LifecycleState = "active"
	StateArchived LifecycleState = "archived"
)

// Lifecycle se embebe en cada entidad archivable.
// Invariante: State == StateArchived <=> ArchivedAt != nil.
type Lifecycle struct {
	State      LifecycleState
	ArchivedAt *time.Time
}

func (l *Lifecycle) IsArchived() bool { return l.State == StateArchived }

func (l *Lifecycle) Archive(at time.Time) {
	at = at.UTC()
	l.State = StateArchived
	l.ArchivedAt = &at
}

func (l *Lifecycle) Restore() {
	l.State = StateActive
	l.ArchivedAt = nil
}

// LifecycleFrom deriva el estado desde la columna archived_at.
func LifecycleFrom(archivedAt *time.Time) Lifecycle {
	if archivedAt == nil {
		return Lifecycle{State: StateActive}
	}
	return Lifecycle{State: StateArchived, ArchivedAt: archivedAt}
}

// ReadOptions controla el filtro de archivados en lecturas puntuales.
type ReadOptions struct {
	WithArchived bool
}

// Visible aplica el filtro por defecto: archivados sólo con WithArchived.
func (o ReadOptions) Visible(l Lifecycle) bool {
	return o.WithArchived || !l.IsArchived()
}

// ListOptions paginación + filtro de archivados.
type ListOptions struct {
	Skip         int
	Limit        int // Default 100, max 500
	WithArchived bool
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Normalize aplica defaults y cotas.
func (o ListOptions) Normalize() ListOptions {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	return o
}
