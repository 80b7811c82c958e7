package repository

import (
	"context"
	"time"
)

// Item es un recurso simple perteneciente a un usuario.
type Item struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Lifecycle
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemRepository define la persistencia de items.
type ItemRepository interface {
	GetByID(ctx context.Context, id string, opts ReadOptions) (*Item, error)
	List(ctx context.Context, opts ListOptions) ([]Item, error)
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]Item, error)
	Create(ctx context.Context, it *Item) error
	Update(ctx context.Context, it *Item) error
	Archive(ctx context.Context, id string, at time.Time) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
