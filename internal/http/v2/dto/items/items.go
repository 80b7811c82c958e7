// Package items contiene DTOs del CRUD de items.
package items

import (
	"time"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type ItemResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	OwnerID        string     `json:"owner_id"`
	LifecycleState string     `json:"lifecycle_state"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ListResponse struct {
	Data  []ItemResponse `json:"data"`
	Count int            `json:"count"`
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func FromItem(it *repository.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		Description:    it.Description,
		OwnerID:        it.OwnerID,
		LifecycleState: string(it.Lifecycle.State),
		ArchivedAt:     it.ArchivedAt,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func FromItems(list []repository.Item) ListResponse {
	out := ListResponse{Data: make([]ItemResponse, 0, len(list)), Count: len(list)}
	for i := range list {
		out.Data = append(out.Data, FromItem(&list[i]))
	}
	return out
}
