// Package users contiene DTOs de gestión de usuarios.
package users

import (
	"time"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type UserResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Language       string     `json:"language"`
	Confirmed      bool       `json:"confirmed"`
	Provider       string     `json:"provider"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	FullName       string     `json:"full_name,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	Postcode       string     `json:"postcode,omitempty"`
	State          string     `json:"state,omitempty"`
	LifecycleState string     `json:"lifecycle_state"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ListResponse struct {
	Data  []UserResponse `json:"data"`
	Count int            `json:"count"`
}

// Profile campos editables por el propio usuario.
type Profile struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Postcode  *string `json:"postcode,omitempty"`
	State     *string `json:"state,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// CreateRequest alta por admin.
type CreateRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
	Profile
}

// OpenRegisterRequest alta pública (/users/open).
type OpenRegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UpdateMeRequest: sin rol. Email y password opcionales.
type UpdateMeRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Profile
}

// UpdateRequest edición por admin.
type UpdateRequest struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	Confirmed *bool   `json:"confirmed,omitempty"`
	Profile
}

// FromUser arma la respuesta pública. Nunca expone hash ni código SSO.
func FromUser(u *repository.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Role:           string(u.Role),
		Language:       string(u.Language),
		Confirmed:      u.Confirmed,
		Provider:       string(u.Provider),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Phone:          u.Phone,
		Address:        u.Address,
		City:           u.City,
		Postcode:       u.Postcode,
		State:          u.Region,
		LifecycleState: string(u.Lifecycle.State),
		ArchivedAt:     u.ArchivedAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// FromUsers arma la respuesta paginada.
func FromUsers(list []repository.User) ListResponse {
	out := ListResponse{Data: make([]UserResponse, 0, len(list)), Count: len(list)}
	for i := range list {
		out.Data = append(out.Data, FromUser(&list[i]))
	}
	return out
}
