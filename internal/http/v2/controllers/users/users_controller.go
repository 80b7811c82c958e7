package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dtoauth "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/users"
	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/users"
)

// UsersController maneja /users/*. Salvo Open, todas las rutas van detrás
// de RequireAuth.
type UsersController struct {
	service svc.UserService
}

func NewUsersController(service svc.UserService) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /users (admin)
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context(), mw.CurrentUser(r.Context()), helpers.ListOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUsers(list))
}

// Create maneja POST /users (admin)
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.Create(r.Context(), mw.CurrentUser(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromUser(u))
}

// Open maneja POST /users/open (público, si está habilitado)
func (c *UsersController) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenRegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.OpenRegister(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromUser(u))
}

// Me maneja GET /users/me
func (c *UsersController) Me(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(mw.CurrentUser(r.Context())))
}

// UpdateMe maneja PUT /users/me
func (c *UsersController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMeRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.UpdateMe(r.Context(), mw.CurrentUser(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(u))
}

// ArchiveMe maneja POST /users/me/archive
func (c *UsersController) ArchiveMe(w http.ResponseWriter, r *http.Request) {
	if err := c.service.ArchiveMe(r.Context(), mw.CurrentUser(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.MessageResponse{Msg: "User archived successfully"})
}

// Get maneja GET /users/{id}
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	u, err := c.service.Get(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(u))
}

// Update maneja PUT /users/{id} (admin)
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.Update(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(u))
}

// Archive maneja POST /users/{id}/archive
func (c *UsersController) Archive(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Archive(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.MessageResponse{Msg: "User archived successfully"})
}

// Unarchive maneja POST /users/{id}/unarchive
func (c *UsersController) Unarchive(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Unarchive(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.MessageResponse{Msg: "User unarchived successfully"})
}

// Delete maneja DELETE /users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.MessageResponse{Msg: "User deleted successfully"})
}
