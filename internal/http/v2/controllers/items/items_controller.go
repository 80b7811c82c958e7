package items

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dtoauth "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/items"
	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/items"
)

// ItemsController maneja /items/*. Todas las rutas requieren RequireAuth.
type ItemsController struct {
	service svc.ItemService
}

func NewItemsController(service svc.ItemService) *ItemsController {
	return &ItemsController{service: service}
}

// List maneja GET /items
func (c *ItemsController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context(), mw.CurrentUser(r.Context()), helpers.ListOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromItems(list))
}

// Create maneja POST /items
func (c *ItemsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	it, err := c.service.Create(r.Context(), mw.CurrentUser(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromItem(it))
}

// CreateFor maneja POST /items/admin/{user_id} (admin)
func (c *ItemsController) CreateFor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	it, err := c.service.CreateFor(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "user_id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromItem(it))
}

// Get maneja GET /items/{id}
func (c *ItemsController) Get(w http.ResponseWriter, r *http.Request) {
	it, err := c.service.Get(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromItem(it))
}

// Update maneja PUT /items/{id}
func (c *ItemsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	it, err := c.service.Update(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromItem(it))
}

// Archive maneja POST /items/{id}/archive
func (c *ItemsController) Archive(w http.ResponseWriter, r *http.Request) {
	it, err := c.service.Archive(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromItem(it))
}

// Unarchive maneja POST /items/{id}/unarchive
func (c *ItemsController) Unarchive(w http.ResponseWriter, r *http.Request) {
	it, err := c.service.Unarchive(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromItem(it))
}

// Delete maneja DELETE /items/{id}
func (c *ItemsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), mw.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.MessageResponse{Msg: "Item deleted successfully"})
}
