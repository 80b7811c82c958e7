// Package items contiene los controllers del CRUD de items.
package items

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/items"
)

// Controllers agrupa todos los controllers del dominio items.
type Controllers struct {
	Items *ItemsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Items: NewItemsController(s.Items)}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		httperrors.Write(w, r, httperrors.ErrNotFound.WithDetail("item not found"))
	case errors.Is(err, svc.ErrOwnerNotFound):
		httperrors.Write(w, r, httperrors.ErrNotFound.WithDetail("owner not found"))
	case errors.Is(err, svc.ErrInvalidName):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail("invalid item name"))
	default:
		httperrors.Write(w, r, err)
	}
}
