package helpers

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

// ListOptions lee skip, limit y with_archived del query string.
// Valores inválidos quedan en cero y Normalize aplica los defaults.
func ListOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	archived, _ := strconv.ParseBool(q.Get("with_archived"))
	return repository.ListOptions{Skip: skip, Limit: limit, WithArchived: archived}.Normalize()
}
