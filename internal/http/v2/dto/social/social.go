// Package social contiene DTOs del login federado.
package social

// ConfirmRequest canje del token de confirmación SSO por el par de sesión.
type ConfirmRequest struct {
	Token string `json:"token"`
}
