package repository

import "errors"

var (
	// ErrNotFound indica que el recurso no existe (o está archivado y no se pidió WithArchived).
	ErrNotFound = errors.New("not found")

	// ErrConflict indica violación de unicidad (email, provider+sso_provider_id).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica datos de entrada inválidos para el store.
	ErrInvalidInput = errors.New("invalid input")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
