// Package repository define el modelo de dominio (User, Item) y los contratos
// de persistencia que consumen los services.
//
// Las implementaciones viven en internal/store/pg (PostgreSQL) e
// internal/store/memory (tests y modo dev).
//
//	services ──► repository (interfaces) ──► store/pg | store/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Las lecturas excluyen registros archivados salvo WithArchived.
//   - ErrNotFound / ErrConflict son los únicos errores de dominio del store.
package repository
