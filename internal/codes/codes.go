// Package codes is the client for the remote access-code store. Two wire
// shapes exist for the same two operations; pick one per deployment, the
// orchestrator only sees the Store interface.
package codes

import (
	"context"
	"errors"
)

// ErrNoEligibleCode se retorna cuando ningún código del store está disponible.
var ErrNoEligibleCode = errors.New("no eligible code available")

// AccessCode es un registro de código en el store remoto.
type AccessCode struct {
	// Value es el token opaco que se envía al pagador.
	Value string
	// ID es el identificador asignado por el store. Vacío en backends
	// direccionados por el valor del código.
	ID   string
	Used bool
	Sent bool
}

// Eligible indica si el código puede entregarse: ni usado ni enviado.
func (c AccessCode) Eligible() bool {
	return !c.Used && !c.Sent
}

// Store son las dos operaciones que necesita el orquestador.
type Store interface {
	// FetchEligible retorna el primer código elegible en el orden del store.
	// Sin reserva ni lock: dos llamadas concurrentes pueden ver el mismo código.
	FetchEligible(ctx context.Context) (AccessCode, error)
	// MarkSent marca el código como enviado. No hay rollback del email si falla.
	MarkSent(ctx context.Context, code AccessCode) error
}

// Lister expone el listado completo (codesctl, readyz).
type Lister interface {
	List(ctx context.Context) ([]AccessCode, error)
}

// firstEligible: selección first-match en el orden retornado por el store.
func firstEligible(list []AccessCode) (AccessCode, error) {
	for _, c := range list {
		if c.Eligible() {
			return c, nil
		}
	}
	return AccessCode{}, ErrNoEligibleCode
}
