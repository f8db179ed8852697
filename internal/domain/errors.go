package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrPersistence       = errors.New("fallo de persistencia")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// PersistenceError indica qué paso de escritura falló dentro de una transacción.
// errors.Is(err, ErrPersistence) es verdadero para cualquier PersistenceError.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return ErrPersistence.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Persistence envuelve err como fallo de persistencia en la operación op.
// Los errores de dominio ya tipados (conflicto, stock, no encontrado) se devuelven tal cual.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
