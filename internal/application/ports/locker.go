package ports

import "context"

// Locker guarda distribuida por documento (p. ej. "lock:transfer:<id>").
// Obtain devuelve domain.ErrConflict si otra petición ya tiene el candado.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// NopLocker no bloquea nada; se usa cuando no hay Redis configurado.
type NopLocker struct{}

// Obtain siempre concede el candado.
func (NopLocker) Obtain(context.Context, string) (func(), error) {
	return func() {}, nil
}

// LockKey arma la clave de candado para un documento.
func LockKey(kind, id string) string {
	return "lock:" + kind + ":" + id
}
