package ports

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito es visible.
// Las implementaciones pueden reintentar fn completa ante domain.ErrConcurrentUpdate.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
