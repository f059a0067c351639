package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SequenceRepository entrega correlativos atómicos por tenant y serie (OC, REC, VEN, TRF, NC).
type SequenceRepository interface {
	Next(ctx context.Context, tenantID, series string) (int64, error)
}

// NextCode obtiene el siguiente correlativo y lo formatea (OC-00001).
func NextCode(ctx context.Context, seq SequenceRepository, tenantID, series string) (string, error) {
	n, err := seq.Next(ctx, tenantID, series)
	if err != nil {
		return "", err
	}
	return entity.DocumentCode(series, n), nil
}
