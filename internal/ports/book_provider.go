package ports

import (
	"context"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// BookProvider obtiene orderbooks del CLOB usando el endpoint batch.
type BookProvider interface {
	// FetchOrderBooks devuelve los orderbooks raw para los token_ids dados.
	// Un token sin libro en la respuesta simplemente no aparece en el map.
	FetchOrderBooks(ctx context.Context, tokenIDs []string) (map[string]domain.RawBook, error)
}
