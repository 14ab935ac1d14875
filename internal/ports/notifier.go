package ports

import (
	"context"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// Notifier presenta el reporte de una ejecución al usuario.
type Notifier interface {
	// Notify muestra las estimaciones por outcome y banda.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, report domain.Report) error
}
