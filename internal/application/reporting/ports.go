package reporting

import (
	"context"
	"time"

	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// StockReportPDFGenerator renderiza el reporte de disponibilidad y stock bajo
// para gerencia. Solo recibe proyecciones de lectura; ninguna capacidad de
// mutación cruza este puerto.
type StockReportPDFGenerator interface {
	GenerateStockReport(
		ctx context.Context,
		orgName string,
		generatedAt time.Time,
		availability []repository.PartAvailability,
		lowStock []repository.LowStockItem,
	) ([]byte, error)
}
