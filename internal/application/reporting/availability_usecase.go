package reporting

import (
	"context"
	"time"

	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// AvailabilityUseCase consultas de solo lectura sobre disponibilidad y
// consumo. Proyecciones puras: con ledger vacío devuelven colecciones vacías,
// nunca error, y jamás mutan estado.
type AvailabilityUseCase struct {
	availRepo repository.AvailabilityRepository
	itemRepo  repository.InventoryItemRepository
	pdfGen    StockReportPDFGenerator
}

// NewAvailabilityUseCase construye el agregador.
func NewAvailabilityUseCase(
	availRepo repository.AvailabilityRepository,
	itemRepo repository.InventoryItemRepository,
	pdfGen StockReportPDFGenerator,
) *AvailabilityUseCase {
	return &AvailabilityUseCase{availRepo: availRepo, itemRepo: itemRepo, pdfGen: pdfGen}
}

// GetPartAvailability disponibilidad agregada por repuesto entre ubicaciones.
// partID vacío = todos los repuestos.
func (uc *AvailabilityUseCase) GetPartAvailability(ctx context.Context, orgID, partID string) ([]repository.PartAvailability, error) {
	rows, err := uc.availRepo.GetPartAvailability(ctx, orgID, partID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.PartAvailability{}
	}
	return rows, nil
}

// GetAvailabilityByVehicle disponibilidad de los repuestos movidos para un vehículo.
func (uc *AvailabilityUseCase) GetAvailabilityByVehicle(ctx context.Context, orgID, vehicleID string) ([]repository.PartAvailability, error) {
	rows, err := uc.availRepo.GetAvailabilityByVehicle(ctx, orgID, vehicleID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.PartAvailability{}
	}
	return rows, nil
}

// GetAvailabilityByClient disponibilidad de los repuestos movidos para un cliente.
func (uc *AvailabilityUseCase) GetAvailabilityByClient(ctx context.Context, orgID, clientID string) ([]repository.PartAvailability, error) {
	rows, err := uc.availRepo.GetAvailabilityByClient(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.PartAvailability{}
	}
	return rows, nil
}

// GetConsumptionStats estadísticas de consumo (OUT) por repuesto, con filtros
// opcionales por vehículo, orden de servicio y rango de fechas.
func (uc *AvailabilityUseCase) GetConsumptionStats(ctx context.Context, orgID string, filter repository.ConsumptionFilter) ([]repository.ConsumptionStat, error) {
	rows, err := uc.availRepo.GetConsumptionStats(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.ConsumptionStat{}
	}
	return rows, nil
}

// GenerateStockReportPDF arma el reporte gerencial: disponibilidad por
// repuesto más los ítems bajo mínimo, renderizado a PDF.
func (uc *AvailabilityUseCase) GenerateStockReportPDF(ctx context.Context, orgID, orgName string) ([]byte, error) {
	availability, err := uc.GetPartAvailability(ctx, orgID, "")
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.itemRepo.ListBelowMinimum(ctx, orgID, "")
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateStockReport(ctx, orgName, time.Now(), availability, lowStock)
}
