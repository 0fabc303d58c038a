package stock

import (
	"context"

	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la proyección de
// stock y su entrada en el ledger: todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// AlertNotifier sink de alertas de stock bajo. Fire-and-forget desde la
// perspectiva del motor: un fallo de entrega jamás afecta la mutación que lo
// originó.
type AlertNotifier interface {
	SendLowStockAlert(ctx context.Context, alert LowStockAlert) error
}

// RankStrategy ordena los repuestos bajo mínimo en sugerencias de compra
// priorizadas. Dos variantes: ranking remoto (servicio de recomendación) y
// cálculo local por volumen y recencia de consumo.
type RankStrategy interface {
	Rank(ctx context.Context, orgID string, low []repository.LowStockItem, stats []repository.ConsumptionStat) ([]PurchaseSuggestion, error)
}

// ConsumptionPublisher publica el historial de consumo al servicio de
// recomendación. Best-effort: se invoca desde un job periódico, nunca desde
// el camino de mutación.
type ConsumptionPublisher interface {
	PublishConsumption(ctx context.Context, orgID string, stats []repository.ConsumptionStat) error
}
