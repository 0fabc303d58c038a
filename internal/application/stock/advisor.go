package stock

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/domain/repository"
	"github.com/tallerpro/stock-api/pkg/logger"
)

// PurchaseSuggestion sugerencia de compra para un repuesto bajo mínimo.
type PurchaseSuggestion struct {
	PartID        string          `json:"part_id"`
	SKU           string          `json:"sku"`
	PartName      string          `json:"part_name"`
	Location      string          `json:"location"`
	Available     int64           `json:"available"`
	Minimum       int64           `json:"minimum"`
	SuggestedQty  int64           `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Priority      int             `json:"priority"` // 1 = más urgente
	Source        string          `json:"source"`   // remote | local
}

// consumptionWindowDays ventana de historial que alimenta el ranking.
const consumptionWindowDays = 90

// Advisor genera la lista de compras sugeridas para los repuestos bajo su
// umbral de reorden. Es puramente consultivo: nunca toca el camino de
// mutación del motor.
//
// Estrategias: si hay recomendador remoto configurado se intenta primero; ante
// cualquier fallo se cae a la estrategia local (volumen y recencia de
// consumo), logueando el fallback.
type Advisor struct {
	itemRepo  repository.InventoryItemRepository
	availRepo repository.AvailabilityRepository
	remote    RankStrategy // nil si no hay recomendador configurado
	local     RankStrategy
	publisher ConsumptionPublisher // nil si no hay recomendador configurado
	log       *logger.Logger
}

// NewAdvisor construye el advisor. remote y publisher pueden ser nil.
func NewAdvisor(
	itemRepo repository.InventoryItemRepository,
	availRepo repository.AvailabilityRepository,
	remote RankStrategy,
	publisher ConsumptionPublisher,
	log *logger.Logger,
) *Advisor {
	return &Advisor{
		itemRepo:  itemRepo,
		availRepo: availRepo,
		remote:    remote,
		local:     LocalRankStrategy{},
		publisher: publisher,
		log:       log,
	}
}

// SuggestPurchases devuelve las sugerencias priorizadas para la organización.
// location vacío considera todas las ubicaciones.
func (a *Advisor) SuggestPurchases(ctx context.Context, orgID, location string) ([]PurchaseSuggestion, error) {
	low, err := a.itemRepo.ListBelowMinimum(ctx, orgID, location)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []PurchaseSuggestion{}, nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -consumptionWindowDays)
	stats, err := a.availRepo.GetConsumptionStats(ctx, orgID, repository.ConsumptionFilter{From: &start, To: &end})
	if err != nil {
		// Sin historial no hay ranking por consumo, pero la lista sigue siendo útil.
		a.log.Warn().Err(err).Msg("historial de consumo no disponible para el advisor")
		stats = nil
	}

	if a.remote != nil {
		suggestions, err := a.remote.Rank(ctx, orgID, low, stats)
		if err == nil {
			return suggestions, nil
		}
		a.log.Warn().Err(err).Msg("recomendador remoto falló; usando ranking local")
	}
	return a.local.Rank(ctx, orgID, low, stats)
}

// PublishHistory empuja el historial de consumo al recomendador. Best-effort:
// lo invoca un ticker en el arranque, nunca una operación de stock.
func (a *Advisor) PublishHistory(ctx context.Context, orgID string) error {
	if a.publisher == nil {
		return nil
	}
	end := time.Now()
	start := end.AddDate(0, 0, -consumptionWindowDays)
	stats, err := a.availRepo.GetConsumptionStats(ctx, orgID, repository.ConsumptionFilter{From: &start, To: &end})
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}
	return a.publisher.PublishConsumption(ctx, orgID, stats)
}

// LocalRankStrategy ranking local: mayor consumo histórico primero, luego
// movimiento más reciente, luego mayor déficit contra el mínimo.
type LocalRankStrategy struct{}

var _ RankStrategy = LocalRankStrategy{}

// Rank implementa RankStrategy sin dependencia externa.
func (LocalRankStrategy) Rank(_ context.Context, _ string, low []repository.LowStockItem, stats []repository.ConsumptionStat) ([]PurchaseSuggestion, error) {
	statByPart := make(map[string]repository.ConsumptionStat, len(stats))
	for _, s := range stats {
		statByPart[s.PartID] = s
	}

	suggestions := make([]PurchaseSuggestion, 0, len(low))
	for _, item := range low {
		available := item.Quantity - item.Reserved
		// Stock objetivo: el doble del mínimo, para no volver a caer de inmediato.
		suggested := item.Minimum*2 - available
		if suggested < 1 {
			suggested = 1
		}
		suggestions = append(suggestions, PurchaseSuggestion{
			PartID:        item.PartID,
			SKU:           item.SKU,
			PartName:      item.PartName,
			Location:      item.Location,
			Available:     available,
			Minimum:       item.Minimum,
			SuggestedQty:  suggested,
			EstimatedCost: item.UnitCost.Mul(decimal.NewFromInt(suggested)),
			Source:        "local",
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		sa, sb := statByPart[a.PartID], statByPart[b.PartID]
		if sa.TotalConsumed != sb.TotalConsumed {
			return sa.TotalConsumed > sb.TotalConsumed
		}
		la, lb := movementTime(sa.LastMovementAt), movementTime(sb.LastMovementAt)
		if !la.Equal(lb) {
			return la.After(lb)
		}
		return a.Minimum-a.Available > b.Minimum-b.Available
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func movementTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
