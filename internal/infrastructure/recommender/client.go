// Package recommender implementa el cliente HTTP del servicio externo de
// recomendación de compras. El servicio rankea repuestos bajo mínimo a partir
// del historial de consumo que este cliente le publica periódicamente.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// Verificar en tiempo de compilación que Client implementa ambos puertos.
var (
	_ stock.RankStrategy         = (*Client)(nil)
	_ stock.ConsumptionPublisher = (*Client)(nil)
)

// Client adaptador REST del recomendador. Usa net/http de la librería
// estándar; no hay SDK oficial del servicio.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout acota cada llamada HTTP.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo del recomendador ────────────────────────────────

type rankRequest struct {
	OrgID string          `json:"org_id"`
	Items []rankItem      `json:"items"`
	Stats []consumptionTS `json:"consumption_stats,omitempty"`
}

type rankItem struct {
	PartID   string `json:"part_id"`
	SKU      string `json:"sku"`
	PartName string `json:"part_name"`
	Location string `json:"location"`
	Quantity int64  `json:"quantity"`
	Reserved int64  `json:"reserved"`
	Minimum  int64  `json:"minimum"`
	UnitCost string `json:"unit_cost"`
}

type consumptionTS struct {
	PartID           string     `json:"part_id"`
	TotalConsumed    int64      `json:"total_consumed"`
	DistinctOrders   int64      `json:"distinct_orders"`
	DistinctVehicles int64      `json:"distinct_vehicles"`
	LastMovementAt   *time.Time `json:"last_movement_at,omitempty"`
}

type rankResponse struct {
	Suggestions []rankSuggestion `json:"suggestions"`
	Error       string           `json:"error,omitempty"`
}

type rankSuggestion struct {
	PartID       string `json:"part_id"`
	SuggestedQty int64  `json:"suggested_qty"`
	Priority     int    `json:"priority"`
}

type historyRequest struct {
	OrgID string          `json:"org_id"`
	Stats []consumptionTS `json:"stats"`
}

// ── Implementación de los puertos ─────────────────────────────────────────────

// Rank pide al servicio un ranking de compras. La respuesta se cruza contra
// los ítems locales: una sugerencia sobre un repuesto desconocido se ignora y
// los repuestos que el servicio omite conservan cantidades calculadas aquí.
func (c *Client) Rank(ctx context.Context, orgID string, low []repository.LowStockItem, stats []repository.ConsumptionStat) ([]stock.PurchaseSuggestion, error) {
	payload := rankRequest{OrgID: orgID, Items: make([]rankItem, 0, len(low))}
	for _, item := range low {
		payload.Items = append(payload.Items, rankItem{
			PartID:   item.PartID,
			SKU:      item.SKU,
			PartName: item.PartName,
			Location: item.Location,
			Quantity: item.Quantity,
			Reserved: item.Reserved,
			Minimum:  item.Minimum,
			UnitCost: item.UnitCost.String(),
		})
	}
	for _, s := range stats {
		payload.Stats = append(payload.Stats, consumptionTS{
			PartID:           s.PartID,
			TotalConsumed:    s.TotalConsumed,
			DistinctOrders:   s.DistinctOrders,
			DistinctVehicles: s.DistinctVehicles,
			LastMovementAt:   s.LastMovementAt,
		})
	}

	var resp rankResponse
	if err := c.post(ctx, "/v1/rank", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("recommender: %s", resp.Error)
	}

	ranked := make(map[string]rankSuggestion, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		ranked[s.PartID] = s
	}

	suggestions := make([]stock.PurchaseSuggestion, 0, len(low))
	for _, item := range low {
		available := item.Quantity - item.Reserved
		suggested := item.Minimum*2 - available
		if suggested < 1 {
			suggested = 1
		}
		priority := len(low) + 1
		if r, ok := ranked[item.PartID]; ok {
			priority = r.Priority
			if r.SuggestedQty > 0 {
				suggested = r.SuggestedQty
			}
		}
		suggestions = append(suggestions, stock.PurchaseSuggestion{
			PartID:        item.PartID,
			SKU:           item.SKU,
			PartName:      item.PartName,
			Location:      item.Location,
			Available:     available,
			Minimum:       item.Minimum,
			SuggestedQty:  suggested,
			EstimatedCost: item.UnitCost.Mul(decimal.NewFromInt(suggested)),
			Priority:      priority,
			Source:        "remote",
		})
	}
	sortByPriority(suggestions)
	return suggestions, nil
}

// PublishConsumption empuja el historial de consumo al servicio.
func (c *Client) PublishConsumption(ctx context.Context, orgID string, stats []repository.ConsumptionStat) error {
	payload := historyRequest{OrgID: orgID, Stats: make([]consumptionTS, 0, len(stats))}
	for _, s := range stats {
		payload.Stats = append(payload.Stats, consumptionTS{
			PartID:           s.PartID,
			TotalConsumed:    s.TotalConsumed,
			DistinctOrders:   s.DistinctOrders,
			DistinctVehicles: s.DistinctVehicles,
			LastMovementAt:   s.LastMovementAt,
		})
	}
	return c.post(ctx, "/v1/history", payload, nil)
}

// post serializa payload, ejecuta el POST y deserializa en out (si no es nil).
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("recommender: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("recommender: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("recommender: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("recommender: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return fmt.Errorf("recommender: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recommender: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	if out != nil {
		if err := json.Unmarshal(rawBody, out); err != nil {
			return fmt.Errorf("recommender: deserializar respuesta: %w", err)
		}
	}
	return nil
}

func sortByPriority(s []stock.PurchaseSuggestion) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Priority < s[j].Priority })
}
