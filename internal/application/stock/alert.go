package stock

import (
	"context"
	"time"

	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/pkg/logger"
)

// LowStockAlert payload que se entrega al sink de notificaciones cuando la
// disponibilidad de un ítem queda en o bajo su umbral de reorden.
type LowStockAlert struct {
	OrgID     string    `json:"org_id"`
	ItemID    string    `json:"item_id"`
	PartID    string    `json:"part_id"`
	SKU       string    `json:"sku"`
	PartName  string    `json:"part_name"`
	Location  string    `json:"location"`
	Quantity  int64     `json:"quantity"`
	Reserved  int64     `json:"reserved_quantity"`
	Minimum   int64     `json:"minimum_quantity"`
	Available int64     `json:"available_quantity"`
	At        time.Time `json:"at"`
}

// AlertTrigger evalúa la disponibilidad tras cada mutación del motor y
// despacha la alerta fuera de banda. La entrega es best-effort: corre en su
// propia goroutine con timeout propio, los fallos se loguean y se tragan, y
// jamás revierte ni retrasa la operación de stock que la disparó.
type AlertTrigger struct {
	notifier AlertNotifier
	log      *logger.Logger
	timeout  time.Duration
}

// NewAlertTrigger construye el trigger. timeout acota la entrega de cada alerta.
func NewAlertTrigger(notifier AlertNotifier, log *logger.Logger, timeout time.Duration) *AlertTrigger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AlertTrigger{notifier: notifier, log: log, timeout: timeout}
}

// Evaluate compara disponible contra mínimo sobre el snapshot post-commit y,
// si corresponde, despacha la alerta sin bloquear al caller.
func (t *AlertTrigger) Evaluate(item *entity.InventoryItem, part *entity.Part) {
	if item == nil || !item.BelowMinimum() {
		return
	}
	alert := LowStockAlert{
		OrgID:     item.OrgID,
		ItemID:    item.ID,
		PartID:    item.PartID,
		Location:  item.Location,
		Quantity:  item.Quantity,
		Reserved:  item.ReservedQuantity,
		Minimum:   item.MinimumQuantity,
		Available: item.AvailableQuantity(),
		At:        time.Now(),
	}
	if part != nil {
		alert.SKU = part.SKU
		alert.PartName = part.Name
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.notifier.SendLowStockAlert(ctx, alert); err != nil {
			t.log.Warn().
				Err(err).
				Str("item_id", alert.ItemID).
				Str("sku", alert.SKU).
				Int64("available", alert.Available).
				Msg("alerta de stock bajo no entregada")
		}
	}()
}
