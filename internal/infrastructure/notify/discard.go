package notify

import (
	"context"

	"github.com/tallerpro/stock-api/internal/application/stock"
)

var _ stock.AlertNotifier = (*DiscardNotifier)(nil)

// DiscardNotifier descarta toda alerta. Se usa cuando no hay webhook
// configurado; el disparador ya deja trazas en el log.
type DiscardNotifier struct{}

// NewDiscardNotifier construye el notificador nulo.
func NewDiscardNotifier() *DiscardNotifier { return &DiscardNotifier{} }

// SendLowStockAlert no hace nada.
func (n *DiscardNotifier) SendLowStockAlert(_ context.Context, _ stock.LowStockAlert) error {
	return nil
}
