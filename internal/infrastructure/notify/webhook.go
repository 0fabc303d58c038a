// Package notify implementa los destinos de alertas de stock bajo mínimo.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tallerpro/stock-api/internal/application/stock"
)

// Verificar en tiempo de compilación que WebhookNotifier implementa AlertNotifier.
var _ stock.AlertNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier entrega alertas de stock bajo mínimo vía HTTP POST a una URL
// configurada. Usa net/http de la librería estándar; el payload es JSON plano.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier construye el notificador. timeout acota la llamada HTTP
// completa; el disparador de alertas impone además su propio context.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendLowStockAlert envía la alerta. Cualquier respuesta fuera de 2xx es error;
// el llamador decide qué hacer con él (las alertas nunca bloquean el stock).
func (n *WebhookNotifier) SendLowStockAlert(ctx context.Context, alert stock.LowStockAlert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("notify: serializar alerta: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("notify: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("notify: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("notify: webhook HTTP %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
