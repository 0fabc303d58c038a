package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/stock-api/internal/application/dto"
	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/domain"
	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// StockHandler maneja el motor de reservas y el ledger (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterEntry godoc
// @Summary      Registrar entrada física de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "part_id, location, quantity, unit_cost, sale_price"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) RegisterEntry(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, mov, err := h.uc.RegisterEntry(c.Context(), orgID, userID, stock.EntryInput{
		PartID:        in.PartID,
		Location:      in.Location,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		SalePrice:     in.SalePrice,
		ReferenceCode: in.ReferenceCode,
		Notes:         in.Notes,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item":     dto.ToItemResponse(item),
		"movement": dto.ToMovementResponse(mov),
	})
}

// Reserve godoc
// @Summary      Reservar stock para un ítem de orden de servicio
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderOpRequest  true  "service_order_item_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.orderOp(c, h.uc.ReserveStock)
}

// Consume godoc
// @Summary      Consumir stock previamente reservado
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderOpRequest  true  "service_order_item_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consumptions [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	return h.orderOp(c, h.uc.ConsumeStock)
}

// CancelReservation godoc
// @Summary      Cancelar una reserva sin tocar el stock físico
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderOpRequest  true  "service_order_item_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/cancel [post]
func (h *StockHandler) CancelReservation(c *fiber.Ctx) error {
	return h.orderOp(c, h.uc.CancelReservation)
}

// Return godoc
// @Summary      Devolver unidades al stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "service_order_item_id, quantity, reserve_after_return"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/returns [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.ReturnToStock(c.Context(), orgID, userID, stock.ReturnInput{
		ServiceOrderItemID: in.ServiceOrderItemID,
		Quantity:           in.Quantity,
		ReserveAfterReturn: in.ReserveAfterReturn,
		Notes:              in.Notes,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// SetMinimum godoc
// @Summary      Fijar el umbral de reorden de un ítem
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Item ID"
// @Param        body  body  dto.SetMinimumRequest  true  "minimum_quantity"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/minimum [put]
func (h *StockHandler) SetMinimum(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SetMinimumRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.SetMinimumQuantity(c.Context(), orgID, c.Params("id"), in.MinimumQuantity)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// GetItem godoc
// @Summary      Obtener la proyección actual de un ítem de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) GetItem(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	item, err := h.uc.GetItem(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// ListItemMovements godoc
// @Summary      Ledger de un ítem de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Item ID"
// @Param        from    query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to      query  string  false  "Fecha final (RFC 3339)"
// @Param        limit   query  int     false  "Máximo de filas (default 20, max 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/movements [get]
func (h *StockHandler) ListItemMovements(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}
	list, err := h.uc.ListMovementsByItem(c.Context(), orgID, c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.ToMovementResponses(list)})
}

// ListOrderMovements godoc
// @Summary      Movimientos referidos a una orden de servicio
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Service Order ID"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/stock/orders/{id}/movements [get]
func (h *StockHandler) ListOrderMovements(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.uc.ListMovementsByServiceOrder(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.ToMovementResponses(list)})
}

// orderOp factoriza reservar/consumir/cancelar: mismo request, misma respuesta.
func (h *StockHandler) orderOp(
	c *fiber.Ctx,
	op func(ctx context.Context, orgID, userID string, in stock.OrderOpInput) (*entity.InventoryMovement, error),
) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.OrderOpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := op(c.Context(), orgID, userID, stock.OrderOpInput{
		ServiceOrderItemID: in.ServiceOrderItemID,
		Quantity:           in.Quantity,
		Notes:              in.Notes,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos: cantidad positiva e identificadores obligatorios"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la operación"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado; reintente la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
