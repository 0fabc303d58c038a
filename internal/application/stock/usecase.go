package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/domain"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// UseCase es el motor de reservas: el único componente que muta InventoryItem.
// Cada operación corre como una transacción por fila (SELECT FOR UPDATE vía
// GetForUpdate) y escribe exactamente una entrada en el ledger. Cualquier
// error garantiza cero cambio de estado.
//
// El orgID viaja explícito en cada llamada; no hay contexto de tenant
// ambiente.
type UseCase struct {
	txRunner  TxRunner
	itemRepo  repository.InventoryItemRepository
	movRepo   repository.InventoryMovementRepository
	partRepo  repository.PartRepository
	orderRepo repository.ServiceOrderRepository
	alerts    *AlertTrigger
}

// NewUseCase construye el motor de reservas.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	partRepo repository.PartRepository,
	orderRepo repository.ServiceOrderRepository,
	alerts *AlertTrigger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		movRepo:   movRepo,
		partRepo:  partRepo,
		orderRepo: orderRepo,
		alerts:    alerts,
	}
}

// EntryInput entrada para RegisterEntry.
type EntryInput struct {
	PartID        string
	Location      string
	Quantity      int64
	UnitCost      *decimal.Decimal
	SalePrice     *decimal.Decimal
	ReferenceCode string
	Notes         string
}

// OrderOpInput entrada para operaciones ancladas a un ítem de orden de servicio.
type OrderOpInput struct {
	ServiceOrderItemID string
	Quantity           int64
	Notes              string
}

// ReturnInput entrada para ReturnToStock.
type ReturnInput struct {
	ServiceOrderItemID string
	Quantity           int64
	ReserveAfterReturn bool // true: la devolución queda reservada para la misma orden
	Notes              string
}

// RegisterEntry registra una entrada física de stock para (repuesto, ubicación),
// creando el InventoryItem si es la primera vez. Suma Quantity y escribe un
// movimiento IN con ReservedChange 0.
//
// Si dos entradas concurrentes crean la misma pareja (part, location), la
// segunda recibe domain.ErrDuplicate por el constraint único y puede reintentar.
func (uc *UseCase) RegisterEntry(ctx context.Context, orgID, userID string, in EntryInput) (*entity.InventoryItem, *entity.InventoryMovement, error) {
	if in.Quantity <= 0 || in.PartID == "" || in.Location == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, nil, domain.ErrInvalidInput
	}
	part, err := uc.partRepo.GetByID(ctx, orgID, in.PartID)
	if err != nil {
		return nil, nil, err
	}
	if part == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	var (
		item *entity.InventoryItem
		mov  *entity.InventoryMovement
	)
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		// Bloquea la fila si existe; si no, la crea dentro de la misma tx.
		item, err = itemRepo.GetForUpdate(ctx, orgID, in.PartID, in.Location)
		if err != nil {
			return err
		}
		if item == nil {
			item = &entity.InventoryItem{
				ID:        uuid.New().String(),
				OrgID:     orgID,
				PartID:    in.PartID,
				Location:  in.Location,
				UnitCost:  in.UnitCost,
				SalePrice: in.SalePrice,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := itemRepo.Create(ctx, item); err != nil {
				return err
			}
		}
		item.Quantity += in.Quantity
		if in.UnitCost != nil {
			item.UnitCost = in.UnitCost
		}
		if in.SalePrice != nil {
			item.SalePrice = in.SalePrice
		}
		item.UpdatedAt = now
		if err := itemRepo.UpdateQuantities(ctx, item); err != nil {
			return err
		}
		mov = &entity.InventoryMovement{
			ID:            uuid.New().String(),
			OrgID:         orgID,
			ItemID:        item.ID,
			PartID:        in.PartID,
			Type:          entity.MovementTypeIN,
			Quantity:      in.Quantity,
			ReferenceCode: in.ReferenceCode,
			Notes:         in.Notes,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, nil, err
	}
	uc.alerts.Evaluate(item, part)
	return item, mov, nil
}

// ReserveStock compromete unidades disponibles a un ítem de orden de servicio.
// Falla con ErrInsufficientStock si disponible < solicitado, sin mutar nada.
// Escribe un movimiento ADJUST con ReservedChange +qty.
func (uc *UseCase) ReserveStock(ctx context.Context, orgID, userID string, in OrderOpInput) (*entity.InventoryMovement, error) {
	return uc.runOrderOp(ctx, orgID, userID, in.ServiceOrderItemID, in.Quantity, in.Notes,
		func(item *entity.InventoryItem, qty int64) (string, int64, error) {
			if item.AvailableQuantity() < qty {
				return "", 0, domain.ErrInsufficientStock
			}
			item.ReservedQuantity += qty
			return entity.MovementTypeADJUST, qty, nil
		})
}

// ConsumeStock consume unidades previamente reservadas: salen de la reserva y
// del stock físico en el mismo paso. Consumir stock sin reservar no es un
// camino soportado; el caller debe reservar primero. Movimiento OUT con
// ReservedChange -qty.
func (uc *UseCase) ConsumeStock(ctx context.Context, orgID, userID string, in OrderOpInput) (*entity.InventoryMovement, error) {
	return uc.runOrderOp(ctx, orgID, userID, in.ServiceOrderItemID, in.Quantity, in.Notes,
		func(item *entity.InventoryItem, qty int64) (string, int64, error) {
			if item.ReservedQuantity < qty {
				return "", 0, domain.ErrInsufficientStock
			}
			item.Quantity -= qty
			item.ReservedQuantity -= qty
			return entity.MovementTypeOUT, -qty, nil
		})
}

// CancelReservation libera unidades reservadas sin tocar el stock físico.
// Movimiento ADJUST con ReservedChange -qty.
func (uc *UseCase) CancelReservation(ctx context.Context, orgID, userID string, in OrderOpInput) (*entity.InventoryMovement, error) {
	return uc.runOrderOp(ctx, orgID, userID, in.ServiceOrderItemID, in.Quantity, in.Notes,
		func(item *entity.InventoryItem, qty int64) (string, int64, error) {
			if item.ReservedQuantity < qty {
				return "", 0, domain.ErrInsufficientStock
			}
			item.ReservedQuantity -= qty
			return entity.MovementTypeADJUST, -qty, nil
		})
}

// ReturnToStock reingresa unidades al stock físico. Con ReserveAfterReturn la
// devolución queda reservada de inmediato para la misma orden. Un único
// movimiento IN con ReservedChange qty o 0.
func (uc *UseCase) ReturnToStock(ctx context.Context, orgID, userID string, in ReturnInput) (*entity.InventoryMovement, error) {
	return uc.runOrderOp(ctx, orgID, userID, in.ServiceOrderItemID, in.Quantity, in.Notes,
		func(item *entity.InventoryItem, qty int64) (string, int64, error) {
			item.Quantity += qty
			reservedChange := int64(0)
			if in.ReserveAfterReturn {
				item.ReservedQuantity += qty
				reservedChange = qty
			}
			return entity.MovementTypeIN, reservedChange, nil
		})
}

// runOrderOp factoriza el ciclo común de las operaciones ancladas a orden:
// validar cantidad, resolver contexto del ítem de orden, bloquear la fila de
// stock, aplicar el cambio y escribir el movimiento — todo en una transacción.
func (uc *UseCase) runOrderOp(
	ctx context.Context,
	orgID, userID, serviceOrderItemID string,
	qty int64,
	notes string,
	apply func(item *entity.InventoryItem, qty int64) (movType string, reservedChange int64, err error),
) (*entity.InventoryMovement, error) {
	if qty <= 0 || serviceOrderItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	octx, err := uc.orderRepo.GetItemContext(ctx, orgID, serviceOrderItemID)
	if err != nil {
		return nil, err
	}
	if octx == nil {
		return nil, domain.ErrNotFound
	}
	part, err := uc.partRepo.GetByID(ctx, orgID, octx.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var (
		item *entity.InventoryItem
		mov  *entity.InventoryMovement
	)
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		item, err = itemRepo.GetForUpdate(ctx, orgID, octx.PartID, octx.Location)
		if err != nil {
			return err
		}
		if item == nil {
			// Ítem nunca registrado o borrado administrativamente: la
			// operación falla; el registro no se resucita implícitamente.
			return domain.ErrNotFound
		}
		movType, reservedChange, err := apply(item, qty)
		if err != nil {
			return err
		}
		item.UpdatedAt = now
		if err := itemRepo.UpdateQuantities(ctx, item); err != nil {
			return err
		}
		mov = &entity.InventoryMovement{
			ID:                 uuid.New().String(),
			OrgID:              orgID,
			ItemID:             item.ID,
			PartID:             octx.PartID,
			Type:               movType,
			Quantity:           qty,
			ReservedChange:     reservedChange,
			ServiceOrderID:     octx.ServiceOrderID,
			ServiceOrderItemID: serviceOrderItemID,
			VehicleID:          octx.VehicleID,
			Notes:              notes,
			CreatedAt:          now,
			CreatedBy:          userID,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.alerts.Evaluate(item, part)
	return mov, nil
}

// SetMinimumQuantity fija el umbral de reorden de un ítem. No genera
// movimiento: el ledger reconstruye cantidades, no configuración.
func (uc *UseCase) SetMinimumQuantity(ctx context.Context, orgID, itemID string, minimum int64) (*entity.InventoryItem, error) {
	if minimum < 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.MinimumQuantity = minimum
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.UpdateMinimum(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem obtiene la proyección actual de un ítem de stock.
func (uc *UseCase) GetItem(ctx context.Context, orgID, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListMovementsByItem lista el ledger de un ítem, más reciente primero.
func (uc *UseCase) ListMovementsByItem(ctx context.Context, orgID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.ListByItem(ctx, orgID, itemID, from, to, limit, offset)
}

// ListMovementsByServiceOrder lista los movimientos referidos a una orden.
func (uc *UseCase) ListMovementsByServiceOrder(ctx context.Context, orgID, serviceOrderID string) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.ListByServiceOrder(ctx, orgID, serviceOrderID)
}
