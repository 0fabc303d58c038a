package stock_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/stock-api/internal/application/stock"
	"github.com/tallerpro/stock-api/internal/domain"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
	"github.com/tallerpro/stock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

func itemKey(orgID, partID, location string) string {
	return orgID + "|" + partID + "|" + location
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.InventoryItem // por ID
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*entity.InventoryItem{}}
}

func cloneItem(i *entity.InventoryItem) *entity.InventoryItem {
	c := *i
	return &c
}

func (r *fakeItemRepo) snapshot() map[string]*entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]*entity.InventoryItem, len(r.items))
	for id, it := range r.items {
		snap[id] = cloneItem(it)
	}
	return snap
}

func (r *fakeItemRepo) restore(snap map[string]*entity.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = snap
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if itemKey(it.OrgID, it.PartID, it.Location) == itemKey(item.OrgID, item.PartID, item.Location) {
			return domain.ErrDuplicate
		}
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, orgID, id string) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.OrgID != orgID {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *fakeItemRepo) GetByPartAndLocation(_ context.Context, orgID, partID, location string) (*entity.InventoryItem, error) {
	return r.findByKey(orgID, partID, location), nil
}

func (r *fakeItemRepo) GetForUpdate(_ context.Context, orgID, partID, location string) (*entity.InventoryItem, error) {
	return r.findByKey(orgID, partID, location), nil
}

func (r *fakeItemRepo) findByKey(orgID, partID, location string) *entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if itemKey(it.OrgID, it.PartID, it.Location) == itemKey(orgID, partID, location) {
			return cloneItem(it)
		}
	}
	return nil
}

func (r *fakeItemRepo) UpdateQuantities(_ context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *fakeItemRepo) UpdateMinimum(_ context.Context, item *entity.InventoryItem) error {
	return r.UpdateQuantities(context.Background(), item)
}

func (r *fakeItemRepo) ListByPart(_ context.Context, orgID, partID string) ([]*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range r.items {
		if it.OrgID == orgID && it.PartID == partID {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

func (r *fakeItemRepo) ListBelowMinimum(_ context.Context, orgID, location string) ([]repository.LowStockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.LowStockItem
	for _, it := range r.items {
		if it.OrgID != orgID || (location != "" && it.Location != location) {
			continue
		}
		if it.AvailableQuantity() <= it.MinimumQuantity {
			out = append(out, repository.LowStockItem{
				ItemID:   it.ID,
				PartID:   it.PartID,
				Location: it.Location,
				Quantity: it.Quantity,
				Reserved: it.ReservedQuantity,
				Minimum:  it.MinimumQuantity,
			})
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	mu   sync.Mutex
	movs []*entity.InventoryMovement
}

func (r *fakeMovementRepo) snapshot() []*entity.InventoryMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.InventoryMovement(nil), r.movs...)
}

func (r *fakeMovementRepo) restore(snap []*entity.InventoryMovement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movs = snap
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *m
	r.movs = append(r.movs, &c)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, orgID, id string) (*entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.OrgID == orgID && m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByItem(_ context.Context, orgID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InventoryMovement
	for _, m := range r.movs {
		if m.OrgID != orgID || m.ItemID != itemID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByServiceOrder(_ context.Context, orgID, serviceOrderID string) ([]*entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InventoryMovement
	for _, m := range r.movs {
		if m.OrgID == orgID && m.ServiceOrderID == serviceOrderID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

// fakeTxRunner simula atomicidad: ante error restaura el estado previo.
type fakeTxRunner struct {
	items *fakeItemRepo
	movs  *fakeMovementRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	itemsSnap := r.items.snapshot()
	movsSnap := r.movs.snapshot()
	if err := fn(r.items, r.movs); err != nil {
		r.items.restore(itemsSnap)
		r.movs.restore(movsSnap)
		return err
	}
	return nil
}

type fakePartRepo struct {
	parts map[string]*entity.Part
}

func (r *fakePartRepo) Create(_ context.Context, p *entity.Part) error {
	r.parts[p.ID] = p
	return nil
}

func (r *fakePartRepo) GetByID(_ context.Context, orgID, id string) (*entity.Part, error) {
	p, ok := r.parts[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	return p, nil
}

func (r *fakePartRepo) GetBySKU(_ context.Context, orgID, sku string) (*entity.Part, error) {
	for _, p := range r.parts {
		if p.OrgID == orgID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePartRepo) List(_ context.Context, orgID string, limit, offset int) ([]*entity.Part, error) {
	return nil, nil
}

func (r *fakePartRepo) Update(_ context.Context, p *entity.Part) error {
	r.parts[p.ID] = p
	return nil
}

type fakeOrderRepo struct {
	contexts map[string]*entity.OrderItemContext // por service_order_item_id
}

func (r *fakeOrderRepo) GetItemContext(_ context.Context, orgID, serviceOrderItemID string) (*entity.OrderItemContext, error) {
	octx, ok := r.contexts[serviceOrderItemID]
	if !ok || octx.OrgID != orgID {
		return nil, nil
	}
	return octx, nil
}

type fakeNotifier struct {
	alerts chan stock.LowStockAlert
}

func (n *fakeNotifier) SendLowStockAlert(_ context.Context, alert stock.LowStockAlert) error {
	n.alerts <- alert
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOrgID     = "00000000-0000-0000-0000-00000000aaaa"
	testUserID    = "00000000-0000-0000-0000-00000000bbbb"
	testVehicleID = "00000000-0000-0000-0000-00000000cccc"
	testClientID  = "00000000-0000-0000-0000-00000000dddd"
	testOrderID   = "00000000-0000-0000-0000-00000000eeee"
	testOrderItem = "00000000-0000-0000-0000-00000000ffff"
	testLocation  = "bodega-principal"
)

type engine struct {
	uc       *stock.UseCase
	items    *fakeItemRepo
	movs     *fakeMovementRepo
	notifier *fakeNotifier
	partID   string
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	items := newFakeItemRepo()
	movs := &fakeMovementRepo{}
	partID := uuid.New().String()
	parts := &fakePartRepo{parts: map[string]*entity.Part{
		partID: {
			ID:    partID,
			OrgID: testOrgID,
			SKU:   "FIL-001",
			Name:  "Filtro de aceite",
			Cost:  decimal.NewFromInt(20),
			Price: decimal.NewFromInt(35),
		},
	}}
	orders := &fakeOrderRepo{contexts: map[string]*entity.OrderItemContext{
		testOrderItem: {
			OrgID:              testOrgID,
			ServiceOrderItemID: testOrderItem,
			ServiceOrderID:     testOrderID,
			VehicleID:          testVehicleID,
			ClientID:           testClientID,
			PartID:             partID,
			Location:           testLocation,
		},
	}}
	notifier := &fakeNotifier{alerts: make(chan stock.LowStockAlert, 8)}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	trigger := stock.NewAlertTrigger(notifier, log, time.Second)

	txRunner := &fakeTxRunner{items: items, movs: movs}
	uc := stock.NewUseCase(txRunner, items, movs, parts, orders, trigger)
	return &engine{uc: uc, items: items, movs: movs, notifier: notifier, partID: partID}
}

func (e *engine) registerEntry(t *testing.T, qty int64) *entity.InventoryItem {
	t.Helper()
	item, _, err := e.uc.RegisterEntry(context.Background(), testOrgID, testUserID, stock.EntryInput{
		PartID:   e.partID,
		Location: testLocation,
		Quantity: qty,
	})
	require.NoError(t, err)
	return item
}

func (e *engine) currentItem(t *testing.T, id string) *entity.InventoryItem {
	t.Helper()
	item, err := e.items.GetByID(context.Background(), testOrgID, id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterEntry_CreaItemYEscribeLedger(t *testing.T) {
	e := newEngine(t)
	cost := decimal.NewFromInt(22)

	item, mov, err := e.uc.RegisterEntry(context.Background(), testOrgID, testUserID, stock.EntryInput{
		PartID:        e.partID,
		Location:      testLocation,
		Quantity:      10,
		UnitCost:      &cost,
		ReferenceCode: "FAC-123",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), item.Quantity)
	assert.Equal(t, int64(0), item.ReservedQuantity)
	assert.Equal(t, int64(10), item.AvailableQuantity())
	require.NotNil(t, item.UnitCost)
	assert.True(t, item.UnitCost.Equal(cost))

	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, int64(0), mov.ReservedChange)
	assert.Equal(t, "FAC-123", mov.ReferenceCode)
	assert.Equal(t, testUserID, mov.CreatedBy)
}

func TestRegisterEntry_AcumulaSobreItemExistente(t *testing.T) {
	e := newEngine(t)
	first := e.registerEntry(t, 10)
	second := e.registerEntry(t, 5)

	assert.Equal(t, first.ID, second.ID, "la segunda entrada debe reutilizar el mismo ítem")
	assert.Equal(t, int64(15), second.Quantity)
	assert.Len(t, e.movs.snapshot(), 2, "cada entrada escribe su propio movimiento")
}

func TestRegisterEntry_RechazaCantidadNoPositiva(t *testing.T) {
	e := newEngine(t)
	for _, qty := range []int64{0, -3} {
		_, _, err := e.uc.RegisterEntry(context.Background(), testOrgID, testUserID, stock.EntryInput{
			PartID:   e.partID,
			Location: testLocation,
			Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, e.movs.snapshot(), "una entrada rechazada no escribe en el ledger")
}

func TestRegisterEntry_RepuestoInexistente(t *testing.T) {
	e := newEngine(t)
	_, _, err := e.uc.RegisterEntry(context.Background(), testOrgID, testUserID, stock.EntryInput{
		PartID:   uuid.New().String(),
		Location: testLocation,
		Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservar / Consumir / Cancelar / Devolver
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveStock_ComprometeDisponible(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)

	mov, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           4,
	})
	require.NoError(t, err)

	current := e.currentItem(t, item.ID)
	assert.Equal(t, int64(10), current.Quantity, "reservar no toca el stock físico")
	assert.Equal(t, int64(4), current.ReservedQuantity)
	assert.Equal(t, int64(6), current.AvailableQuantity())

	assert.Equal(t, entity.MovementTypeADJUST, mov.Type)
	assert.Equal(t, int64(4), mov.Quantity)
	assert.Equal(t, int64(4), mov.ReservedChange)
	assert.Equal(t, testOrderID, mov.ServiceOrderID)
	assert.Equal(t, testOrderItem, mov.ServiceOrderItemID)
	assert.Equal(t, testVehicleID, mov.VehicleID)
}

func TestReserveStock_InsuficienteNoMutaNada(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 3)
	before := e.currentItem(t, item.ID)
	ledgerBefore := len(e.movs.snapshot())

	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	after := e.currentItem(t, item.ID)
	assert.Equal(t, before.Quantity, after.Quantity)
	assert.Equal(t, before.ReservedQuantity, after.ReservedQuantity)
	assert.Len(t, e.movs.snapshot(), ledgerBefore, "un fallo no deja rastro en el ledger")
}

func TestConsumeStock_RequiereReservaPrevia(t *testing.T) {
	e := newEngine(t)
	e.registerEntry(t, 10)

	// Sin reserva previa: aunque hay stock físico, consumir debe fallar.
	_, err := e.uc.ConsumeStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           2,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestConsumeStock_DescuentaFisicoYReserva(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           4,
	})
	require.NoError(t, err)

	mov, err := e.uc.ConsumeStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           3,
	})
	require.NoError(t, err)

	current := e.currentItem(t, item.ID)
	assert.Equal(t, int64(7), current.Quantity)
	assert.Equal(t, int64(1), current.ReservedQuantity)
	assert.Equal(t, int64(6), current.AvailableQuantity())

	assert.Equal(t, entity.MovementTypeOUT, mov.Type)
	assert.Equal(t, int64(3), mov.Quantity, "la cantidad del ledger siempre es positiva")
	assert.Equal(t, int64(-3), mov.ReservedChange)
}

func TestCancelReservation_RoundTripRestauraEstado(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	before := e.currentItem(t, item.ID)

	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           5,
	})
	require.NoError(t, err)
	mov, err := e.uc.CancelReservation(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           5,
	})
	require.NoError(t, err)

	after := e.currentItem(t, item.ID)
	assert.Equal(t, before.Quantity, after.Quantity)
	assert.Equal(t, before.ReservedQuantity, after.ReservedQuantity)

	assert.Equal(t, entity.MovementTypeADJUST, mov.Type)
	assert.Equal(t, int64(-5), mov.ReservedChange)
}

func TestCancelReservation_MasDeLoReservadoFalla(t *testing.T) {
	e := newEngine(t)
	e.registerEntry(t, 10)
	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           2,
	})
	require.NoError(t, err)

	_, err = e.uc.CancelReservation(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReturnToStock_SinReReserva(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)

	mov, err := e.uc.ReturnToStock(context.Background(), testOrgID, testUserID, stock.ReturnInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           2,
	})
	require.NoError(t, err)

	current := e.currentItem(t, item.ID)
	assert.Equal(t, int64(12), current.Quantity)
	assert.Equal(t, int64(0), current.ReservedQuantity)
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, int64(0), mov.ReservedChange)
}

func TestReturnToStock_ConReReserva(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)

	mov, err := e.uc.ReturnToStock(context.Background(), testOrgID, testUserID, stock.ReturnInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           2,
		ReserveAfterReturn: true,
	})
	require.NoError(t, err)

	current := e.currentItem(t, item.ID)
	assert.Equal(t, int64(12), current.Quantity)
	assert.Equal(t, int64(2), current.ReservedQuantity, "la devolución queda reservada para la misma orden")
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, int64(2), mov.ReservedChange)
}

func TestOrderOp_ItemDeOrdenInexistente(t *testing.T) {
	e := newEngine(t)
	e.registerEntry(t, 10)

	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: uuid.New().String(),
		Quantity:           1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderOp_SinStockRegistradoNoResucita(t *testing.T) {
	// La orden existe pero nunca hubo entrada de stock para (repuesto, ubicación).
	e := newEngine(t)
	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, e.movs.snapshot())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

// El ledger debe permitir reconstruir la proyección: replegar los movimientos
// en orden produce exactamente quantity y reserved_quantity actuales.
func TestLedger_ReconstruyeProyeccion(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 20)
	ctx := context.Background()

	ops := []func() error{
		func() error {
			_, err := e.uc.ReserveStock(ctx, testOrgID, testUserID, stock.OrderOpInput{ServiceOrderItemID: testOrderItem, Quantity: 8})
			return err
		},
		func() error {
			_, err := e.uc.ConsumeStock(ctx, testOrgID, testUserID, stock.OrderOpInput{ServiceOrderItemID: testOrderItem, Quantity: 5})
			return err
		},
		func() error {
			_, err := e.uc.CancelReservation(ctx, testOrgID, testUserID, stock.OrderOpInput{ServiceOrderItemID: testOrderItem, Quantity: 2})
			return err
		},
		func() error {
			_, err := e.uc.ReturnToStock(ctx, testOrgID, testUserID, stock.ReturnInput{ServiceOrderItemID: testOrderItem, Quantity: 1, ReserveAfterReturn: true})
			return err
		},
		func() error {
			_, _, err := e.uc.RegisterEntry(ctx, testOrgID, testUserID, stock.EntryInput{PartID: e.partID, Location: testLocation, Quantity: 6})
			return err
		},
	}
	for _, op := range ops {
		require.NoError(t, op())
	}

	var quantity, reserved int64
	for _, m := range e.movs.snapshot() {
		require.Positive(t, m.Quantity, "el ledger nunca registra cantidades negativas")
		switch m.Type {
		case entity.MovementTypeIN:
			quantity += m.Quantity
		case entity.MovementTypeOUT:
			quantity -= m.Quantity
		case entity.MovementTypeADJUST:
			// Solo mueve reserva.
		default:
			t.Fatalf("tipo de movimiento desconocido: %s", m.Type)
		}
		reserved += m.ReservedChange
	}

	current := e.currentItem(t, item.ID)
	assert.Equal(t, current.Quantity, quantity, "la proyección debe igualar el repliegue del ledger")
	assert.Equal(t, current.ReservedQuantity, reserved)
	assert.True(t, current.CheckInvariant())
}

func TestListMovementsByServiceOrder_SoloLosDeLaOrden(t *testing.T) {
	e := newEngine(t)
	e.registerEntry(t, 10) // sin orden asociada
	_, err := e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           3,
	})
	require.NoError(t, err)

	list, err := e.uc.ListMovementsByServiceOrder(context.Background(), testOrgID, testOrderID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, testOrderID, list[0].ServiceOrderID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Umbral de reorden y alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestSetMinimumQuantity_NoGeneraMovimiento(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	ledgerBefore := len(e.movs.snapshot())

	updated, err := e.uc.SetMinimumQuantity(context.Background(), testOrgID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.MinimumQuantity)
	assert.Len(t, e.movs.snapshot(), ledgerBefore, "configurar el mínimo no es un movimiento de stock")
}

func TestSetMinimumQuantity_RechazaNegativo(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	_, err := e.uc.SetMinimumQuantity(context.Background(), testOrgID, item.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAlerta_DisparaCuandoDisponibleQuedaBajoMinimo(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	_, err := e.uc.SetMinimumQuantity(context.Background(), testOrgID, item.ID, 5)
	require.NoError(t, err)

	// Reservar 6 deja disponible en 4 (<= mínimo 5): debe alertar.
	_, err = e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           6,
	})
	require.NoError(t, err)

	select {
	case alert := <-e.notifier.alerts:
		assert.Equal(t, item.ID, alert.ItemID)
		assert.Equal(t, int64(4), alert.Available)
		assert.Equal(t, int64(5), alert.Minimum)
		assert.Equal(t, "FIL-001", alert.SKU)
	case <-time.After(2 * time.Second):
		t.Fatal("la alerta de stock bajo nunca llegó al notificador")
	}
}

func TestAlerta_NoDisparaSobreMinimo(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	_, err := e.uc.SetMinimumQuantity(context.Background(), testOrgID, item.ID, 2)
	require.NoError(t, err)

	_, err = e.uc.ReserveStock(context.Background(), testOrgID, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           3, // disponible queda en 7, sobre el mínimo
	})
	require.NoError(t, err)

	select {
	case alert := <-e.notifier.alerts:
		t.Fatalf("no debía alertarse: %+v", alert)
	case <-time.After(150 * time.Millisecond):
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre organizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestOrgAislamiento_OtraOrgNoVeElStock(t *testing.T) {
	e := newEngine(t)
	item := e.registerEntry(t, 10)
	otherOrg := strings.Replace(testOrgID, "aaaa", "9999", 1)

	_, err := e.uc.GetItem(context.Background(), otherOrg, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.ReserveStock(context.Background(), otherOrg, testUserID, stock.OrderOpInput{
		ServiceOrderItemID: testOrderItem,
		Quantity:           1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el contexto de orden pertenece a otra organización")
}
