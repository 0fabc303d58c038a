package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tallerpro/stock-api/internal/domain/entity"
)

func TestInventoryItem_AvailableQuantity(t *testing.T) {
	item := entity.InventoryItem{Quantity: 10, ReservedQuantity: 3}
	assert.Equal(t, int64(7), item.AvailableQuantity())
}

func TestInventoryItem_BelowMinimum(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		reserved int64
		minimum  int64
		want     bool
	}{
		{"disponible sobre el mínimo", 10, 2, 5, false},
		{"disponible exactamente en el mínimo", 10, 5, 5, true},
		{"disponible bajo el mínimo", 10, 8, 5, true},
		{"sin mínimo configurado y con stock", 10, 0, 0, false},
		{"sin mínimo configurado y sin disponible", 5, 5, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := entity.InventoryItem{
				Quantity:         tc.quantity,
				ReservedQuantity: tc.reserved,
				MinimumQuantity:  tc.minimum,
			}
			assert.Equal(t, tc.want, item.BelowMinimum())
		})
	}
}

func TestInventoryItem_CheckInvariant(t *testing.T) {
	assert.True(t, (&entity.InventoryItem{Quantity: 5, ReservedQuantity: 5}).CheckInvariant())
	assert.True(t, (&entity.InventoryItem{Quantity: 5, ReservedQuantity: 0}).CheckInvariant())
	assert.False(t, (&entity.InventoryItem{Quantity: 5, ReservedQuantity: 6}).CheckInvariant())
	assert.False(t, (&entity.InventoryItem{Quantity: 5, ReservedQuantity: -1}).CheckInvariant())
}
