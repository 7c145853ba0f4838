package order

import (
	"testing"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCargoKind(t *testing.T) {
	tests := []struct {
		name  string
		kinds []string
		want  string
	}{
		{"только коробки", []string{KindBox}, "box"},
		{"только паллеты", []string{KindPallet}, "pallet"},
		{"коробки и паллеты", []string{KindBox, KindPallet}, "both"},
		{"ничего не выбрано", nil, "box"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm()
			f.SelectedTypes = tt.kinds
			assert.Equal(t, tt.want, f.CargoKind())
		})
	}
}

func TestToggleKindClearsParams(t *testing.T) {
	f := NewForm()
	f.ToggleKind(KindBox)
	f.Quantities[KindBox] = 5
	f.BoxSize = SizeCustom
	f.CustomBoxSize = Dimensions{Length: "60", Width: "40", Height: "40"}

	f.ToggleKind(KindBox)

	assert.False(t, f.HasKind(KindBox))
	assert.Zero(t, f.Quantities[KindBox])
	assert.Empty(t, f.BoxSize)
	assert.Equal(t, Dimensions{}, f.CustomBoxSize)
}

func TestToggleKindClearsPalletWeight(t *testing.T) {
	f := NewForm()
	f.ToggleKind(KindPallet)
	f.Quantities[KindPallet] = 2
	f.PalletWeight = WeightCustom
	f.CustomPalletWeight = "750"

	f.ToggleKind(KindPallet)

	assert.False(t, f.HasKind(KindPallet))
	assert.Empty(t, f.PalletWeight)
	assert.Empty(t, f.CustomPalletWeight)
}

func TestToggleService(t *testing.T) {
	f := NewForm()
	f.ToggleService("12")
	assert.True(t, f.HasService("12"))
	f.ToggleService("12")
	assert.False(t, f.HasService("12"))
}

func TestFormPayloadRoundTrip(t *testing.T) {
	f := NewForm()
	f.Marketplace = "ozon"
	f.Warehouse = "3"
	f.ToggleKind(KindBox)
	f.Quantities[KindBox] = 7
	f.BoxSize = "40x40x60"
	f.ContainerType = "40x40x60"
	f.ClientName = "Иван"

	p := dialog.Payload{}
	f.ToPayload(p)
	got := FromPayload(p)

	require.Equal(t, f, got)
	// количества обязаны пережить сериализацию как int
	assert.Equal(t, 7, got.Quantities[KindBox])
}

func TestFromPayloadEmpty(t *testing.T) {
	got := FromPayload(dialog.Payload{})
	assert.NotNil(t, got.Quantities)
	assert.Empty(t, got.SelectedTypes)
}
