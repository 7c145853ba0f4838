package bot

import (
	"testing"

	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDims(t *testing.T) {
	tests := []struct {
		in   string
		want order.Dimensions
		ok   bool
	}{
		{"60x40x40", order.Dimensions{Length: "60", Width: "40", Height: "40"}, true},
		{"60х40х40", order.Dimensions{Length: "60", Width: "40", Height: "40"}, true}, // кириллическая х
		{"60*40*40", order.Dimensions{Length: "60", Width: "40", Height: "40"}, true},
		{" 60 x 40,5 x 40 ", order.Dimensions{Length: "60", Width: "40.5", Height: "40"}, true},
		{"60x40", order.Dimensions{}, false},
		{"60x40x0.5", order.Dimensions{}, false},
		{"60x40xабв", order.Dimensions{}, false},
		{"", order.Dimensions{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDims(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMarketplacesDedupe(t *testing.T) {
	wares := []gateway.Warehouse{
		{ID: 1, Marketplace: "wildberries", MarketplaceName: "Wildberries"},
		{ID: 2, Marketplace: "ozon", MarketplaceName: "Ozon"},
		{ID: 3, Marketplace: "wildberries", MarketplaceName: "Wildberries"},
		{ID: 4, Marketplace: ""},
	}
	mps := marketplaces(wares)
	require.Len(t, mps, 2)
	assert.Equal(t, "wildberries", mps[0].Marketplace)
	assert.Equal(t, "ozon", mps[1].Marketplace)
}

func TestQtyLabel(t *testing.T) {
	f := order.NewForm()
	assert.Equal(t, "не указано", qtyLabel(f, order.KindBox))
	f.Quantities[order.KindBox] = 4
	assert.Equal(t, "4 шт", qtyLabel(f, order.KindBox))
}

func TestLocationRequiredMap(t *testing.T) {
	groups := []gateway.ServiceGroup{{
		Title: "Забор",
		Services: []gateway.Service{
			{ID: "7", Name: "Забор груза", RequiresLocation: true},
			{ID: "8", Name: "Упаковка"},
		},
	}}
	m := locationRequiredMap(groups)
	assert.True(t, m["7"])
	assert.False(t, m["8"])
}

func TestRequiredMissing(t *testing.T) {
	f := order.NewForm()
	missing := requiredMissing(f)
	assert.Equal(t, []string{"склад назначения", "тип груза", "номер телефона", "имя клиента"}, missing)

	f.Marketplace = "ozon"
	f.Warehouse = "3"
	f.ToggleKind(order.KindBox)
	f.PhoneNumber = "+79990001122"
	f.ClientName = "Иван"
	assert.Empty(t, requiredMissing(f))
}
