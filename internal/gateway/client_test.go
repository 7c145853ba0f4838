package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testForm() order.Form {
	f := order.NewForm()
	f.Marketplace = "ozon"
	f.Warehouse = "3"
	f.ToggleKind(order.KindBox)
	f.Quantities[order.KindBox] = 3
	f.BoxSize = "40x40x60"
	f.ContainerType = "40x40x60"
	f.ClientName = "Иван Петров"
	f.PhoneNumber = "+79990001122"
	return f
}

func TestBuildOrderRequest(t *testing.T) {
	f := testForm()
	req := BuildOrderRequest(f, TelegramData{UserID: 42, Username: "ivan"})

	assert.Equal(t, "3", req.Delivery.WarehouseID)
	assert.Equal(t, "ozon", req.Delivery.Marketplace)
	assert.Equal(t, "box", req.Cargo.CargoType)
	assert.Equal(t, 3, req.Cargo.BoxCount)
	assert.Equal(t, "40x40x60", req.Cargo.BoxContainerType)
	assert.Zero(t, req.Cargo.PalletCount)
	assert.Empty(t, req.Cargo.PalletContainerType)
	assert.Equal(t, CargoDimensions{}, req.Cargo.Dimensions,
		"габариты уходят только при «Другом размере»")
	assert.Equal(t, "Иван Петров", req.Client.Name)
	assert.NotNil(t, req.AdditionalServices)
	assert.Equal(t, int64(42), req.TelegramData.UserID)
}

func TestBuildOrderRequestCustomDims(t *testing.T) {
	f := testForm()
	f.BoxSize = order.SizeCustom
	f.ContainerType = ""
	f.CustomBoxSize = order.Dimensions{Length: "60", Width: "40", Height: "40"}

	req := BuildOrderRequest(f, TelegramData{})

	assert.Equal(t, order.SizeCustom, req.Cargo.BoxContainerType)
	assert.Equal(t, "60", req.Cargo.Dimensions.Length)
	assert.Equal(t, "40", req.Cargo.Dimensions.Width)
	assert.Equal(t, "40", req.Cargo.Dimensions.Height)
}

func TestBuildPriceRequestBoth(t *testing.T) {
	f := testForm()
	f.ToggleKind(order.KindPallet)
	f.Quantities[order.KindPallet] = 2
	f.PalletWeight = order.WeightCustom
	f.CustomPalletWeight = "750"

	req := BuildPriceRequest(f)

	assert.Equal(t, "both", req.Cargo.CargoType)
	assert.Equal(t, 2, req.Cargo.PalletCount)
	assert.Equal(t, order.WeightCustom, req.Cargo.PalletContainerType)
	assert.Equal(t, "750", req.Cargo.Dimensions.Weight)
}

func TestCalculatePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/calculate-price/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req PriceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ozon", req.Delivery.Marketplace)

		_ = json.NewEncoder(w).Encode(PriceResponse{
			TotalPrice: "1500.00",
			Currency:   "RUB",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, testLogger())
	resp, err := c.CalculatePrice(context.Background(), testForm())
	require.NoError(t, err)
	assert.Equal(t, "1500.00", resp.TotalPrice)
	assert.Equal(t, "RUB", resp.Currency)
}

func TestCreateOrderErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Адрес забора не указан"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, testLogger())
	_, err := c.CreateOrder(context.Background(), testForm(), TelegramData{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.True(t, IsAddressMissing(err))
}

func TestIsAddressMissing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"структурированный код", &APIError{Status: 400, Code: "pickup_address_required", Message: "bad request"}, true},
		{"подстрока в сообщении", &APIError{Status: 400, Message: "Не указан АДРЕС забора груза"}, true},
		{"другая ошибка API", &APIError{Status: 500, Message: "internal error"}, false},
		{"не APIError", errors.New("адрес не указан"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAddressMissing(tt.err))
		})
	}
}

func TestAdditionalServicesDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/additional_services/", r.URL.Path)
		_, _ = w.Write([]byte(`{"serviceGroups":[{"title":"Забор","services":[
			{"id":7,"name":"Забор груза","price":"500 ₽","requires_location":true},
			{"id":"wrap","name":"Упаковка","price":""}]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, testLogger())
	groups, err := c.AdditionalServices(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Services, 2)
	// id приходит то числом, то строкой
	assert.Equal(t, ServiceID("7"), groups[0].Services[0].ID)
	assert.True(t, groups[0].Services[0].RequiresLocation)
	assert.Equal(t, ServiceID("wrap"), groups[0].Services[1].ID)
	assert.False(t, groups[0].Services[1].RequiresLocation)
}

func TestWarehouseHelpers(t *testing.T) {
	list := []Warehouse{
		{ID: 1, CityName: "Москва", Name: "Хоругвино", Marketplace: "ozon"},
		{ID: 2, Name: "Коледино", Marketplace: "wildberries"},
	}
	assert.Equal(t, "Москва — Хоругвино", WarehouseLabel(list[0]))
	assert.Equal(t, "Коледино", WarehouseLabel(list[1]))

	w := FindWarehouse(list, "2")
	require.NotNil(t, w)
	assert.Equal(t, "Коледино", w.Name)
	assert.Nil(t, FindWarehouse(list, "99"))
}
