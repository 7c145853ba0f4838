package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cargoForm(kinds ...string) Form {
	f := NewForm()
	for _, k := range kinds {
		f.ToggleKind(k)
	}
	return f
}

func TestValidateDelivery(t *testing.T) {
	f := NewForm()
	errs := ValidateDelivery(f)
	assert.Contains(t, errs, "marketplace")
	assert.Contains(t, errs, "warehouse")

	f.Marketplace = "ozon"
	f.Warehouse = "3"
	assert.True(t, ValidateDelivery(f).OK())
}

func TestValidateCargoRequiresKind(t *testing.T) {
	errs := ValidateCargo(NewForm())
	assert.Contains(t, errs, "selected_types")
}

func TestValidateCargoQuantity(t *testing.T) {
	f := cargoForm(KindBox)
	f.BoxSize = "40x40x60"

	errs := ValidateCargo(f)
	assert.Contains(t, errs, "quantity_"+KindBox)

	f.Quantities[KindBox] = 1
	errs = ValidateCargo(f)
	assert.NotContains(t, errs, "quantity_"+KindBox)
}

func TestValidateCargoBoxSize(t *testing.T) {
	f := cargoForm(KindBox)
	f.Quantities[KindBox] = 3

	errs := ValidateCargo(f)
	assert.Contains(t, errs, "box_size")

	f.BoxSize = SizeCustom
	errs = ValidateCargo(f)
	assert.Contains(t, errs, "custom_box_size")

	f.CustomBoxSize = Dimensions{Length: "60", Width: "40", Height: "0.5"}
	errs = ValidateCargo(f)
	assert.Contains(t, errs, "custom_box_size")

	f.CustomBoxSize = Dimensions{Length: "60", Width: "40", Height: "40"}
	errs = ValidateCargo(f)
	assert.True(t, errs.OK(), "ошибки: %v", errs)
}

func TestValidateCargoPalletWeight(t *testing.T) {
	f := cargoForm(KindPallet)
	f.Quantities[KindPallet] = 1

	errs := ValidateCargo(f)
	assert.Contains(t, errs, "pallet_weight")

	f.PalletWeight = WeightCustom
	for _, w := range []string{"", "499", "1001", "abc"} {
		f.CustomPalletWeight = w
		errs = ValidateCargo(f)
		assert.Contains(t, errs, "custom_pallet_weight", "вес %q должен быть отклонён", w)
	}
	for _, w := range []string{"500", "750.5", "1000"} {
		f.CustomPalletWeight = w
		errs = ValidateCargo(f)
		assert.True(t, errs.OK(), "вес %q должен быть принят: %v", w, errs)
	}
}

func TestValidateServicesPickupAddress(t *testing.T) {
	locReq := map[string]bool{"7": true}

	f := NewForm()
	assert.True(t, ValidateServices(f, locReq).OK())

	f.ToggleService("7")
	errs := ValidateServices(f, locReq)
	assert.Contains(t, errs, "pickup_address")

	f.PickupAddress = "Москва, ул. Ленина, 1"
	assert.True(t, ValidateServices(f, locReq).OK())

	// услуга без требования локации адреса не требует
	f2 := NewForm()
	f2.ToggleService("8")
	assert.True(t, ValidateServices(f2, locReq).OK())
}

func TestClearAddressUnlessNeeded(t *testing.T) {
	locReq := map[string]bool{"7": true}

	f := NewForm()
	f.ToggleService("7")
	f.PickupAddress = "Москва, ул. Ленина, 1"

	// услуга без требования локации на адрес не влияет
	f.ToggleService("8")
	f.ClearAddressUnlessNeeded(locReq)
	assert.Equal(t, "Москва, ул. Ленина, 1", f.PickupAddress)

	// снята последняя услуга с локацией — адрес чистится
	f.ToggleService("7")
	f.ClearAddressUnlessNeeded(locReq)
	assert.Empty(t, f.PickupAddress)
}

func TestValidateClient(t *testing.T) {
	f := NewForm()
	errs := ValidateClient(f)
	assert.Contains(t, errs, "client_name")
	assert.Contains(t, errs, "phone")

	f.ClientName = "Иван"
	f.PhoneNumber = "+79990001122"
	f.Email = "not-an-email"
	errs = ValidateClient(f)
	assert.Contains(t, errs, "email")

	f.Email = "ivan@example.com"
	assert.True(t, ValidateClient(f).OK())

	f.Email = ""
	assert.True(t, ValidateClient(f).OK(), "пустой email допустим")
}

func TestCanCalculatePrice(t *testing.T) {
	f := NewForm()
	assert.False(t, CanCalculatePrice(f))

	f.Marketplace = "wildberries"
	f.Warehouse = "1"
	assert.False(t, CanCalculatePrice(f), "без типа груза расчёт не запускаем")

	f.ToggleKind(KindBox)
	assert.False(t, CanCalculatePrice(f), "без количества расчёт не запускаем")

	f.Quantities[KindBox] = 2
	assert.True(t, CanCalculatePrice(f))

	f.Warehouse = ""
	assert.False(t, CanCalculatePrice(f))
}

func TestFieldErrorsMessagesOrder(t *testing.T) {
	errs := FieldErrors{"b": "второе", "a": "первое"}
	got := errs.Messages("a", "b")
	assert.Equal(t, []string{"первое", "второе"}, got)
}
