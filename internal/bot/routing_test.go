package bot

import (
	"testing"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	"github.com/stretchr/testify/assert"
)

func TestStepErrorsGatesCargoMenu(t *testing.T) {
	f := order.NewForm()
	f.ToggleKind(order.KindBox)

	// количество и размер не заданы — остаёмся на шаге, ошибки показываем
	errs := stepErrors(dialog.StateCargoMenu, f, nil)
	assert.False(t, errs.OK())
	assert.Contains(t, errs, "quantity_"+order.KindBox)
	assert.Contains(t, errs, "box_size")

	f.Quantities[order.KindBox] = 2
	f.BoxSize = "40x40x60"
	assert.True(t, stepErrors(dialog.StateCargoMenu, f, nil).OK())
}

func TestStepErrorsGatesServicesMenu(t *testing.T) {
	locReq := map[string]bool{"7": true}

	f := order.NewForm()
	f.ToggleService("7")
	errs := stepErrors(dialog.StateServicesMenu, f, locReq)
	assert.Contains(t, errs, "pickup_address")

	f.PickupAddress = "Москва, ул. Ленина, 1"
	assert.True(t, stepErrors(dialog.StateServicesMenu, f, locReq).OK())
}

func TestStepErrorsOtherScreens(t *testing.T) {
	// на экранах без «Далее» гейт всегда пуст
	f := order.NewForm()
	assert.True(t, stepErrors(dialog.StateSummary, f, nil).OK())
	assert.True(t, stepErrors(dialog.StateClientName, f, nil).OK())
}
