package order

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors — ошибки шага по полям; пустая карта означает валидный шаг.
type FieldErrors map[string]string

func (e FieldErrors) OK() bool { return len(e) == 0 }

// Messages возвращает тексты ошибок в стабильном порядке ключей.
func (e FieldErrors) Messages(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if msg, ok := e[k]; ok {
			out = append(out, msg)
		}
	}
	for k, msg := range e {
		seen := false
		for _, kk := range keys {
			if kk == k {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, msg)
		}
	}
	return out
}

var validate = validator.New()

func ValidateDelivery(f Form) FieldErrors {
	errs := FieldErrors{}
	if f.Marketplace == "" {
		errs["marketplace"] = "Выберите маркетплейс"
	}
	if f.Warehouse == "" {
		errs["warehouse"] = "Выберите склад"
	}
	return errs
}

func ValidateCargo(f Form) FieldErrors {
	errs := FieldErrors{}

	if len(f.SelectedTypes) == 0 {
		errs["selected_types"] = "Выберите хотя бы один тип груза"
	}

	for _, kind := range f.SelectedTypes {
		if f.Quantities[kind] < 1 {
			errs["quantity_"+kind] = "Количество должно быть не менее 1"
		}
	}

	if f.HasKind(KindBox) {
		switch {
		case f.BoxSize == "":
			errs["box_size"] = "Выберите размер коробки"
		case f.BoxSize == SizeCustom && !dimsValid(f.CustomBoxSize):
			errs["custom_box_size"] = "Все размеры коробки должны быть не менее 1 см"
		}
	}

	if f.HasKind(KindPallet) {
		switch {
		case f.PalletWeight == "":
			errs["pallet_weight"] = "Выберите вес паллеты"
		case f.PalletWeight == WeightCustom && !palletWeightValid(f.CustomPalletWeight):
			errs["custom_pallet_weight"] = "Вес паллеты должен быть от 500 до 1000 кг"
		}
	}

	return errs
}

func dimsValid(d Dimensions) bool {
	for _, v := range []string{d.Length, d.Width, d.Height} {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || n < 1 {
			return false
		}
	}
	return true
}

func palletWeightValid(s string) bool {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return w >= PalletWeightMin && w <= PalletWeightMax
}

// ValidateServices: адрес забора обязателен тогда и только тогда, когда среди
// выбранных услуг есть требующая локацию. locationRequired — карта по
// справочнику услуг.
func ValidateServices(f Form, locationRequired map[string]bool) FieldErrors {
	errs := FieldErrors{}
	if NeedsPickupAddress(f, locationRequired) && strings.TrimSpace(f.PickupAddress) == "" {
		errs["pickup_address"] = "Укажите адрес для забора груза"
	}
	return errs
}

func NeedsPickupAddress(f Form, locationRequired map[string]bool) bool {
	for _, id := range f.AdditionalServices {
		if locationRequired[id] {
			return true
		}
	}
	return false
}

func ValidateClient(f Form) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.ClientName) == "" {
		errs["client_name"] = "Укажите имя клиента"
	}
	if strings.TrimSpace(f.PhoneNumber) == "" {
		errs["phone"] = "Укажите номер телефона"
	}
	if e := strings.TrimSpace(f.Email); e != "" {
		if err := validate.Var(e, "email"); err != nil {
			errs["email"] = "Некорректный email"
		}
	}
	return errs
}

// CanCalculatePrice — предусловие запроса стоимости: маркетплейс и склад
// выбраны и хотя бы у одного выбранного типа груза задано количество.
// Если предусловие ложно, цена должна быть сброшена без похода в сеть.
func CanCalculatePrice(f Form) bool {
	if f.Marketplace == "" || f.Warehouse == "" {
		return false
	}
	if len(f.SelectedTypes) == 0 {
		return false
	}
	boxOK := f.HasKind(KindBox) && f.Quantities[KindBox] > 0
	palletOK := f.HasKind(KindPallet) && f.Quantities[KindPallet] > 0
	return boxOK || palletOK
}
