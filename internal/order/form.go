package order

import (
	"encoding/json"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
)

// Типы груза и сентинелы «свой размер/вес» — значения совпадают с
// идентификаторами справочника контейнеров на стороне API.
const (
	KindBox    = "Коробка"
	KindPallet = "Паллета"

	SizeCustom   = "Другой размер"
	WeightCustom = "Другой вес"
)

// Границы веса паллеты для «Другой вес», кг.
const (
	PalletWeightMin = 500
	PalletWeightMax = 1000
)

type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Form — состояние заполняемого заказа. Живёт в payload диалога между
// сообщениями, поэтому все поля сериализуемы.
type Form struct {
	Marketplace string `json:"marketplace"`
	Warehouse   string `json:"warehouse"`

	SelectedTypes []string       `json:"selected_types"`
	Quantities    map[string]int `json:"quantities"`

	// Размер коробки и вес паллеты — одиночный выбор; сентинел включает
	// ввод произвольных значений.
	BoxSize            string     `json:"box_size"`
	PalletWeight       string     `json:"pallet_weight"`
	CustomBoxSize      Dimensions `json:"custom_box_size"`
	CustomPalletWeight string     `json:"custom_pallet_weight"`

	// Идентификатор стандартного контейнера; пустой, когда активен
	// произвольный размер/вес.
	ContainerType string `json:"container_type"`

	ClientName  string `json:"client_name"`
	PhoneNumber string `json:"phone_number"`
	Company     string `json:"company"`
	Email       string `json:"email"`

	AdditionalServices []string `json:"additional_services"`
	PickupAddress      string   `json:"pickup_address"`
}

func NewForm() Form {
	return Form{
		SelectedTypes:      []string{},
		Quantities:         map[string]int{},
		AdditionalServices: []string{},
	}
}

func (f Form) HasKind(kind string) bool {
	for _, t := range f.SelectedTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// ToggleKind добавляет или убирает тип груза; при снятии чистит его количество
// и связанные с ним параметры.
func (f *Form) ToggleKind(kind string) {
	if !f.HasKind(kind) {
		f.SelectedTypes = append(f.SelectedTypes, kind)
		return
	}
	out := f.SelectedTypes[:0]
	for _, t := range f.SelectedTypes {
		if t != kind {
			out = append(out, t)
		}
	}
	f.SelectedTypes = out
	delete(f.Quantities, kind)
	switch kind {
	case KindBox:
		f.BoxSize = ""
		f.CustomBoxSize = Dimensions{}
	case KindPallet:
		f.PalletWeight = ""
		f.CustomPalletWeight = ""
	}
}

func (f *Form) ToggleService(id string) {
	for i, s := range f.AdditionalServices {
		if s == id {
			f.AdditionalServices = append(f.AdditionalServices[:i], f.AdditionalServices[i+1:]...)
			return
		}
	}
	f.AdditionalServices = append(f.AdditionalServices, id)
}

// ClearAddressUnlessNeeded чистит адрес забора, когда среди выбранных услуг
// не осталось требующих локацию.
func (f *Form) ClearAddressUnlessNeeded(locationRequired map[string]bool) {
	if !NeedsPickupAddress(*f, locationRequired) {
		f.PickupAddress = ""
	}
}

func (f Form) HasService(id string) bool {
	for _, s := range f.AdditionalServices {
		if s == id {
			return true
		}
	}
	return false
}

// CargoKind — дискриминатор груза для API: box / pallet / both.
// Порядок выбора значения не важен; пустой выбор трактуется как box.
func (f Form) CargoKind() string {
	box := f.HasKind(KindBox)
	pallet := f.HasKind(KindPallet)
	switch {
	case box && pallet:
		return "both"
	case pallet:
		return "pallet"
	default:
		return "box"
	}
}

const payloadKey = "form"

// FromPayload достаёт форму из payload диалога. Форма хранится JSON-строкой,
// чтобы количества не превращались в float64 при круговой сериализации.
func FromPayload(p dialog.Payload) Form {
	raw, ok := dialog.GetString(p, payloadKey)
	if !ok {
		return NewForm()
	}
	var f Form
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return NewForm()
	}
	if f.Quantities == nil {
		f.Quantities = map[string]int{}
	}
	return f
}

func (f Form) ToPayload(p dialog.Payload) {
	raw, _ := json.Marshal(f)
	p[payloadKey] = string(raw)
}
