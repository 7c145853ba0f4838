package gateway

import (
	"encoding/json"
	"strconv"

	"github.com/Spok95/cargo-calc-bot/internal/order"
)

type Warehouse struct {
	ID              int64  `json:"id"`
	City            string `json:"city"`
	CityName        string `json:"city_name"`
	Marketplace     string `json:"marketplace"`
	MarketplaceName string `json:"marketplace_name"`
	Name            string `json:"name"`
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ContainerTypes struct {
	ContainerTypes []Option `json:"container_types"`
	BoxSizes       []Option `json:"box_sizes"`
	PalletWeights  []Option `json:"pallet_weights"`
}

// ServiceID: сервер отдаёт идентификаторы услуг то числом, то строкой.
type ServiceID string

func (s *ServiceID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = ServiceID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = ServiceID(n.String())
	return nil
}

type Service struct {
	ID               ServiceID `json:"id"`
	Name             string    `json:"name"`
	Price            string    `json:"price"`
	RequiresLocation bool      `json:"requires_location"`
}

type ServiceGroup struct {
	Title    string    `json:"title"`
	Services []Service `json:"services"`
}

type servicesResponse struct {
	ServiceGroups []ServiceGroup `json:"serviceGroups"`
}

type Delivery struct {
	WarehouseID string `json:"warehouse_id"`
	Marketplace string `json:"marketplace"`
}

type CargoDimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Weight string `json:"weight"`
}

type Cargo struct {
	CargoType           string          `json:"cargo_type"`
	BoxContainerType    string          `json:"box_container_type"`
	PalletContainerType string          `json:"pallet_container_type"`
	BoxCount            int             `json:"box_count"`
	PalletCount         int             `json:"pallet_count"`
	Dimensions          CargoDimensions `json:"dimensions"`
}

type PriceRequest struct {
	Delivery           Delivery `json:"delivery"`
	Cargo              Cargo    `json:"cargo"`
	AdditionalServices []string `json:"additional_services"`
	PickupAddress      string   `json:"pickup_address"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

type TelegramData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type OrderRequest struct {
	Delivery           Delivery     `json:"delivery"`
	Cargo              Cargo        `json:"cargo"`
	Client             ClientInfo   `json:"client"`
	AdditionalServices []string     `json:"additional_services"`
	PickupAddress      string       `json:"pickup_address"`
	TelegramData       TelegramData `json:"telegram_data"`
}

type PriceDetails struct {
	Delivery           string `json:"delivery"`
	Cargo              string `json:"cargo"`
	AdditionalServices string `json:"additional_services"`
}

type PriceResponse struct {
	TotalPrice string       `json:"total_price"`
	Currency   string       `json:"currency"`
	Details    PriceDetails `json:"details"`
}

type CreatedOrder struct {
	ID             string `json:"id"`
	SequenceNumber int    `json:"sequence_number"`
	Status         string `json:"status"`
	TotalPrice     string `json:"total_price"`
	CreatedAt      string `json:"created_at"`
	WarehouseID    *int64 `json:"warehouse_id"`
	PickupAddress  string `json:"pickup_address"`
}

type OrderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *CreatedOrder `json:"order"`
	Err     string        `json:"error"`
}

// BuildPriceRequest нормализует форму в запрос расчёта стоимости.
// Сентинелы «Другой размер»/«Другой вес» уходят на сервер как есть,
// произвольные габариты — только при активном сентинеле, счётчики
// невыбранных типов зануляются.
func BuildPriceRequest(f order.Form) PriceRequest {
	return PriceRequest{
		Delivery: Delivery{
			WarehouseID: f.Warehouse,
			Marketplace: f.Marketplace,
		},
		Cargo:              buildCargo(f),
		AdditionalServices: servicesOrEmpty(f),
		PickupAddress:      f.PickupAddress,
	}
}

func BuildOrderRequest(f order.Form, tg TelegramData) OrderRequest {
	return OrderRequest{
		Delivery: Delivery{
			WarehouseID: f.Warehouse,
			Marketplace: f.Marketplace,
		},
		Cargo: buildCargo(f),
		Client: ClientInfo{
			Name:    f.ClientName,
			Phone:   f.PhoneNumber,
			Company: f.Company,
			Email:   f.Email,
		},
		AdditionalServices: servicesOrEmpty(f),
		PickupAddress:      f.PickupAddress,
		TelegramData:       tg,
	}
}

func buildCargo(f order.Form) Cargo {
	c := Cargo{CargoType: f.CargoKind()}

	if f.HasKind(order.KindBox) {
		c.BoxContainerType = f.BoxSize
		c.BoxCount = f.Quantities[order.KindBox]
		if f.BoxSize == order.SizeCustom {
			c.Dimensions.Length = f.CustomBoxSize.Length
			c.Dimensions.Width = f.CustomBoxSize.Width
			c.Dimensions.Height = f.CustomBoxSize.Height
		}
	}

	if f.HasKind(order.KindPallet) {
		c.PalletContainerType = f.PalletWeight
		c.PalletCount = f.Quantities[order.KindPallet]
		if f.PalletWeight == order.WeightCustom {
			c.Dimensions.Weight = f.CustomPalletWeight
		}
	}

	return c
}

func servicesOrEmpty(f order.Form) []string {
	if f.AdditionalServices == nil {
		return []string{}
	}
	return f.AdditionalServices
}

// WarehouseLabel — подпись склада для кнопок и сводки.
func WarehouseLabel(w Warehouse) string {
	if w.CityName != "" {
		return w.CityName + " — " + w.Name
	}
	return w.Name
}

// FindWarehouse ищет склад по строковому id из формы.
func FindWarehouse(list []Warehouse, id string) *Warehouse {
	for i := range list {
		if strconv.FormatInt(list[i].ID, 10) == id {
			return &list[i]
		}
	}
	return nil
}
