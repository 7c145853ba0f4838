package dialog

type State string

const (
	StateIdle State = "idle"

	// Шаг 1: доставка
	StateDelivMarketplace State = "deliv_marketplace" // выбор маркетплейса
	StateDelivWarehouse   State = "deliv_warehouse"   // выбор склада маркетплейса

	// Шаг 2: тип груза
	StateCargoMenu         State = "cargo_menu"          // экран с типами груза и текущими параметрами
	StateCargoQty          State = "cargo_qty"           // ввод количества для выбранного типа
	StateCargoBoxSize      State = "cargo_box_size"      // выбор размера коробки
	StateCargoBoxCustom    State = "cargo_box_custom"    // ввод ДxШxВ для «Другой размер»
	StateCargoPalletWeight State = "cargo_pallet_weight" // выбор весовой категории паллеты
	StateCargoPalletCustom State = "cargo_pallet_custom" // ввод веса для «Другой вес»

	// Шаг 3: дополнительные услуги
	StateServicesMenu    State = "services_menu"
	StateServicesAddress State = "services_address" // ввод адреса забора груза

	// Шаг 4: данные клиента
	StateClientName    State = "client_name"
	StateClientPhone   State = "client_phone"
	StateClientCompany State = "client_company"
	StateClientEmail   State = "client_email"

	// Сводка и отправка
	StateSummary State = "summary"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
