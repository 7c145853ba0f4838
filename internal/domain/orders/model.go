package orders

import "time"

// Order — подтверждённый заказ, сохранённый локально, чтобы подтверждение
// можно было показать повторно по идентификатору (/lastorder) и выгрузить
// в отчёт.
type Order struct {
	ID             int64
	ChatID         int64
	OrderID        string
	SequenceNumber int
	TotalPrice     string
	Currency       string
	ClientName     string
	Phone          string
	Marketplace    string
	WarehouseID    string
	CreatedAt      time.Time
}
