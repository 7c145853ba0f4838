package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// exportOrders выгружает все сохранённые заказы в Excel и отправляет файл
// в чат админа.
func (b *Bot) exportOrders(ctx context.Context, chatID int64) {
	list, err := b.orders.List(ctx)
	if err != nil {
		b.log.Error("orders export failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось выгрузить заказы. Попробуйте позже."))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Заказов пока нет."))
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	headers := []string{"id", "order_id", "Номер", "Сумма", "Валюта",
		"Клиент", "Телефон", "Маркетплейс", "warehouse_id", "Создан"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, o := range list {
		values := []any{
			o.ID, o.OrderID, o.SequenceNumber, o.TotalPrice, o.Currency,
			o.ClientName, o.Phone, o.Marketplace, o.WarehouseID,
			o.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		b.log.Error("orders export: write xlsx failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать файл выгрузки."))
		return
	}

	name := "orders_" + time.Now().Format("2006-01-02") + ".xlsx"
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("Выгрузка заказов: %d шт", len(list))
	b.send(doc)
}
