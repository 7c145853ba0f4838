package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/domain/orders"
	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/infra/metrics"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** СВОДКА И ОТПРАВКА ***/

func (b *Bot) summaryView(chatID int64, p dialog.Payload, f order.Form) (string, tgbotapi.InlineKeyboardMarkup) {
	conts := refContainers(p)

	var sb strings.Builder
	sb.WriteString("Проверьте заказ:\n\n")
	sb.WriteString("🚚 Доставка: " + deliverySummary(p, f) + "\n")

	if f.HasKind(order.KindBox) {
		sb.WriteString(fmt.Sprintf("📦 Коробки: %s, размер: %s\n",
			qtyLabel(f, order.KindBox), boxSizeLabel(f, conts)))
	}
	if f.HasKind(order.KindPallet) {
		sb.WriteString(fmt.Sprintf("🟫 Паллеты: %s, вес: %s\n",
			qtyLabel(f, order.KindPallet), palletWeightLabel(f, conts)))
	}

	sb.WriteString("🧰 Доп. услуги: " + servicesSummary(p, f) + "\n")
	if strings.TrimSpace(f.PickupAddress) != "" {
		sb.WriteString("📍 Адрес забора: " + f.PickupAddress + "\n")
	}

	sb.WriteString("👤 Клиент: " + f.ClientName + ", " + f.PhoneNumber + "\n")
	if f.Company != "" {
		sb.WriteString("🏢 Компания: " + f.Company + "\n")
	}
	if f.Email != "" {
		sb.WriteString("✉️ Email: " + f.Email + "\n")
	}

	sb.WriteString(b.priceLine(chatID))

	return sb.String(), submitKeyboard()
}

func (b *Bot) showSummary(ctx context.Context, chatID int64, p dialog.Payload, f order.Form) {
	text, kb := b.summaryView(chatID, p, f)
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	f.ToPayload(p)
	b.saveLastStep(ctx, chatID, dialog.StateSummary, p, sent.MessageID)
}

// requiredMissing — контрольная проверка обязательных полей перед отправкой
// (дублирует шаговую валидацию как предохранитель).
func requiredMissing(f order.Form) []string {
	var missing []string
	if !order.ValidateDelivery(f).OK() {
		missing = append(missing, "склад назначения")
	}
	if len(f.SelectedTypes) == 0 {
		missing = append(missing, "тип груза")
	}
	if strings.TrimSpace(f.PhoneNumber) == "" {
		missing = append(missing, "номер телефона")
	}
	if strings.TrimSpace(f.ClientName) == "" {
		missing = append(missing, "имя клиента")
	}
	return missing
}

func (b *Bot) onSubmit(ctx context.Context, chatID int64, st *dialog.Item, cb *tgbotapi.CallbackQuery) {
	f := order.FromPayload(st.Payload)

	if missing := requiredMissing(f); len(missing) > 0 {
		b.answerCallback(cb,
			"Пожалуйста, заполните обязательные поля: "+strings.Join(missing, ", "), true)
		return
	}

	b.answerCallback(cb, "Отправляем заказ...", false)

	tg := gateway.TelegramData{}
	if cb.From != nil {
		tg.UserID = cb.From.ID
		tg.Username = cb.From.UserName
	}

	resp, err := b.gw.CreateOrder(ctx, f, tg)
	if err != nil {
		b.log.Error("create order failed", "chat_id", chatID, "err", err)
		if gateway.IsAddressMissing(err) {
			// откат к шагу услуг: выбрана услуга забора, адреса нет
			b.send(tgbotapi.NewMessage(chatID,
				"Выбрана услуга забора груза. Пожалуйста, укажите адрес забора."))
			b.showServicesMenu(ctx, chatID, st.Payload, f,
				order.FieldErrors{"pickup_address": "Укажите адрес для забора груза"})
			return
		}
		b.send(tgbotapi.NewMessage(chatID,
			"Произошла ошибка при создании заказа. Пожалуйста, проверьте обязательные поля и попробуйте ещё раз."))
		return
	}
	if resp.Order == nil {
		b.log.Error("create order: empty order in response", "chat_id", chatID, "msg", resp.Message)
		b.send(tgbotapi.NewMessage(chatID,
			"Произошла ошибка при создании заказа. Пожалуйста, попробуйте ещё раз."))
		return
	}

	metrics.OrdersCreated.Inc()

	saved := &orders.Order{
		ChatID:         chatID,
		OrderID:        resp.Order.ID,
		SequenceNumber: resp.Order.SequenceNumber,
		TotalPrice:     resp.Order.TotalPrice,
		ClientName:     f.ClientName,
		Phone:          f.PhoneNumber,
		Marketplace:    f.Marketplace,
		WarehouseID:    f.Warehouse,
	}
	if res, _ := b.prices.Current(chatID); res != nil {
		saved.Currency = res.Currency
	}
	if err := b.orders.Save(ctx, saved); err != nil {
		b.log.Error("save order failed", "chat_id", chatID, "order_id", saved.OrderID, "err", err)
	}

	// форма отработала — сбрасываем диалог и цену
	b.prices.Reset(chatID)
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Error("reset state failed", "chat_id", chatID, "err", err)
	}

	b.sendConfirmation(chatID, resp.Order.SequenceNumber, resp.Order.TotalPrice, resp.Order.CreatedAt)
}

func (b *Bot) sendConfirmation(chatID int64, seq int, total, createdAt string) {
	var sb strings.Builder
	sb.WriteString("🎉 Заказ успешно создан!\n\n")
	sb.WriteString(fmt.Sprintf("Номер вашего заказа: №%d\n", seq))
	if total != "" {
		sb.WriteString(fmt.Sprintf("Общая стоимость: %s ₽\n", total))
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		sb.WriteString("Дата создания: " + t.Format("02.01.2006 15:04") + "\n")
	}
	m := tgbotapi.NewMessage(chatID, sb.String())
	m.ReplyMarkup = newOrderKeyboard()
	b.send(m)
}

// showLastOrder показывает подтверждение последнего заказа чата из локальной
// базы — история чата могла быть очищена, номер заказа терять нельзя.
func (b *Bot) showLastOrder(ctx context.Context, chatID int64) {
	o, err := b.orders.LastByChat(ctx, chatID)
	if err != nil {
		b.log.Error("last order lookup failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось получить данные заказа. Попробуйте позже."))
		return
	}
	if o == nil {
		b.send(tgbotapi.NewMessage(chatID, "У вас пока нет заказов. Отправьте /neworder, чтобы создать первый."))
		return
	}
	b.sendConfirmation(chatID, o.SequenceNumber, o.TotalPrice, o.CreatedAt.Format(time.RFC3339))
}
