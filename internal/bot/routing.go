package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.send(tgbotapi.NewMessage(chatID,
			"Привет! Я помогу рассчитать и оформить доставку груза на склад маркетплейса.\nНачинаем оформление заказа."))
		b.startOrder(ctx, chatID)
		return

	case "neworder":
		b.startOrder(ctx, chatID)
		return

	case "lastorder":
		b.showLastOrder(ctx, chatID)
		return

	case "cancel":
		b.cancelOrder(ctx, chatID)
		return

	case "export":
		// выгрузка заказов — только для админского чата
		if b.adminChat == 0 || msg.From.ID != b.adminChat {
			b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён"))
			return
		}
		b.exportOrders(ctx, chatID)
		return

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/neworder — новый заказ\n/lastorder — последний заказ\n/cancel — отменить текущий заказ\n/help — помощь"))
		return

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
		return
	}
}

// handleStateMessage — текстовые вводы мастера.
func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, _ := b.states.Get(ctx, chatID)

	switch st.State {
	case dialog.StateCargoQty:
		b.onCargoQtyInput(ctx, chatID, st, msg.Text)
	case dialog.StateCargoBoxCustom:
		b.onBoxCustomInput(ctx, chatID, st, msg.Text)
	case dialog.StateCargoPalletCustom:
		b.onPalletCustomInput(ctx, chatID, st, msg.Text)
	case dialog.StateServicesAddress:
		b.onPickupAddressInput(ctx, chatID, st, msg.Text)
	case dialog.StateClientName:
		b.onClientNameInput(ctx, chatID, st, msg.Text)
	case dialog.StateClientPhone:
		b.onClientPhoneInput(ctx, chatID, st, msg.Text)
	case dialog.StateClientCompany:
		b.onClientCompanyInput(ctx, chatID, st, msg.Text)
	case dialog.StateClientEmail:
		b.onClientEmailInput(ctx, chatID, st, msg.Text)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Используйте кнопки под сообщением или наберите /help"))
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	chatID := cb.Message.Chat.ID
	data := cb.Data

	st, _ := b.states.Get(ctx, chatID)

	switch {
	case data == "nav:cancel":
		b.answerCallback(cb, "", false)
		b.cancelOrder(ctx, chatID)

	case data == "nav:back":
		b.answerCallback(cb, "", false)
		b.handleBack(ctx, chatID, st)

	case data == "nav:next":
		b.handleNext(ctx, chatID, st, cb)

	case data == "order:new":
		b.answerCallback(cb, "", false)
		b.startOrder(ctx, chatID)

	case data == "order:send":
		b.onSubmit(ctx, chatID, st, cb)

	case strings.HasPrefix(data, "deliv:mp:"):
		b.answerCallback(cb, "", false)
		b.onMarketplacePicked(ctx, chatID, st, strings.TrimPrefix(data, "deliv:mp:"))

	case strings.HasPrefix(data, "deliv:wh:"):
		b.answerCallback(cb, "", false)
		b.onWarehousePicked(ctx, chatID, st, strings.TrimPrefix(data, "deliv:wh:"))

	case strings.HasPrefix(data, "cargo:ct:"):
		b.answerCallback(cb, "", false)
		if i, err := strconv.Atoi(strings.TrimPrefix(data, "cargo:ct:")); err == nil {
			b.onCargoTypeToggled(ctx, chatID, st, i)
		}

	case strings.HasPrefix(data, "cargo:qty:"):
		b.answerCallback(cb, "", false)
		if i, err := strconv.Atoi(strings.TrimPrefix(data, "cargo:qty:")); err == nil {
			b.askCargoQty(ctx, chatID, st, i)
		}

	case data == "cargo:boxsize":
		b.answerCallback(cb, "", false)
		b.showBoxSizes(ctx, chatID, st)

	case strings.HasPrefix(data, "cargo:bs:"):
		b.answerCallback(cb, "", false)
		if i, err := strconv.Atoi(strings.TrimPrefix(data, "cargo:bs:")); err == nil {
			b.onBoxSizePicked(ctx, chatID, st, i)
		}

	case data == "cargo:palletweight":
		b.answerCallback(cb, "", false)
		b.showPalletWeights(ctx, chatID, st)

	case strings.HasPrefix(data, "cargo:pw:"):
		b.answerCallback(cb, "", false)
		if i, err := strconv.Atoi(strings.TrimPrefix(data, "cargo:pw:")); err == nil {
			b.onPalletWeightPicked(ctx, chatID, st, i)
		}

	case data == "svc:addr":
		b.answerCallback(cb, "", false)
		b.askPickupAddress(ctx, chatID, st)

	case strings.HasPrefix(data, "svc:"):
		b.answerCallback(cb, "", false)
		b.onServiceToggled(ctx, chatID, st, strings.TrimPrefix(data, "svc:"))

	case data == "client:skip":
		b.answerCallback(cb, "", false)
		b.onClientSkip(ctx, chatID, st)

	default:
		b.answerCallback(cb, "", false)
	}
}

// stepErrors — ошибки валидации текущего экрана-меню; пустая карта разрешает
// переход по «Далее». Для остальных экранов переход вперёд не определён.
func stepErrors(state dialog.State, f order.Form, locationRequired map[string]bool) order.FieldErrors {
	switch state {
	case dialog.StateCargoMenu:
		return order.ValidateCargo(f)
	case dialog.StateServicesMenu:
		return order.ValidateServices(f, locationRequired)
	default:
		return order.FieldErrors{}
	}
}

// handleNext — переход вперёд; шаг пропускает только при валидной форме,
// иначе тот же экран перерисовывается с ошибками.
func (b *Bot) handleNext(ctx context.Context, chatID int64, st *dialog.Item, cb *tgbotapi.CallbackQuery) {
	f := order.FromPayload(st.Payload)
	locReq := locationRequiredMap(refServiceGroups(st.Payload))

	if errs := stepErrors(st.State, f, locReq); !errs.OK() {
		b.answerCallback(cb,
			"Пожалуйста, заполните все обязательные поля перед переходом к следующему шагу", true)
		switch st.State {
		case dialog.StateCargoMenu:
			b.redrawCargoMenu(ctx, chatID, st.Payload, f, errs)
		case dialog.StateServicesMenu:
			b.redrawServicesMenu(ctx, chatID, st.Payload, f, errs)
		}
		return
	}

	b.answerCallback(cb, "", false)
	switch st.State {
	case dialog.StateCargoMenu:
		b.enterServices(ctx, chatID, st, f)
	case dialog.StateServicesMenu:
		b.askClientName(ctx, chatID, st)
	}
}

// handleBack — назад без валидации; с первого шага назад некуда.
func (b *Bot) handleBack(ctx context.Context, chatID int64, st *dialog.Item) {
	f := order.FromPayload(st.Payload)

	switch st.State {
	case dialog.StateDelivWarehouse:
		b.showMarketplaces(ctx, chatID, st.Payload)

	case dialog.StateCargoMenu:
		if f.Marketplace != "" {
			b.showWarehouses(ctx, chatID, st.Payload, f)
		} else {
			b.showMarketplaces(ctx, chatID, st.Payload)
		}

	case dialog.StateCargoQty, dialog.StateCargoBoxSize, dialog.StateCargoBoxCustom,
		dialog.StateCargoPalletWeight, dialog.StateCargoPalletCustom:
		b.showCargoMenu(ctx, chatID, st.Payload, f, nil)

	case dialog.StateServicesMenu:
		b.showCargoMenu(ctx, chatID, st.Payload, f, nil)

	case dialog.StateServicesAddress:
		b.showServicesMenu(ctx, chatID, st.Payload, f, nil)

	case dialog.StateClientName:
		b.showServicesMenu(ctx, chatID, st.Payload, f, nil)

	case dialog.StateClientPhone:
		b.askClientName(ctx, chatID, st)

	case dialog.StateClientCompany:
		b.askClientPhone(ctx, chatID, st)

	case dialog.StateClientEmail:
		b.askClientCompany(ctx, chatID, st)

	case dialog.StateSummary:
		b.askClientName(ctx, chatID, st)
	}
}

func (b *Bot) cancelOrder(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	b.prices.Reset(chatID)
	if err := b.states.Reset(ctx, chatID); err != nil {
		b.log.Error("reset state failed", "chat_id", chatID, "err", err)
	}
	b.send(tgbotapi.NewMessage(chatID, "Заказ отменён. Отправьте /neworder, чтобы начать заново."))
}
