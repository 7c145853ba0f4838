package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** ШАГ 2: ТИП ГРУЗА ***/

const payloadQtyKind = "qty_kind"

func (b *Bot) cargoMenuView(chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) (string, tgbotapi.InlineKeyboardMarkup) {
	conts := refContainers(p)

	var sb strings.Builder
	sb.WriteString("Шаг 2 из 4. Укажите информацию о грузе.\n")
	sb.WriteString("Отметьте типы груза и заполните параметры.\n")

	if f.HasKind(order.KindBox) {
		sb.WriteString("\nℹ️ Вес одной коробки не должен превышать 20 кг\n")
		sb.WriteString(fmt.Sprintf("📦 Коробки: %s, размер: %s\n",
			qtyLabel(f, order.KindBox), boxSizeLabel(f, conts)))
	}
	if f.HasKind(order.KindPallet) {
		sb.WriteString(fmt.Sprintf("🟫 Паллеты: %s, вес: %s\n",
			qtyLabel(f, order.KindPallet), palletWeightLabel(f, conts)))
	}

	sb.WriteString(b.priceLine(chatID))

	if len(errs) > 0 {
		sb.WriteString("\n\n⚠️ ")
		sb.WriteString(strings.Join(errs.Messages(
			"selected_types",
			"quantity_"+order.KindBox, "quantity_"+order.KindPallet,
			"box_size", "custom_box_size",
			"pallet_weight", "custom_pallet_weight",
		), "\n⚠️ "))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if conts != nil {
		for i, opt := range conts.ContainerTypes {
			label := opt.Label
			if f.HasKind(opt.ID) {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "cargo:ct:"+strconv.Itoa(i)),
			))
			if f.HasKind(opt.ID) {
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData(
						fmt.Sprintf("Количество (%s): %s", opt.Label, qtyLabel(f, opt.ID)),
						"cargo:qty:"+strconv.Itoa(i)),
				))
			}
		}
	}
	if f.HasKind(order.KindBox) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Размер коробки: "+boxSizeLabel(f, conts), "cargo:boxsize"),
		))
	}
	if f.HasKind(order.KindPallet) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Вес паллеты: "+palletWeightLabel(f, conts), "cargo:palletweight"),
		))
	}
	rows = append(rows, stepNavRows(true)...)

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func qtyLabel(f order.Form, kind string) string {
	if q := f.Quantities[kind]; q >= 1 {
		return fmt.Sprintf("%d шт", q)
	}
	return "не указано"
}

func (b *Bot) showCargoMenu(ctx context.Context, chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) {
	text, kb := b.cargoMenuView(chatID, p, f, errs)
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	f.ToPayload(p)
	b.saveLastStep(ctx, chatID, dialog.StateCargoMenu, p, sent.MessageID)
}

// redrawCargoMenu перерисовывает меню на месте (тумблеры, ошибки валидации).
func (b *Bot) redrawCargoMenu(ctx context.Context, chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) {
	f.ToPayload(p)
	if err := b.states.Set(ctx, chatID, dialog.StateCargoMenu, p); err != nil {
		b.log.Error("save state failed", "chat_id", chatID, "err", err)
	}
	text, kb := b.cargoMenuView(chatID, p, f, errs)
	if mid, ok := lastMID(p); ok {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, text, kb))
	}
}

func (b *Bot) onCargoTypeToggled(ctx context.Context, chatID int64, st *dialog.Item, idx int) {
	conts := refContainers(st.Payload)
	if conts == nil || idx < 0 || idx >= len(conts.ContainerTypes) {
		return
	}
	f := order.FromPayload(st.Payload)
	f.ToggleKind(conts.ContainerTypes[idx].ID)
	b.recalcPrice(chatID, f)
	b.redrawCargoMenu(ctx, chatID, st.Payload, f, nil)
}

func (b *Bot) askCargoQty(ctx context.Context, chatID int64, st *dialog.Item, idx int) {
	conts := refContainers(st.Payload)
	if conts == nil || idx < 0 || idx >= len(conts.ContainerTypes) {
		return
	}
	opt := conts.ContainerTypes[idx]
	st.Payload[payloadQtyKind] = opt.ID

	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Введите количество (%s), шт:", opt.Label))
	m.ReplyMarkup = navKeyboard(true, true)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateCargoQty, st.Payload, sent.MessageID)
}

func (b *Bot) onCargoQtyInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	kind, _ := dialog.GetString(st.Payload, payloadQtyKind)
	if kind == "" {
		b.send(tgbotapi.NewMessage(chatID, "Сначала выберите тип груза."))
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		b.send(tgbotapi.NewMessage(chatID, "Количество должно быть не менее 1. Введите ещё раз."))
		return
	}
	f := order.FromPayload(st.Payload)
	f.Quantities[kind] = n
	delete(st.Payload, payloadQtyKind)
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}

/*** РАЗМЕР КОРОБКИ ***/

func (b *Bot) showBoxSizes(ctx context.Context, chatID int64, st *dialog.Item) {
	conts := refContainers(st.Payload)
	if conts == nil {
		return
	}
	f := order.FromPayload(st.Payload)

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range conts.BoxSizes {
		label := opt.Label
		if f.BoxSize == opt.ID {
			label = "🔘 " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "cargo:bs:"+strconv.Itoa(i)),
		))
	}
	rows = append(rows, navRow(true, true))

	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Выберите размер коробки:")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateCargoBoxSize, st.Payload, sent.MessageID)
}

func (b *Bot) onBoxSizePicked(ctx context.Context, chatID int64, st *dialog.Item, idx int) {
	conts := refContainers(st.Payload)
	if conts == nil || idx < 0 || idx >= len(conts.BoxSizes) {
		return
	}
	opt := conts.BoxSizes[idx]
	f := order.FromPayload(st.Payload)

	if opt.ID == order.SizeCustom {
		f.BoxSize = order.SizeCustom
		f.ContainerType = ""
		f.ToPayload(st.Payload)
		b.clearPrevStep(ctx, chatID)
		m := tgbotapi.NewMessage(chatID,
			"Введите размеры коробки в сантиметрах в формате ДxШxВ, например 60x40x40.\nКаждый размер — не менее 1 см.")
		m.ReplyMarkup = navKeyboard(true, true)
		sent, err := b.sendReturn(m)
		if err != nil {
			return
		}
		b.saveLastStep(ctx, chatID, dialog.StateCargoBoxCustom, st.Payload, sent.MessageID)
		return
	}

	// стандартный размер: сбрасываем произвольные габариты
	f.BoxSize = opt.ID
	f.CustomBoxSize = order.Dimensions{}
	f.ContainerType = opt.ID
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}

var dimsSepRe = regexp.MustCompile(`[xх×*]`)

// parseDims разбирает «60x40x40» (допускаем латинскую и кириллическую x).
func parseDims(s string) (order.Dimensions, bool) {
	parts := dimsSepRe.Split(strings.TrimSpace(s), -1)
	if len(parts) != 3 {
		return order.Dimensions{}, false
	}
	vals := make([]string, 3)
	for i, part := range parts {
		v := strings.ReplaceAll(strings.TrimSpace(part), ",", ".")
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 1 {
			return order.Dimensions{}, false
		}
		vals[i] = v
	}
	return order.Dimensions{Length: vals[0], Width: vals[1], Height: vals[2]}, true
}

func (b *Bot) onBoxCustomInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	dims, ok := parseDims(text)
	if !ok {
		b.send(tgbotapi.NewMessage(chatID,
			"Все размеры коробки должны быть не менее 1 см. Введите ещё раз в формате ДxШxВ, например 60x40x40."))
		return
	}
	f := order.FromPayload(st.Payload)
	f.BoxSize = order.SizeCustom
	f.CustomBoxSize = dims
	f.ContainerType = ""
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}

/*** ВЕС ПАЛЛЕТЫ ***/

func (b *Bot) showPalletWeights(ctx context.Context, chatID int64, st *dialog.Item) {
	conts := refContainers(st.Payload)
	if conts == nil {
		return
	}
	f := order.FromPayload(st.Payload)

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range conts.PalletWeights {
		label := opt.Label
		if f.PalletWeight == opt.ID {
			label = "🔘 " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "cargo:pw:"+strconv.Itoa(i)),
		))
	}
	rows = append(rows, navRow(true, true))

	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Выберите весовую категорию паллеты:")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateCargoPalletWeight, st.Payload, sent.MessageID)
}

func (b *Bot) onPalletWeightPicked(ctx context.Context, chatID int64, st *dialog.Item, idx int) {
	conts := refContainers(st.Payload)
	if conts == nil || idx < 0 || idx >= len(conts.PalletWeights) {
		return
	}
	opt := conts.PalletWeights[idx]
	f := order.FromPayload(st.Payload)

	if opt.ID == order.WeightCustom {
		f.PalletWeight = order.WeightCustom
		f.ContainerType = ""
		f.ToPayload(st.Payload)
		b.clearPrevStep(ctx, chatID)
		m := tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Введите вес паллеты в килограммах (от %d до %d):",
				order.PalletWeightMin, order.PalletWeightMax))
		m.ReplyMarkup = navKeyboard(true, true)
		sent, err := b.sendReturn(m)
		if err != nil {
			return
		}
		b.saveLastStep(ctx, chatID, dialog.StateCargoPalletCustom, st.Payload, sent.MessageID)
		return
	}

	f.PalletWeight = opt.ID
	f.CustomPalletWeight = ""
	f.ContainerType = opt.ID
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}

func (b *Bot) onPalletCustomInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	v := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	w, err := strconv.ParseFloat(v, 64)
	if err != nil || w < order.PalletWeightMin || w > order.PalletWeightMax {
		b.send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Вес паллеты должен быть от %d до %d кг. Введите ещё раз.",
				order.PalletWeightMin, order.PalletWeightMax)))
		return
	}
	f := order.FromPayload(st.Payload)
	f.PalletWeight = order.WeightCustom
	f.CustomPalletWeight = v
	f.ContainerType = ""
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}
