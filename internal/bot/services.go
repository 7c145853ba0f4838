package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** ШАГ 3: ДОПОЛНИТЕЛЬНЫЕ УСЛУГИ ***/

// enterServices подгружает каталог услуг (один раз на заказ) и открывает меню.
func (b *Bot) enterServices(ctx context.Context, chatID int64, st *dialog.Item, f order.Form) {
	if refServiceGroups(st.Payload) == nil {
		groups, err := b.gw.AdditionalServices(ctx)
		if err != nil {
			b.log.Error("load services failed", "chat_id", chatID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить список услуг. Попробуйте позже."))
			return
		}
		putRef(st.Payload, refKeyServices, groups)
	}
	b.showServicesMenu(ctx, chatID, st.Payload, f, nil)
}

func (b *Bot) servicesMenuView(chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) (string, tgbotapi.InlineKeyboardMarkup) {
	groups := refServiceGroups(p)
	locReq := locationRequiredMap(groups)

	var sb strings.Builder
	sb.WriteString("Шаг 3 из 4. Дополнительные услуги.\n")
	sb.WriteString("Отметьте нужные услуги или нажмите «Далее».\n")

	if order.NeedsPickupAddress(f, locReq) {
		if strings.TrimSpace(f.PickupAddress) != "" {
			sb.WriteString("\n📍 Адрес забора: " + f.PickupAddress + "\n")
		} else {
			sb.WriteString("\n📍 Адрес забора: не указан\n")
		}
	}

	sb.WriteString(b.priceLine(chatID))

	if len(errs) > 0 {
		sb.WriteString("\n\n⚠️ ")
		sb.WriteString(strings.Join(errs.Messages("pickup_address"), "\n⚠️ "))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for gi, g := range groups {
		for si, s := range g.Services {
			label := s.Name
			if s.Price != "" {
				label = fmt.Sprintf("%s — %s", s.Name, s.Price)
			}
			if f.HasService(string(s.ID)) {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label,
					fmt.Sprintf("svc:%d:%d", gi, si)),
			))
		}
	}
	if order.NeedsPickupAddress(f, locReq) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Указать адрес забора", "svc:addr"),
		))
	}
	rows = append(rows, stepNavRows(true)...)

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) showServicesMenu(ctx context.Context, chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) {
	text, kb := b.servicesMenuView(chatID, p, f, errs)
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	f.ToPayload(p)
	b.saveLastStep(ctx, chatID, dialog.StateServicesMenu, p, sent.MessageID)
}

func (b *Bot) redrawServicesMenu(ctx context.Context, chatID int64, p dialog.Payload, f order.Form, errs order.FieldErrors) {
	f.ToPayload(p)
	if err := b.states.Set(ctx, chatID, dialog.StateServicesMenu, p); err != nil {
		b.log.Error("save state failed", "chat_id", chatID, "err", err)
	}
	text, kb := b.servicesMenuView(chatID, p, f, errs)
	if mid, ok := lastMID(p); ok {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, text, kb))
	}
}

func (b *Bot) onServiceToggled(ctx context.Context, chatID int64, st *dialog.Item, data string) {
	// data: "<group>:<index>"
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}
	gi, err1 := strconv.Atoi(parts[0])
	si, err2 := strconv.Atoi(parts[1])
	groups := refServiceGroups(st.Payload)
	if err1 != nil || err2 != nil || gi < 0 || gi >= len(groups) || si < 0 || si >= len(groups[gi].Services) {
		return
	}

	f := order.FromPayload(st.Payload)
	f.ToggleService(string(groups[gi].Services[si].ID))
	// если ни одна выбранная услуга не требует локацию — адрес больше не нужен
	f.ClearAddressUnlessNeeded(locationRequiredMap(groups))

	b.recalcPrice(chatID, f)
	b.redrawServicesMenu(ctx, chatID, st.Payload, f, nil)
}

func (b *Bot) askPickupAddress(ctx context.Context, chatID int64, st *dialog.Item) {
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Введите адрес забора груза:")
	m.ReplyMarkup = navKeyboard(true, true)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateServicesAddress, st.Payload, sent.MessageID)
}

func (b *Bot) onPickupAddressInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	addr := strings.TrimSpace(text)
	if addr == "" {
		b.send(tgbotapi.NewMessage(chatID, "Адрес не может быть пустым. Введите ещё раз."))
		return
	}
	f := order.FromPayload(st.Payload)
	f.PickupAddress = addr
	b.recalcPrice(chatID, f)
	b.showServicesMenu(ctx, chatID, st.Payload, f, nil)
}

// servicesSummary — названия выбранных услуг для сводки.
func servicesSummary(p dialog.Payload, f order.Form) string {
	if len(f.AdditionalServices) == 0 {
		return "нет"
	}
	groups := refServiceGroups(p)
	var names []string
	for _, id := range f.AdditionalServices {
		if s := findService(groups, id); s != nil {
			names = append(names, s.Name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, ", ")
}
