package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** ШАГ 1: ДОСТАВКА ***/

// marketplaces возвращает маркетплейсы из справочника складов без повторов,
// в порядке появления.
func marketplaces(wares []gateway.Warehouse) []gateway.Warehouse {
	seen := map[string]bool{}
	var out []gateway.Warehouse
	for _, w := range wares {
		if w.Marketplace == "" || seen[w.Marketplace] {
			continue
		}
		seen[w.Marketplace] = true
		out = append(out, w)
	}
	return out
}

func (b *Bot) showMarketplaces(ctx context.Context, chatID int64, p dialog.Payload) {
	wares := refWarehouses(p)
	mps := marketplaces(wares)
	if len(mps) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Список складов пуст. Попробуйте позже."))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, mp := range mps {
		label := mp.MarketplaceName
		if label == "" {
			label = mp.Marketplace
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "deliv:mp:"+mp.Marketplace),
		))
	}
	rows = append(rows, navRow(false, true))

	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Шаг 1 из 4. Куда везём груз?\nВыберите маркетплейс:")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateDelivMarketplace, p, sent.MessageID)
}

func (b *Bot) showWarehouses(ctx context.Context, chatID int64, p dialog.Payload, f order.Form) {
	wares := refWarehouses(p)

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, w := range wares {
		if w.Marketplace != f.Marketplace {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(gateway.WarehouseLabel(w),
				"deliv:wh:"+strconv.FormatInt(w.ID, 10)),
		))
	}
	if len(rows) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Для этого маркетплейса нет доступных складов."))
		return
	}
	rows = append(rows, navRow(true, true))

	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Шаг 1 из 4. Выберите склад:")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	f.ToPayload(p)
	b.saveLastStep(ctx, chatID, dialog.StateDelivWarehouse, p, sent.MessageID)
}

func (b *Bot) onMarketplacePicked(ctx context.Context, chatID int64, st *dialog.Item, mp string) {
	f := order.FromPayload(st.Payload)
	f.Marketplace = mp
	f.Warehouse = ""
	b.recalcPrice(chatID, f) // предусловие ложно — цена сбросится без запроса
	b.showWarehouses(ctx, chatID, st.Payload, f)
}

func (b *Bot) onWarehousePicked(ctx context.Context, chatID int64, st *dialog.Item, id string) {
	f := order.FromPayload(st.Payload)
	f.Warehouse = id
	b.recalcPrice(chatID, f)
	b.showCargoMenu(ctx, chatID, st.Payload, f, nil)
}

// deliverySummary — строка «маркетплейс, склад» для сводки.
func deliverySummary(p dialog.Payload, f order.Form) string {
	wares := refWarehouses(p)
	w := gateway.FindWarehouse(wares, f.Warehouse)
	if w == nil {
		return fmt.Sprintf("%s, склад %s", f.Marketplace, f.Warehouse)
	}
	name := w.MarketplaceName
	if name == "" {
		name = w.Marketplace
	}
	return fmt.Sprintf("%s, %s", name, gateway.WarehouseLabel(*w))
}
