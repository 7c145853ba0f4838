package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** HELPERS ***/

const (
	refKeyWarehouses = "ref_warehouses"
	refKeyContainers = "ref_containers"
	refKeyServices   = "ref_services"
)

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// sendReturn — как send, но отдаёт отправленное сообщение (нужен message_id).
func (b *Bot) sendReturn(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	m, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send failed", "err", err)
	}
	return m, err
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

// clearPrevStep убирает inline-кнопки у прошлого шага, если он был.
func (b *Bot) clearPrevStep(ctx context.Context, chatID int64) {
	st, _ := b.states.Get(ctx, chatID)
	if st == nil || st.Payload == nil {
		return
	}
	if mid, ok := lastMID(st.Payload); ok {
		rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, mid, rm))
	}
}

// saveLastStep сохраняет id текущего бот-сообщения как «последний» и фиксирует
// состояние диалога.
func (b *Bot) saveLastStep(ctx context.Context, chatID int64, nextState dialog.State, payload dialog.Payload, newMID int) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	payload["last_mid"] = float64(newMID)
	if err := b.states.Set(ctx, chatID, nextState, payload); err != nil {
		b.log.Error("save state failed", "chat_id", chatID, "state", nextState, "err", err)
	}
}

func lastMID(p dialog.Payload) (int, bool) {
	v, ok := p["last_mid"]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64) // payload хранится через JSON
	if !ok {
		return 0, false
	}
	return int(f), true
}

/*** СПРАВОЧНИКИ В PAYLOAD ***/

// Справочники сериализуются строкой, чтобы не терять типы при круговом
// проходе через JSONB.
func putRef(p dialog.Payload, key string, v any) {
	raw, _ := json.Marshal(v)
	p[key] = string(raw)
}

func refWarehouses(p dialog.Payload) []gateway.Warehouse {
	raw, ok := dialog.GetString(p, refKeyWarehouses)
	if !ok {
		return nil
	}
	var out []gateway.Warehouse
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func refContainers(p dialog.Payload) *gateway.ContainerTypes {
	raw, ok := dialog.GetString(p, refKeyContainers)
	if !ok {
		return nil
	}
	var out gateway.ContainerTypes
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return &out
}

func refServiceGroups(p dialog.Payload) []gateway.ServiceGroup {
	raw, ok := dialog.GetString(p, refKeyServices)
	if !ok {
		return nil
	}
	var out []gateway.ServiceGroup
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func locationRequiredMap(groups []gateway.ServiceGroup) map[string]bool {
	out := map[string]bool{}
	for _, g := range groups {
		for _, s := range g.Services {
			if s.RequiresLocation {
				out[string(s.ID)] = true
			}
		}
	}
	return out
}

func findService(groups []gateway.ServiceGroup, id string) *gateway.Service {
	for gi := range groups {
		for si := range groups[gi].Services {
			if string(groups[gi].Services[si].ID) == id {
				return &groups[gi].Services[si]
			}
		}
	}
	return nil
}

/*** ПОДПИСИ ***/

func optionLabel(opts []gateway.Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func boxSizeLabel(f order.Form, conts *gateway.ContainerTypes) string {
	switch {
	case f.BoxSize == "":
		return "не выбран"
	case f.BoxSize == order.SizeCustom:
		d := f.CustomBoxSize
		if d.Length == "" && d.Width == "" && d.Height == "" {
			return "свой размер (не задан)"
		}
		return fmt.Sprintf("%sx%sx%s см", d.Length, d.Width, d.Height)
	default:
		if conts != nil {
			return optionLabel(conts.BoxSizes, f.BoxSize)
		}
		return f.BoxSize
	}
}

func palletWeightLabel(f order.Form, conts *gateway.ContainerTypes) string {
	switch {
	case f.PalletWeight == "":
		return "не выбран"
	case f.PalletWeight == order.WeightCustom:
		if f.CustomPalletWeight == "" {
			return "свой вес (не задан)"
		}
		return f.CustomPalletWeight + " кг"
	default:
		if conts != nil {
			return optionLabel(conts.PalletWeights, f.PalletWeight)
		}
		return f.PalletWeight
	}
}

// priceLine — строка «Итоговая стоимость» для экранов с ценой; пустая, если
// считать пока нечего.
func (b *Bot) priceLine(chatID int64) string {
	res, loading := b.prices.Current(chatID)
	if loading {
		return "\n💰 Итоговая стоимость: расчёт..."
	}
	if res != nil {
		return fmt.Sprintf("\n💰 Итоговая стоимость: %s ₽", res.Total)
	}
	return ""
}
