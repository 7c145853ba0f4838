package bot

import (
	"context"
	"log/slog"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/domain/orders"
	"github.com/Spok95/cargo-calc-bot/internal/gateway"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	"github.com/Spok95/cargo-calc-bot/internal/pricing"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	states    *dialog.Repo
	orders    *orders.Repo
	gw        *gateway.Client
	prices    *pricing.Tracker
	adminChat int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	statesRepo *dialog.Repo, ordersRepo *orders.Repo,
	gw *gateway.Client, prices *pricing.Tracker, adminChatID int64) *Bot {

	return &Bot{
		api: api, log: log, states: statesRepo, orders: ordersRepo,
		gw: gw, prices: prices, adminChat: adminChatID,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

// startOrder загружает справочники и открывает мастер с пустой формой.
// Справочники живут в payload диалога до конца заказа.
func (b *Bot) startOrder(ctx context.Context, chatID int64) {
	wares, err := b.gw.Warehouses(ctx)
	if err != nil {
		b.log.Error("load warehouses failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить данные. Попробуйте позже."))
		return
	}
	conts, err := b.gw.ContainerTypes(ctx)
	if err != nil {
		b.log.Error("load containers failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить данные. Попробуйте позже."))
		return
	}

	b.prices.Reset(chatID)

	p := dialog.Payload{}
	putRef(p, refKeyWarehouses, wares)
	putRef(p, refKeyContainers, conts)
	order.NewForm().ToPayload(p)

	b.showMarketplaces(ctx, chatID, p)
}

// recalcPrice запускает пересчёт стоимости; по готовности результата экран
// с ценой перерисовывается.
func (b *Bot) recalcPrice(chatID int64, f order.Form) {
	b.prices.Recalculate(chatID, f, func() { b.refreshPrice(chatID) })
}

// refreshPrice перерисовывает текущий экран, если на нём есть строка цены.
// Вызывается из горутины трекера, поэтому контекст свой.
func (b *Bot) refreshPrice(chatID int64) {
	ctx := context.Background()
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		return
	}
	mid, ok := lastMID(st.Payload)
	if !ok {
		return
	}
	f := order.FromPayload(st.Payload)

	var text string
	var kb tgbotapi.InlineKeyboardMarkup
	switch st.State {
	case dialog.StateCargoMenu:
		text, kb = b.cargoMenuView(chatID, st.Payload, f, nil)
	case dialog.StateServicesMenu:
		text, kb = b.servicesMenuView(chatID, st.Payload, f, nil)
	case dialog.StateSummary:
		text, kb = b.summaryView(chatID, st.Payload, f)
	default:
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, text, kb))
}
