package bot

import (
	"context"
	"strings"

	"github.com/Spok95/cargo-calc-bot/internal/dialog"
	"github.com/Spok95/cargo-calc-bot/internal/order"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** ШАГ 4: ДАННЫЕ КЛИЕНТА ***/

func (b *Bot) askClientName(ctx context.Context, chatID int64, st *dialog.Item) {
	f := order.FromPayload(st.Payload)
	text := "Шаг 4 из 4. Введите имя клиента:"
	if f.ClientName != "" {
		text += "\nТекущее значение: " + f.ClientName
	}
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = navKeyboard(true, true)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateClientName, st.Payload, sent.MessageID)
}

func (b *Bot) onClientNameInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Имя не может быть пустым. Введите ещё раз."))
		return
	}
	f := order.FromPayload(st.Payload)
	f.ClientName = name
	f.ToPayload(st.Payload)
	b.askClientPhone(ctx, chatID, st)
}

func (b *Bot) askClientPhone(ctx context.Context, chatID int64, st *dialog.Item) {
	f := order.FromPayload(st.Payload)
	text := "Введите номер телефона:"
	if f.PhoneNumber != "" {
		text += "\nТекущее значение: " + f.PhoneNumber
	}
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = navKeyboard(true, true)
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateClientPhone, st.Payload, sent.MessageID)
}

func (b *Bot) onClientPhoneInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	phone := strings.TrimSpace(text)
	if phone == "" {
		b.send(tgbotapi.NewMessage(chatID, "Номер телефона не может быть пустым. Введите ещё раз."))
		return
	}
	f := order.FromPayload(st.Payload)
	f.PhoneNumber = phone
	f.ToPayload(st.Payload)
	b.askClientCompany(ctx, chatID, st)
}

func (b *Bot) askClientCompany(ctx context.Context, chatID int64, st *dialog.Item) {
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Укажите компанию (необязательно):")
	m.ReplyMarkup = skipKeyboard()
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateClientCompany, st.Payload, sent.MessageID)
}

func (b *Bot) onClientCompanyInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	f := order.FromPayload(st.Payload)
	f.Company = strings.TrimSpace(text)
	f.ToPayload(st.Payload)
	b.askClientEmail(ctx, chatID, st)
}

func (b *Bot) askClientEmail(ctx context.Context, chatID int64, st *dialog.Item) {
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Укажите email (необязательно):")
	m.ReplyMarkup = skipKeyboard()
	sent, err := b.sendReturn(m)
	if err != nil {
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateClientEmail, st.Payload, sent.MessageID)
}

func (b *Bot) onClientEmailInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	f := order.FromPayload(st.Payload)
	f.Email = strings.TrimSpace(text)
	if errs := order.ValidateClient(f); errs["email"] != "" {
		b.send(tgbotapi.NewMessage(chatID, "Некорректный email. Введите ещё раз или нажмите «Пропустить»."))
		return
	}
	f.ToPayload(st.Payload)
	b.showSummary(ctx, chatID, st.Payload, f)
}

// onClientSkip — кнопка «Пропустить» для необязательных полей.
func (b *Bot) onClientSkip(ctx context.Context, chatID int64, st *dialog.Item) {
	f := order.FromPayload(st.Payload)
	switch st.State {
	case dialog.StateClientCompany:
		f.Company = ""
		f.ToPayload(st.Payload)
		b.askClientEmail(ctx, chatID, st)
	case dialog.StateClientEmail:
		f.Email = ""
		f.ToPayload(st.Payload)
		b.showSummary(ctx, chatID, st.Payload, f)
	}
}
